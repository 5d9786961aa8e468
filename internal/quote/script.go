package quote

import (
	"strings"
	"time"
)

// Script periods.
const (
	PeriodYearEnd  = "year-end"
	PeriodVacation = "vacation"
	PeriodStandard = "standard"
)

// DefaultCustomerName addresses customers who did not give a name.
const DefaultCustomerName = "Cliente"

// Script is the upsell text sent instead of a direct quote for lead listings.
type Script struct {
	Period  string `json:"period"`
	Label   string `json:"label"`
	Message string `json:"message"`
}

type scriptRule struct {
	period string
	label  string
	match  func(Date) bool
	text   func(name string) string
}

// scriptRules is evaluated in order; the year-end window overlaps January
// vacations and must come first.
var scriptRules = []scriptRule{
	{
		period: PeriodYearEnd,
		label:  "Festas de Fim de Ano",
		match: func(d Date) bool {
			return (d.Month == time.December && d.Day >= 20) || (d.Month == time.January && d.Day <= 5)
		},
		text: func(name string) string {
			return "Olá, " + name + "! Tudo bem? 🎄🎆\n\n" +
				"Para as festas de fim de ano a procura está altíssima e as unidades da categoria " +
				"promocional já foram todas reservadas. Para você não ficar sem carro no Natal e no " +
				"Réveillon, separei uma categoria superior com condição especial, sujeita à " +
				"disponibilidade no momento da confirmação.\n\n" +
				"Posso garantir essa reserva para você agora?"
		},
	},
	{
		period: PeriodVacation,
		label:  "Férias",
		match: func(d Date) bool {
			return d.Month == time.January || d.Month == time.February || d.Month == time.July
		},
		text: func(name string) string {
			return "Olá, " + name + "! Tudo bem? ☀️\n\n" +
				"Estamos em período de férias e a frota econômica está praticamente esgotada para " +
				"essas datas. Tenho uma opção de categoria superior, mais espaçosa para a viagem em " +
				"família, com um valor diferenciado para fechar hoje.\n\n" +
				"Quer que eu envie os detalhes e já deixe o veículo bloqueado em seu nome?"
		},
	},
	{
		period: PeriodStandard,
		label:  "Padrão",
		match:  func(Date) bool { return true },
		text: func(name string) string {
			return "Olá, " + name + "! Tudo bem?\n\n" +
				"O modelo anunciado acabou de ser reservado para essas datas. Consegui uma " +
				"alternativa equivalente ou superior pelo melhor valor disponível hoje.\n\n" +
				"Posso te passar a cotação dessa opção?"
		},
	},
}

// SelectScript picks the upsell script for a pickup date. A blank customer
// name becomes DefaultCustomerName.
func SelectScript(pickup Date, customerName string) Script {
	name := strings.TrimSpace(customerName)
	if name == "" {
		name = DefaultCustomerName
	}
	for _, r := range scriptRules {
		if r.match(pickup) {
			return Script{Period: r.period, Label: r.label, Message: r.text(name)}
		}
	}
	// unreachable: the last rule always matches
	return Script{}
}
