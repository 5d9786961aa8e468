package quote

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"
)

// Inclusions is appended to every message.
const Inclusions = "✅ Incluso: proteção básica (LDW), quilometragem livre e assistência 24h.\n" +
	"📄 Necessário: CNH válida há mais de 2 anos e cartão de crédito para caução."

// Message is a plain-text email ready to copy into a mail client.
type Message struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Text joins subject and body for copy and paste.
func (m Message) Text() string {
	return "Assunto: " + m.Subject + "\n\n" + m.Body
}

// MessageData feeds the message templates.
type MessageData struct {
	Customer     string
	Vehicle      string
	Group        string
	Engine       string
	Transmission string
	Specs        Specs
	Location     Location
	Pickup       time.Time
	Return       time.Time
	HighSeason   bool
	Result       Result
	Script       Script
}

var funcs = template.FuncMap{
	"brl":    FormatBRL,
	"date":   func(t time.Time) string { return t.Format("02/01/2006") },
	"clock":  func(t time.Time) string { return t.Format("15:04") },
	"season": SeasonLabel,
	"plural": plural,
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

var (
	quoteSubject = template.Must(template.New("quote-subject").Funcs(funcs).Parse(
		`Orçamento de Locação - {{.Vehicle}} - {{date .Pickup}} a {{date .Return}}`))

	quoteBody = template.Must(template.New("quote-body").Funcs(funcs).Parse(`Olá, {{.Customer}}!

Segue o orçamento solicitado:

{{.Specs.Icon}} Veículo: {{.Vehicle}} (Grupo {{.Group}})
⚙️ Motor {{.Engine}} | Câmbio {{.Transmission}}
👥 {{.Specs.Seats}} pessoas | 🧳 {{.Specs.Luggage}} {{plural .Specs.Luggage "mala" "malas"}}

📅 Retirada: {{date .Pickup}} às {{clock .Pickup}}
📅 Devolução: {{date .Return}} às {{clock .Return}}
📍 Local: {{.Location.Name}}

💰 Valores ({{season .HighSeason}}):
- {{.Result.BilledDays}} {{plural .Result.BilledDays "diária" "diárias"}} x {{brl .Result.BaseRate}} = {{brl .Result.DailySubtotal}}
- Taxa de local: {{brl .Result.LocationFee}}
{{- if .Result.OverageNotice}}
- {{.Result.OverageNotice}}
{{- end}}

TOTAL: {{brl .Result.Total}}
`))

	leadSubject = template.Must(template.New("lead-subject").Funcs(funcs).Parse(
		`Sua reserva - {{.Vehicle}} - {{date .Pickup}}`))

	leadBody = template.Must(template.New("lead-body").Funcs(funcs).Parse(`{{.Script.Message}}

📅 Retirada: {{date .Pickup}} às {{clock .Pickup}}
📅 Devolução: {{date .Return}} às {{clock .Return}}
📍 Local: {{.Location.Name}}
`))
)

// ComposeQuoteMessage renders the direct quotation email.
func ComposeQuoteMessage(d MessageData) (Message, error) {
	return compose(quoteSubject, quoteBody, d)
}

// ComposeLeadMessage renders the seasonal upsell email for lead listings.
func ComposeLeadMessage(d MessageData) (Message, error) {
	return compose(leadSubject, leadBody, d)
}

func compose(subject, body *template.Template, d MessageData) (Message, error) {
	if strings.TrimSpace(d.Customer) == "" {
		d.Customer = DefaultCustomerName
	}
	var s, b bytes.Buffer
	if err := subject.Execute(&s, d); err != nil {
		return Message{}, fmt.Errorf("quote: render subject: %w", err)
	}
	if err := body.Execute(&b, d); err != nil {
		return Message{}, fmt.Errorf("quote: render body: %w", err)
	}
	return Message{
		Subject: s.String(),
		Body:    strings.TrimRight(b.String(), "\n") + "\n\n" + Inclusions,
	}, nil
}
