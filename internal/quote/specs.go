package quote

import (
	"github.com/bher20/locadora/pkg/shared"
)

// Specs describes a vehicle's capacity for the quotation text.
type Specs struct {
	Category string `json:"category"`
	Seats    int    `json:"seats"`
	Luggage  int    `json:"luggage"`
	Icon     string `json:"icon"`
}

type specsRule struct {
	fragments []string
	specs     Specs
}

// specsRules is evaluated in order; the first rule with a matching name
// fragment wins.
var specsRules = []specsRule{
	{
		fragments: []string{"mobi", "kwid", "uno", "march", "picanto", "up!"},
		specs:     Specs{Category: "compacto", Seats: 4, Luggage: 1, Icon: "🚗"},
	},
	{
		fragments: []string{"onix", "hb20", "argo", "polo", "virtus", "cronos", "versa", "yaris", "sandero", "logan", "208"},
		specs:     Specs{Category: "sedan/hatch", Seats: 5, Luggage: 2, Icon: "🚘"},
	},
	{
		fragments: []string{"renegade", "compass", "creta", "t-cross", "tcross", "kicks", "duster", "tracker", "hr-v", "hrv", "nivus", "pulse", "fastback", "tiggo", "sw4", "commander", "taos", "corolla cross"},
		specs:     Specs{Category: "SUV", Seats: 5, Luggage: 3, Icon: "🚙"},
	},
}

var defaultSpecs = Specs{Category: "padrão", Seats: 5, Luggage: 2, Icon: "🚖"}

// ResolveSpecs classifies a vehicle by name, ignoring case and accents.
// Unknown names get a five-seat default.
func ResolveSpecs(name string) Specs {
	for _, r := range specsRules {
		if shared.ContainsAny(name, r.fragments...) {
			return r.specs
		}
	}
	return defaultSpecs
}
