package quote

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bher20/locadora/pkg/shared"
)

// Location is a pickup point with a flat fee.
type Location struct {
	Key  string          `json:"key"`
	Name string          `json:"name"`
	Fee  decimal.Decimal `json:"fee"`
}

var locations = []Location{
	{Key: "loja-centro", Name: "Loja Centro", Fee: decimal.Zero},
	{Key: "aeroporto", Name: "Aeroporto (Taxa Entrega)", Fee: decimal.NewFromInt(80)},
	{Key: "hotel-delivery", Name: "Hotel / Delivery", Fee: decimal.NewFromInt(50)},
}

// Locations returns the pickup points in display order.
func Locations() []Location {
	out := make([]Location, len(locations))
	copy(out, locations)
	return out
}

// LookupLocation finds a location by key or display name.
func LookupLocation(s string) (Location, bool) {
	s = strings.TrimSpace(s)
	folded := shared.Fold(s)
	for _, l := range locations {
		if l.Key == s || shared.Fold(l.Name) == folded {
			return l, true
		}
	}
	return Location{}, false
}
