package quote

import (
	"github.com/shopspring/decimal"

	"github.com/bher20/locadora/internal/listings"
	"github.com/bher20/locadora/pkg/shared"
)

// leadStatusMarkers flag a listing as a lead when found in its status text.
var leadStatusMarkers = []string{"isca", "lead", "indisponivel", "esgotado"}

// IsLead reports whether a listing is a low-price lead offer: its status
// mentions a lead marker, or its low-season rate is positive but under
// ceiling. A zero ceiling disables the price rule.
func IsLead(l listings.Listing, ceiling decimal.Decimal) bool {
	if shared.ContainsAny(l.Status, leadStatusMarkers...) {
		return true
	}
	return ceiling.IsPositive() && l.LowRate.IsPositive() && l.LowRate.LessThan(ceiling)
}
