package quote

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bher20/locadora/internal/listings"
)

// highSeasonMonths are the months billed at the listing's high rate.
var highSeasonMonths = map[time.Month]bool{
	time.January:  true,
	time.February: true,
	time.July:     true,
	time.December: true,
}

// IsHighSeason reports whether a pickup on d falls in high season.
func IsHighSeason(d Date) bool {
	return highSeasonMonths[d.Month]
}

// SelectRate picks the daily rate for a pickup date and reports whether the
// high-season rate was used.
func SelectRate(l listings.Listing, pickup Date) (decimal.Decimal, bool) {
	if IsHighSeason(pickup) {
		return l.HighRate, true
	}
	return l.LowRate, false
}

// SeasonLabel names the season for display.
func SeasonLabel(high bool) string {
	if high {
		return "alta temporada"
	}
	return "baixa temporada"
}
