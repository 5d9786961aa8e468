package listings

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bher20/locadora/pkg/shared"
)

// Defaults applied when a spreadsheet column is absent or a cell is blank.
const (
	DefaultGroup        = "N/A"
	DefaultEngine       = "1.0"
	DefaultTransmission = "Manual"
)

// Listing is one rentable vehicle offer as published in the spreadsheet.
type Listing struct {
	Name         string          `json:"name"`
	Group        string          `json:"group"`
	Engine       string          `json:"engine"`
	Transmission string          `json:"transmission"`
	LowRate      decimal.Decimal `json:"low_rate"`
	HighRate     decimal.Decimal `json:"high_rate"`
	Status       string          `json:"status"`
}

// Row is a raw spreadsheet row. Nil fields were not present in the source;
// Listing applies the documented defaults for them.
type Row struct {
	Name         string
	Group        *string
	Engine       *string
	Transmission *string
	LowPrice     *string
	HighPrice    *string
	Status       *string
}

// Listing converts the row, normalizing prices and filling defaults.
func (r Row) Listing() Listing {
	return Listing{
		Name:         strings.TrimSpace(r.Name),
		Group:        orDefault(r.Group, DefaultGroup),
		Engine:       orDefault(r.Engine, DefaultEngine),
		Transmission: orDefault(r.Transmission, DefaultTransmission),
		LowRate:      priceOf(r.LowPrice),
		HighRate:     priceOf(r.HighPrice),
		Status:       orDefault(r.Status, ""),
	}
}

func orDefault(v *string, def string) string {
	if v == nil {
		return def
	}
	if s := strings.TrimSpace(*v); s != "" {
		return s
	}
	return def
}

func priceOf(v *string) decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}
	return NormalizePrice(*v)
}

// Table is a snapshot of the listing spreadsheet. A Table with a Warning and
// no listings is what callers get when the source could not be loaded.
type Table struct {
	Source    string    `json:"source"`
	FetchedAt time.Time `json:"fetched_at"`
	Stale     bool      `json:"stale"`
	Warning   string    `json:"warning,omitempty"`
	Listings  []Listing `json:"listings"`
}

// Empty reports whether the table has no listings.
func (t *Table) Empty() bool {
	return t == nil || len(t.Listings) == 0
}

// Get looks a vehicle up by name, exact match first and then ignoring case
// and accents.
func (t *Table) Get(name string) (Listing, bool) {
	if t == nil {
		return Listing{}, false
	}
	name = strings.TrimSpace(name)
	for _, l := range t.Listings {
		if l.Name == name {
			return l, true
		}
	}
	folded := shared.Fold(name)
	for _, l := range t.Listings {
		if shared.Fold(l.Name) == folded {
			return l, true
		}
	}
	return Listing{}, false
}

// Names returns vehicle names in spreadsheet order.
func (t *Table) Names() []string {
	if t == nil {
		return nil
	}
	out := make([]string, 0, len(t.Listings))
	for _, l := range t.Listings {
		out = append(out, l.Name)
	}
	return out
}
