package quote

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bher20/locadora/internal/listings"
)

func TestResolveSpecs(t *testing.T) {
	tests := []struct {
		name     string
		category string
		seats    int
		luggage  int
	}{
		{"Renegade", "SUV", 5, 3},
		{"Jeep Renegade Longitude", "SUV", 5, 3},
		{"Fiat Mobi Like", "compacto", 4, 1},
		{"VW up!", "compacto", 4, 1},
		{"Chevrolet ONIX Plus", "sedan/hatch", 5, 2},
		{"Peugeot 208", "sedan/hatch", 5, 2},
		{"Toyota Corolla Cross", "SUV", 5, 3},
		{"Hyundai Créta", "SUV", 5, 3},
		{"Ferrari F8", "padrão", 5, 2},
		{"", "padrão", 5, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ResolveSpecs(tt.name)
			assert.Equal(t, tt.category, s.Category)
			assert.Equal(t, tt.seats, s.Seats)
			assert.Equal(t, tt.luggage, s.Luggage)
			assert.NotEmpty(t, s.Icon)
		})
	}
}

func TestSelectScript(t *testing.T) {
	s := SelectScript(Date{2025, time.December, 24}, "Ana")
	assert.Equal(t, PeriodYearEnd, s.Period)
	assert.Contains(t, s.Message, "Ana")

	s = SelectScript(Date{2025, time.January, 3}, "")
	assert.Equal(t, PeriodYearEnd, s.Period, "new year window wins over january vacations")
	assert.Contains(t, s.Message, DefaultCustomerName)

	tests := []struct {
		date   Date
		period string
	}{
		{Date{2025, time.December, 19}, PeriodStandard},
		{Date{2025, time.December, 20}, PeriodYearEnd},
		{Date{2026, time.January, 5}, PeriodYearEnd},
		{Date{2026, time.January, 6}, PeriodVacation},
		{Date{2026, time.February, 14}, PeriodVacation},
		{Date{2026, time.July, 1}, PeriodVacation},
		{Date{2026, time.March, 10}, PeriodStandard},
		{Date{2026, time.August, 31}, PeriodStandard},
	}
	for _, tt := range tests {
		t.Run(tt.date.ISO(), func(t *testing.T) {
			got := SelectScript(tt.date, "  Bruno  ")
			assert.Equal(t, tt.period, got.Period)
			assert.Contains(t, got.Message, "Bruno")
			assert.NotEmpty(t, got.Label)
		})
	}
}

func TestSeasonAndRate(t *testing.T) {
	l := listings.Listing{Name: "Onix", LowRate: dec("120"), HighRate: dec("180")}

	for _, m := range []time.Month{time.January, time.February, time.July, time.December} {
		assert.True(t, IsHighSeason(Date{2025, m, 10}), m.String())
	}
	for _, m := range []time.Month{time.March, time.June, time.August, time.November} {
		assert.False(t, IsHighSeason(Date{2025, m, 10}), m.String())
	}

	rate, high := SelectRate(l, Date{2025, time.July, 15})
	assert.True(t, high)
	assert.True(t, dec("180").Equal(rate))

	rate, high = SelectRate(l, Date{2025, time.March, 15})
	assert.False(t, high)
	assert.True(t, dec("120").Equal(rate))
}

func TestIsLead(t *testing.T) {
	tests := []struct {
		name    string
		listing listings.Listing
		ceiling string
		want    bool
	}{
		{"status isca", listings.Listing{Status: "ISCA"}, "0", true},
		{"status accented", listings.Listing{Status: "Indisponível"}, "0", true},
		{"status esgotado", listings.Listing{Status: "esgotado p/ dezembro"}, "0", true},
		{"available", listings.Listing{Status: "Disponível", LowRate: dec("49.90")}, "0", false},
		{"cheap under ceiling", listings.Listing{LowRate: dec("49.90")}, "60", true},
		{"at ceiling", listings.Listing{LowRate: dec("60")}, "60", false},
		{"zero price ignored", listings.Listing{LowRate: dec("0")}, "60", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsLead(tt.listing, dec(tt.ceiling)))
		})
	}
}

func TestLookupLocation(t *testing.T) {
	all := Locations()
	assert.Len(t, all, 3)

	l, ok := LookupLocation("aeroporto")
	assert.True(t, ok)
	assert.True(t, dec("80").Equal(l.Fee))

	l, ok = LookupLocation("hotel / delivery")
	assert.True(t, ok)
	assert.Equal(t, "hotel-delivery", l.Key)
	assert.True(t, dec("50").Equal(l.Fee))

	l, ok = LookupLocation("Loja Centro")
	assert.True(t, ok)
	assert.True(t, l.Fee.IsZero())

	_, ok = LookupLocation("Rodoviária")
	assert.False(t, ok)
}

func TestFormatBRL(t *testing.T) {
	assert.Equal(t, "R$ 1.234,56", FormatBRL(dec("1234.56")))
	assert.Equal(t, "R$ 530,00", FormatBRL(dec("530")))
	assert.Equal(t, "R$ 0,00", FormatBRL(dec("0")))
	assert.Equal(t, "R$ 99,90", FormatBRL(dec("99.9")))
	assert.Equal(t, "R$ 100,00", FormatBRL(dec("100")))
	assert.Equal(t, "R$ 1.000.000,00", FormatBRL(dec("1000000")))
	assert.Equal(t, "R$ 0,01", FormatBRL(dec("0.005")))
	assert.Equal(t, "-R$ 1.500,50", FormatBRL(dec("-1500.5")))
	assert.Equal(t, "R$ 12.345.678.901.234.567,89", FormatBRL(dec("12345678901234567.89")))
}
