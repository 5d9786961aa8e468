package quote

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func mustDate(t *testing.T, s string) Date {
	t.Helper()
	d, err := ParseDate(s)
	require.NoError(t, err)
	return d
}

func mustClock(t *testing.T, s string) Clock {
	t.Helper()
	c, err := ParseClock(s)
	require.NoError(t, err)
	return c
}

func TestComputeQuote_OverageScenario(t *testing.T) {
	res, err := ComputeQuote(
		mustDate(t, "2025-03-01"), mustClock(t, "10:00"),
		mustDate(t, "2025-03-04"), mustClock(t, "09:00"),
		dec("150"), dec("80"),
	)
	require.NoError(t, err)

	assert.Equal(t, 3, res.BilledDays)
	assert.True(t, dec("450").Equal(res.DailySubtotal))
	assert.True(t, dec("530").Equal(res.Total))
	assert.True(t, dec("23").Equal(res.OverageHours))
	assert.True(t, res.HasOverage())
	assert.Equal(t, "Inclui diária extra por horário estendido (+23,0h)", res.OverageNotice)
}

func TestComputeQuote_WithinGrace(t *testing.T) {
	res, err := ComputeQuote(
		mustDate(t, "2025-03-01"), mustClock(t, "10:00"),
		mustDate(t, "2025-03-02"), mustClock(t, "11:00"),
		dec("150"), dec("80"),
	)
	require.NoError(t, err)

	assert.Equal(t, 1, res.BilledDays)
	assert.True(t, dec("230").Equal(res.Total))
	assert.False(t, res.HasOverage())
	assert.True(t, res.OverageHours.IsZero())
}

func TestCompute_Table(t *testing.T) {
	base := time.Date(2025, 5, 10, 8, 0, 0, 0, time.UTC)
	tests := []struct {
		name     string
		elapsed  time.Duration
		days     int
		overage  bool
		hoursStr string
	}{
		{"under one hour", 30 * time.Minute, 1, false, "0"},
		{"same day short", 5 * time.Hour, 1, false, "0"},
		{"same day long", 20 * time.Hour, 1, false, "0"},
		{"exactly one day", 24 * time.Hour, 1, false, "0"},
		{"grace boundary", 26 * time.Hour, 1, false, "0"},
		{"just past grace", 26*time.Hour + time.Minute, 2, true, "2"},
		{"fractional overage", 24*time.Hour + 3*time.Hour + 15*time.Minute, 2, true, "3.3"},
		{"week", 7 * 24 * time.Hour, 7, false, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Compute(base, base.Add(tt.elapsed), dec("99.90"), dec("50"))
			require.NoError(t, err)
			assert.Equal(t, tt.days, res.BilledDays)
			assert.Equal(t, tt.overage, res.HasOverage())
			assert.True(t, dec(tt.hoursStr).Equal(res.OverageHours), "overage hours %s", res.OverageHours)
			assert.True(t, dec("99.90").Mul(decimal.NewFromInt(int64(tt.days))).Add(dec("50")).Equal(res.Total))
		})
	}
}

func TestCompute_TotalIsExact(t *testing.T) {
	base := time.Date(2025, 8, 1, 9, 0, 0, 0, time.UTC)
	for _, rate := range []string{"0", "0.01", "33.33", "129.99", "1234.565"} {
		for _, fee := range []string{"0", "50", "80.00"} {
			for h := 1; h <= 24*10; h += 7 {
				res, err := Compute(base, base.Add(time.Duration(h)*time.Hour), dec(rate), dec(fee))
				require.NoError(t, err)
				require.GreaterOrEqual(t, res.BilledDays, 1)
				want := dec(rate).Mul(decimal.NewFromInt(int64(res.BilledDays))).Add(dec(fee))
				require.True(t, want.Equal(res.Total), "rate %s fee %s hours %d", rate, fee, h)
				require.True(t, res.Total.Equal(res.DailySubtotal.Add(res.LocationFee)))
			}
		}
	}
}

func TestCompute_InvalidRange(t *testing.T) {
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	_, err := Compute(at, at, dec("100"), dec("0"))
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = Compute(at, at.Add(-time.Hour), dec("100"), dec("0"))
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestCompute_NegativeAmounts(t *testing.T) {
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	_, err := Compute(at, at.Add(48*time.Hour), dec("-1"), dec("0"))
	assert.ErrorIs(t, err, ErrNegativeAmount)

	_, err = Compute(at, at.Add(48*time.Hour), dec("100"), dec("-80"))
	assert.ErrorIs(t, err, ErrNegativeAmount)
}

func TestParseDateAndClock(t *testing.T) {
	d := mustDate(t, "04/03/2025")
	assert.Equal(t, Date{Year: 2025, Month: time.March, Day: 4}, d)
	assert.Equal(t, "04/03/2025", d.String())
	assert.Equal(t, "2025-03-04", d.ISO())

	c := mustClock(t, "9h30")
	assert.Equal(t, Clock{Hour: 9, Minute: 30}, c)
	assert.Equal(t, "09:30", c.String())

	_, err := ParseDate("2025-02-30")
	assert.ErrorIs(t, err, ErrInvalidDate)
	_, err = ParseClock("25:00")
	assert.ErrorIs(t, err, ErrInvalidDate)
	_, err = ParseClock("h")
	assert.ErrorIs(t, err, ErrInvalidDate)
	_, err = ParseClock("25h")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestParseClock_Forms(t *testing.T) {
	tests := []struct {
		in   string
		want Clock
	}{
		{"15:04", Clock{Hour: 15, Minute: 4}},
		{"09:30", Clock{Hour: 9, Minute: 30}},
		{"15h04", Clock{Hour: 15, Minute: 4}},
		{"10h", Clock{Hour: 10}},
		{"9H", Clock{Hour: 9}},
		{" 18h30 ", Clock{Hour: 18, Minute: 30}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClock(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
