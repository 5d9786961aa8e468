package quote

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	day = 24 * time.Hour
	// gracePeriod is how far past a whole day a return may run before an
	// extra day is charged.
	gracePeriod = 2 * time.Hour
)

var hourNanos = decimal.NewFromInt(int64(time.Hour))

// Result is the priced outcome of a rental period.
type Result struct {
	BilledDays    int             `json:"billed_days"`
	BaseRate      decimal.Decimal `json:"base_rate"`
	DailySubtotal decimal.Decimal `json:"daily_subtotal"`
	LocationFee   decimal.Decimal `json:"location_fee"`
	Total         decimal.Decimal `json:"total"`
	// OverageHours is the remainder past the last whole day, set only when it
	// triggered an extra day.
	OverageHours  decimal.Decimal `json:"overage_hours"`
	OverageNotice string          `json:"overage_notice,omitempty"`
}

// HasOverage reports whether an extra day was charged for an extended return.
func (r Result) HasOverage() bool { return r.OverageNotice != "" }

// ComputeQuote prices a rental from calendar dates and wall-clock times.
// Dates are combined as naive wall-clock instants so daylight-saving
// transitions never change the day count.
func ComputeQuote(pickupDate Date, pickupTime Clock, returnDate Date, returnTime Clock, dailyRate, locationFee decimal.Decimal) (Result, error) {
	return Compute(pickupDate.At(pickupTime, time.UTC), returnDate.At(returnTime, time.UTC), dailyRate, locationFee)
}

// Compute prices the rental between two instants.
//
// Whole elapsed days are billed with a minimum of one. When at least one whole
// day elapsed and the remainder exceeds the grace period, one more day is
// billed and an overage notice is attached.
func Compute(pickup, ret time.Time, dailyRate, locationFee decimal.Decimal) (Result, error) {
	if dailyRate.IsNegative() || locationFee.IsNegative() {
		return Result{}, ErrNegativeAmount
	}
	if !ret.After(pickup) {
		return Result{}, fmt.Errorf("%w: pickup %s, return %s", ErrInvalidRange,
			pickup.Format("02/01/2006 15:04"), ret.Format("02/01/2006 15:04"))
	}

	elapsed := ret.Sub(pickup)
	whole := int(elapsed / day)
	rem := elapsed % day

	res := Result{
		BilledDays:   max(1, whole),
		BaseRate:     dailyRate,
		LocationFee:  locationFee,
		OverageHours: decimal.Zero,
	}
	if whole >= 1 && rem > gracePeriod {
		res.BilledDays++
		res.OverageHours = decimal.NewFromInt(int64(rem)).Div(hourNanos).Round(1)
		res.OverageNotice = overageNotice(res.OverageHours)
	}

	res.DailySubtotal = dailyRate.Mul(decimal.NewFromInt(int64(res.BilledDays)))
	res.Total = res.DailySubtotal.Add(locationFee)
	return res, nil
}

func overageNotice(hours decimal.Decimal) string {
	h := strings.Replace(hours.StringFixed(1), ".", ",", 1)
	return fmt.Sprintf("Inclui diária extra por horário estendido (+%sh)", h)
}
