package listings

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// plainNumber matches machine-formatted numbers such as "150" or "99.5",
// which the spreadsheet export emits for numeric cells.
var plainNumber = regexp.MustCompile(`^-?\d+(\.\d+)?$`)

// groupedThousands matches pt-BR integers with "." grouping such as "1.500",
// which would otherwise read as a machine decimal.
var groupedThousands = regexp.MustCompile(`^-?\d{1,3}(\.\d{3})+$`)

var currencyStripper = strings.NewReplacer("R$", "", "r$", "")

// NormalizePrice converts a spreadsheet price into a decimal amount.
// Numbers pass through; strings may carry a currency symbol, "." thousands
// separators and a "," decimal separator ("R$ 1.234,56"). Anything that
// cannot be parsed, and any negative amount, yields zero.
func NormalizePrice(raw any) decimal.Decimal {
	var d decimal.Decimal
	switch v := raw.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		d = v
	case *decimal.Decimal:
		if v == nil {
			return decimal.Zero
		}
		d = *v
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return decimal.Zero
		}
		d = decimal.NewFromFloat(v)
	case float32:
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return decimal.Zero
		}
		d = decimal.NewFromFloat32(v)
	case int:
		d = decimal.NewFromInt(int64(v))
	case int32:
		d = decimal.NewFromInt32(v)
	case int64:
		d = decimal.NewFromInt(v)
	case string:
		d = parsePriceString(v)
	case fmt.Stringer:
		d = parsePriceString(v.String())
	default:
		return decimal.Zero
	}
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

func parsePriceString(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	if plainNumber.MatchString(s) && !groupedThousands.MatchString(s) {
		if d, err := decimal.NewFromString(s); err == nil {
			return d
		}
	}

	s = currencyStripper.Replace(s)
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
