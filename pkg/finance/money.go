package finance

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// All money is carried as int64 cents. Every multiplication that can produce fractional cents
// goes through roundCents, which rounds half away from zero.

var secondsPerHour = decimal.NewFromInt(3600)

func roundCents(d decimal.Decimal) int64 {
	return d.Round(0).IntPart()
}

// LaborAmountCents returns round(hours * rate).
func LaborAmountCents(hours decimal.Decimal, rateCents int64) int64 {
	return roundCents(hours.Mul(decimal.NewFromInt(rateCents)))
}

// PercentOfCents returns round(base * percent / 100).
func PercentOfCents(baseCents int64, percent decimal.Decimal) int64 {
	return roundCents(decimal.NewFromInt(baseCents).Mul(percent).Shift(-2))
}

// FormatCents renders cents in major units with two decimals, e.g. 125000 -> "1250.00".
func FormatCents(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}

// HoursToTime renders decimal hours as H:MM:SS.
func HoursToTime(hours decimal.Decimal) string {
	totalSeconds := hours.Mul(secondsPerHour).Round(0).IntPart()
	h := totalSeconds / 3600
	m := (totalSeconds % 3600) / 60
	s := totalSeconds % 60
	return fmt.Sprintf("%d:%02d:%02d", h, m, s)
}

// FormatHours renders decimal hours as "X.Xh".
func FormatHours(hours decimal.Decimal) string {
	return hours.StringFixed(1) + "h"
}
