package finance

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatMoney renders per-line and per-invoice amounts as "$1,234.56".
func FormatMoney(amount float64) string {
	return formatWithPlaces(amount, 2)
}

// FormatWhole renders dashboard aggregates as "$1,235", without forced decimals.
func FormatWhole(amount float64) string {
	return formatWithPlaces(amount, 0)
}

// FormatPercent renders a tax rate as "10%" or "8.25%".
func FormatPercent(rate float64) string {
	if math.IsNaN(rate) || math.IsInf(rate, 0) {
		return "NaN%"
	}
	return decimal.NewFromFloat(rate).Round(2).String() + "%"
}

func formatWithPlaces(amount float64, places int32) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return "$NaN"
	}

	d := decimal.NewFromFloat(amount).Round(places)
	prefix := "$"
	if d.IsNegative() {
		prefix = "-$"
		d = d.Neg()
	}

	s := d.StringFixed(places)
	intPart, decPart := s, ""
	if dot := strings.IndexByte(s, '.'); dot >= 0 {
		intPart, decPart = s[:dot], s[dot:]
	}

	// Add commas to integer part
	result := make([]byte, 0, len(intPart)+len(intPart)/3)
	for i := 0; i < len(intPart); i++ {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			result = append(result, ',')
		}
		result = append(result, intPart[i])
	}

	return prefix + string(result) + decPart
}
