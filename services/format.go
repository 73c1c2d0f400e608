package services

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatMoney formats an amount with thousands separators and exactly two
// decimal places, e.g. 1234567.8 → "1,234,567.80".
func FormatMoney(amount decimal.Decimal) string {
	raw := amount.StringFixed(2)

	negative := strings.HasPrefix(raw, "-")
	raw = strings.TrimPrefix(raw, "-")

	intPart, decPart, _ := strings.Cut(raw, ".")
	result := applyThousandsGrouping(intPart) + "." + decPart
	if negative {
		result = "-" + result
	}
	return result
}

// FormatMoneyFloat is FormatMoney for stored float figures.
func FormatMoneyFloat(amount float64) string {
	return FormatMoney(decimal.NewFromFloat(amount))
}

// FormatCurrency prefixes the formatted amount with the currency code.
func FormatCurrency(amount decimal.Decimal, currency string) string {
	code := strings.ToUpper(strings.TrimSpace(currency))
	if code == "" {
		code = DefaultCurrency
	}
	return code + " " + FormatMoney(amount)
}

// applyThousandsGrouping inserts a comma every 3 digits from the right.
func applyThousandsGrouping(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	var b strings.Builder
	lead := n % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// formatQty returns whole quantities without decimals and fractional ones
// with 2 decimal places.
func formatQty(qty float64) string {
	if qty == math.Trunc(qty) {
		return fmt.Sprintf("%.0f", qty)
	}
	return fmt.Sprintf("%.2f", qty)
}

// formatPercent drops a trailing ".00" from percentage labels.
func formatPercent(p float64) string {
	return strings.TrimSuffix(fmt.Sprintf("%.2f", p), ".00") + "%"
}
