package services

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// CurrencyUnits names the major and minor unit of a currency in words.
type CurrencyUnits struct {
	Major string
	Minor string
}

var currencyUnits = map[string]CurrencyUnits{
	"AED": {Major: "Dirham", Minor: "Fils"},
	"SAR": {Major: "Riyal", Minor: "Halala"},
	"USD": {Major: "Dollars", Minor: "Cents"},
	"EUR": {Major: "Euros", Minor: "Cents"},
	"GBP": {Major: "Pounds", Minor: "Pence"},
	"INR": {Major: "Rupees", Minor: "Paise"},
}

// DefaultCurrency applies when a document carries no currency code.
const DefaultCurrency = "AED"

// UnitsFor returns the unit names for a currency code. Unknown codes use
// the code itself as the major unit and "Cents" as the minor unit.
func UnitsFor(currency string) CurrencyUnits {
	code := strings.ToUpper(strings.TrimSpace(currency))
	if code == "" {
		code = DefaultCurrency
	}
	if u, ok := currencyUnits[code]; ok {
		return u
	}
	return CurrencyUnits{Major: code, Minor: "Cents"}
}

// maxWordsAmount is the first amount no longer spelled out. Larger amounts
// print as a grouped figure followed by the major unit.
const maxWordsAmount = 1e18

var scales = []string{"", "thousand", "million", "billion", "trillion", "quadrillion", "quintillion"}

var ones = []string{
	"", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine",
	"ten", "eleven", "twelve", "thirteen", "fourteen", "fifteen", "sixteen",
	"seventeen", "eighteen", "nineteen",
}

var tens = []string{
	"", "", "twenty", "thirty", "forty", "fifty", "sixty", "seventy", "eighty", "ninety",
}

// AmountToWords spells out a currency amount in English.
// Example: 1234.56 AED → "One thousand two hundred and thirty-four Dirham and fifty-six Fils"
func AmountToWords(amount float64, currency string) string {
	units := UnitsFor(currency)
	if amount == 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return "Zero " + units.Major
	}
	if amount < 0 {
		return "Minus " + lowerFirst(AmountToWords(-amount, currency))
	}

	if amount >= maxWordsAmount {
		return FormatMoney(decimal.NewFromFloat(amount)) + " " + units.Major
	}

	whole, cents := splitAmount(amount)

	words := integerToWords(whole)
	if words == "" {
		words = "zero"
	}
	result := words + " " + units.Major
	if cents > 0 {
		result += " and " + integerToWords(cents) + " " + units.Minor
	}
	return upperFirst(result)
}

// splitAmount formats to 2 decimals and parses both halves, so the cents
// agree with what a 2-decimal display shows.
func splitAmount(amount float64) (uint64, uint64) {
	fixed := fmt.Sprintf("%.2f", amount)
	intPart, fracPart, _ := strings.Cut(fixed, ".")
	whole, err := strconv.ParseUint(intPart, 10, 64)
	if err != nil {
		return 0, 0
	}
	cents, err := strconv.ParseUint(fracPart, 10, 64)
	if err != nil {
		return whole, 0
	}
	return whole, cents
}

// integerToWords converts n in base-1000 chunks, skipping zero chunks.
func integerToWords(n uint64) string {
	if n == 0 {
		return ""
	}

	var chunks []string
	for scale := 0; n > 0 && scale < len(scales); scale++ {
		chunk := n % 1000
		n /= 1000
		if chunk == 0 {
			continue
		}
		words := chunkToWords(chunk)
		if scales[scale] != "" {
			words += " " + scales[scale]
		}
		chunks = append([]string{words}, chunks...)
	}

	return strings.Join(chunks, " ")
}

// chunkToWords converts 1..999.
func chunkToWords(n uint64) string {
	var parts []string
	if n >= 100 {
		parts = append(parts, ones[n/100]+" hundred")
		n %= 100
		if n > 0 {
			parts = append(parts, "and")
		}
	}
	if n > 0 {
		parts = append(parts, under100(n))
	}
	return strings.Join(parts, " ")
}

func under100(n uint64) string {
	if n < 20 {
		return ones[n]
	}
	result := tens[n/10]
	if n%10 != 0 {
		result += "-" + ones[n%10]
	}
	return result
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
