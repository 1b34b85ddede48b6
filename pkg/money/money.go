// Package money formats and rounds rupee amounts.
package money

import (
	"math"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.MustParse("en-IN"))

// Format renders amount as Indian rupees with the currency symbol, e.g. "₹ 1250.50".
func Format(amount float64) string {
	return printer.Sprint(currency.Symbol(currency.INR.Amount(Round(amount))))
}

// Round rounds to whole paise.
func Round(amount float64) float64 {
	return math.Round(amount*100) / 100
}
