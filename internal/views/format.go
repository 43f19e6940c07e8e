package views

import (
	"math/big"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var gbPrinter = message.NewPrinter(language.BritishEnglish)

// Money formats a major-unit GBP amount for display, e.g. "£1,250.00".
// Pence come from the exact decimal; only whole pounds pass through the
// locale printer for digit grouping.
func Money(amount decimal.Decimal) string {
	sign := ""
	if amount.Sign() < 0 {
		sign = "-"
	}
	pounds, pence, _ := strings.Cut(amount.Abs().StringFixed(2), ".")
	if whole, ok := new(big.Int).SetString(pounds, 10); ok && whole.IsInt64() {
		return gbPrinter.Sprintf("%s%v%v.%s", sign, currency.Symbol(currency.GBP), number.Decimal(whole.Int64()), pence)
	}
	return gbPrinter.Sprintf("%s%v%s.%s", sign, currency.Symbol(currency.GBP), pounds, pence)
}

// Quantity formats a count with en-GB digit grouping.
func Quantity(n int64) string {
	return gbPrinter.Sprintf("%d", n)
}

// Date renders a timestamp as an en-GB calendar date.
func Date(ts time.Time) string {
	if ts.IsZero() {
		return "-"
	}
	return ts.UTC().Format("2 Jan 2006")
}
