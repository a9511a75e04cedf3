package catalog

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is assigned to prices submitted without a currency.
const DefaultCurrency = "KSH"

// Money is an amount tagged with its currency.
type Money struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// NormalizeCurrency upper-cases code and falls back to fallback when empty.
func NormalizeCurrency(code, fallback string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return fallback
	}
	return code
}

// Totals accumulates amounts per currency. Amounts of different currencies are
// never added together.
type Totals map[string]decimal.Decimal

// Add adds amount to the running total for currency.
func (t Totals) Add(currency string, amount decimal.Decimal) {
	t[currency] = t[currency].Add(amount)
}

// Money returns the totals sorted by currency code.
func (t Totals) Money() []Money {
	out := make([]Money, 0, len(t))
	for currency, amount := range t {
		out = append(out, Money{Amount: amount.Round(2), Currency: currency})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Currency < out[j].Currency })
	return out
}
