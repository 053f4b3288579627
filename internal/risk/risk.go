// Package risk bounds how much size a single trade may take on.
package risk

import "github.com/shopspring/decimal"

// Limits caps the quote-currency notional committed per trade. A zero cap
// disables the check.
type Limits struct {
	MaxNotionalPerTrade decimal.Decimal
}

// Allow reports whether a notional fits within the per-trade cap.
func (l Limits) Allow(notional decimal.Decimal) bool {
	if !l.MaxNotionalPerTrade.IsPositive() {
		return true
	}
	return notional.LessThanOrEqual(l.MaxNotionalPerTrade)
}

// Clamp returns the spendable size: the requested size bounded by the cap.
func (l Limits) Clamp(size decimal.Decimal) decimal.Decimal {
	if l.MaxNotionalPerTrade.IsPositive() && size.GreaterThan(l.MaxNotionalPerTrade) {
		return l.MaxNotionalPerTrade
	}
	return size
}
