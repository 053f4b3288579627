// Package market standardizes payloads shared between the exchange client,
// decision, and reporting layers.
package market

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Side enumerates order directions.
type Side string

const (
	// Buy spends quote currency to acquire the base asset.
	Buy Side = "BUY"
	// Sell liquidates the held base asset back into quote currency.
	Sell Side = "SELL"
)

// Quote is one immutable ticker snapshot, fetched once per tick.
type Quote struct {
	Symbol string
	Last   decimal.Decimal
	At     time.Time
}

// Balances maps asset codes to available amounts. A fresh map replaces the
// previous one each tick; entries are never mutated in place.
type Balances map[string]decimal.Decimal

// Available returns the available amount for an asset, zero when absent.
func (b Balances) Available(asset string) decimal.Decimal {
	return b[asset]
}

// OrderRequest is a limit order placement, constructed per decision. Amount
// and price must be strictly positive and already rounded to the
// instrument's precision before the request is signed.
type OrderRequest struct {
	Side   Side
	Symbol string
	Amount decimal.Decimal
	Price  decimal.Decimal
}

// OrderResult reports what the exchange said about a submitted order. A
// definite rejection arrives as Accepted=false with the exchange error code;
// that is a normal outcome, not a fault.
type OrderResult struct {
	Accepted  bool
	OrderID   string
	ErrorCode int
	Raw       json.RawMessage
}

// OpenOrder is one resting order as reported by the exchange.
type OpenOrder struct {
	ID     string
	Side   Side
	Price  decimal.Decimal
	Amount decimal.Decimal
}

// SplitSymbol breaks an exchange pair code into base and quote asset codes.
// Pairs are quoted as QUOTE_BASE (for example THB_DOGE trades DOGE against
// THB).
func SplitSymbol(symbol string) (base, quote string) {
	parts := strings.SplitN(symbol, "_", 2)
	if len(parts) != 2 {
		return symbol, ""
	}
	return parts[1], parts[0]
}
