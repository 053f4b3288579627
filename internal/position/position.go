// Package position tracks the trading-cycle state and decides the next
// action from price thresholds.
package position

import (
	"github.com/shopspring/decimal"

	"github.com/naigolf/bitgolf/internal/market"
)

// Phase enumerates the two trading-cycle states.
type Phase string

const (
	// Idle means no position is held; the machine looks for a dip to buy.
	Idle Phase = "idle"
	// Holding means a position was acquired at ReferencePrice and the machine
	// looks for enough gain above it to sell.
	Holding Phase = "holding"
)

// Position is the persistent trading-cycle state for one symbol. Holding
// implies ReferencePrice and HeldAmount are positive; Idle implies both are
// zero. It transitions only through Confirm, and only after a confirmed
// (non-ambiguous) order acceptance.
type Position struct {
	Phase          Phase           `json:"phase"`
	ReferencePrice decimal.Decimal `json:"referencePrice"`
	HeldAmount     decimal.Decimal `json:"heldAmount"`
}

// New returns the initial Idle state.
func New() Position {
	return Position{Phase: Idle}
}

// Confirm applies a confirmed order acceptance and returns the updated
// state. A confirmed buy starts a cycle at the buy's limit price; a
// confirmed sell closes it. Rejected or ambiguous results must never reach
// here.
func Confirm(pos Position, order market.OrderRequest) Position {
	switch order.Side {
	case market.Buy:
		return Position{Phase: Holding, ReferencePrice: order.Price, HeldAmount: order.Amount}
	case market.Sell:
		return New()
	}
	return pos
}
