package market

import (
	"time"

	"github.com/shopspring/decimal"
)

// OutcomeKind classifies what a trading tick produced.
type OutcomeKind string

const (
	// OutcomeNoop means the tick evaluated cleanly and decided to do nothing.
	OutcomeNoop OutcomeKind = "noop"
	// OutcomeSkipped means the tick was dropped because another was in flight.
	OutcomeSkipped OutcomeKind = "skipped"
	// OutcomeBuy and OutcomeSell mean an order was accepted by the exchange.
	OutcomeBuy  OutcomeKind = "buy"
	OutcomeSell OutcomeKind = "sell"
	// OutcomeRejected means the exchange explicitly refused the order.
	OutcomeRejected OutcomeKind = "rejected"
	// OutcomeReconcile means local state and exchange state disagree, or an
	// ambiguous order result is pending manual reconciliation.
	OutcomeReconcile OutcomeKind = "reconcile"
	// OutcomeError means the tick aborted before a decision could be acted on.
	OutcomeError OutcomeKind = "error"
	// OutcomeDryRun means a live order was withheld by the dry-run switch.
	OutcomeDryRun OutcomeKind = "dry_run"
)

// Outcome is the single structured event emitted at the end of each tick.
type Outcome struct {
	Symbol  string
	Kind    OutcomeKind
	Side    Side
	Price   decimal.Decimal
	Amount  decimal.Decimal
	OrderID string
	Reason  string
	Err     string
	At      time.Time
}
