// Package notify delivers tick outcomes to external channels.
package notify

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/naigolf/bitgolf/internal/market"
)

// Reporter receives the single outcome event emitted at the end of each
// tick. Implementations must be fire-and-forget: a delivery failure never
// propagates back into the trading loop.
type Reporter interface {
	Publish(market.Outcome)
}

// Multi fans one outcome out to several reporters.
type Multi []Reporter

func (m Multi) Publish(o market.Outcome) {
	for _, r := range m {
		r.Publish(o)
	}
}

// Log writes outcomes to the process log.
type Log struct {
	log zerolog.Logger
}

// NewLog wraps a zerolog logger as an outcome reporter.
func NewLog(log zerolog.Logger) *Log { return &Log{log: log} }

func (l *Log) Publish(o market.Outcome) {
	evt := l.log.Info().
		Str("symbol", o.Symbol).
		Str("kind", string(o.Kind))
	if o.Side != "" {
		evt = evt.Str("side", string(o.Side)).Str("price", o.Price.String()).Str("amount", o.Amount.String())
	}
	if o.OrderID != "" {
		evt = evt.Str("order_id", o.OrderID)
	}
	if o.Err != "" {
		evt = evt.Str("error", o.Err)
	}
	evt.Msg(o.Reason)
}

// FormatText renders an outcome as a one-line human message.
func FormatText(o market.Outcome) string {
	switch o.Kind {
	case market.OutcomeBuy:
		return fmt.Sprintf("✅ %s buy %s @ %s (order %s)", o.Symbol, o.Amount, o.Price, o.OrderID)
	case market.OutcomeSell:
		return fmt.Sprintf("✅ %s sell %s @ %s (order %s)", o.Symbol, o.Amount, o.Price, o.OrderID)
	case market.OutcomeRejected:
		return fmt.Sprintf("⚠️ %s order rejected: %s", o.Symbol, o.Reason)
	case market.OutcomeReconcile:
		return fmt.Sprintf("🛑 %s needs reconciliation: %s", o.Symbol, o.Reason)
	case market.OutcomeError:
		return fmt.Sprintf("❌ %s tick failed: %s", o.Symbol, o.Err)
	case market.OutcomeDryRun:
		return fmt.Sprintf("📝 %s dry run %s %s @ %s", o.Symbol, o.Side, o.Amount, o.Price)
	default:
		return fmt.Sprintf("%s %s: %s", o.Symbol, o.Kind, o.Reason)
	}
}
