// Package trader drives one trading tick: fetch, decide, act, report.
package trader

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/naigolf/bitgolf/internal/bitkub"
	"github.com/naigolf/bitgolf/internal/journal"
	"github.com/naigolf/bitgolf/internal/market"
	"github.com/naigolf/bitgolf/internal/metrics"
	"github.com/naigolf/bitgolf/internal/notify"
	"github.com/naigolf/bitgolf/internal/position"
	"github.com/naigolf/bitgolf/internal/risk"
)

// Exchange is the narrow client surface the trader needs.
type Exchange interface {
	Ticker(ctx context.Context, symbol string) (market.Quote, error)
	Wallet(ctx context.Context) (market.Balances, error)
	PlaceOrder(ctx context.Context, req market.OrderRequest) (market.OrderResult, error)
	OpenOrders(ctx context.Context, symbol string) ([]market.OpenOrder, error)
}

// Journal records accepted trades.
type Journal interface {
	Record(journal.Entry) error
}

// Config bundles the trader's decision inputs.
type Config struct {
	Params position.Params
	Limits risk.Limits
	DryRun bool
}

const orderTimeout = 30 * time.Second

// Trader owns the position for one symbol and runs the tick cycle around
// it. The position is mutated only here, and only after a confirmed order
// result.
type Trader struct {
	cfg      Config
	client   Exchange
	store    *position.Store
	journal  Journal
	reporter notify.Reporter
	log      zerolog.Logger

	mu     sync.Mutex
	frozen bool
}

// New constructs a trader. The trade size is clamped by the risk limits up
// front so every decision downstream sees the bounded value.
func New(cfg Config, client Exchange, store *position.Store, jnl Journal, reporter notify.Reporter, log zerolog.Logger) *Trader {
	cfg.Params.TradeSize = cfg.Limits.Clamp(cfg.Params.TradeSize)
	return &Trader{
		cfg:      cfg,
		client:   client,
		store:    store,
		journal:  jnl,
		reporter: reporter,
		log:      log,
	}
}

// Frozen reports whether an ambiguous order result has halted automatic
// trading on this symbol.
func (t *Trader) Frozen() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.frozen
}

// Unfreeze clears the ambiguity halt after the operator has reconciled the
// position against the exchange's order history.
func (t *Trader) Unfreeze() {
	t.mu.Lock()
	t.frozen = false
	t.mu.Unlock()
}

// RunOnce executes a single trading tick. Calls are serialized: a tick that
// arrives while another is still in flight is skipped, never run
// concurrently, because overlapping ticks are the primary duplicate-order
// risk.
func (t *Trader) RunOnce(ctx context.Context) market.Outcome {
	symbol := t.cfg.Params.Symbol
	if !t.mu.TryLock() {
		return t.report(market.Outcome{Kind: market.OutcomeSkipped, Reason: "previous tick still in flight"})
	}
	defer t.mu.Unlock()

	metrics.TicksTotal.WithLabelValues(symbol).Inc()

	if t.frozen {
		return t.report(market.Outcome{Kind: market.OutcomeReconcile, Reason: "ambiguous order result pending reconciliation"})
	}

	quote, balances, err := t.fetch(ctx)
	if err != nil {
		// Read-stage failures abort the tick without touching the position.
		return t.report(market.Outcome{Kind: market.OutcomeError, Err: err.Error(), Reason: "tick aborted at fetch stage"})
	}

	open, err := t.client.OpenOrders(ctx, symbol)
	if err != nil {
		// Without the resting-order check a duplicate could slip through, so
		// the tick stops here.
		return t.report(market.Outcome{Kind: market.OutcomeError, Err: err.Error(), Reason: "open orders check failed"})
	}
	if len(open) > 0 {
		return t.report(market.Outcome{Kind: market.OutcomeNoop, Reason: fmt.Sprintf("%d resting order(s) already open", len(open))})
	}

	pos := t.store.Get(symbol)
	decision := position.Evaluate(pos, quote, balances, t.cfg.Params)
	switch decision.Action {
	case position.ActionNone:
		return t.report(market.Outcome{Kind: market.OutcomeNoop, Reason: decision.Reason})
	case position.ActionReconcile:
		return t.report(market.Outcome{Kind: market.OutcomeReconcile, Reason: decision.Reason})
	}

	order := *decision.Order
	if order.Side == market.Buy && !t.cfg.Limits.Allow(order.Amount.Mul(order.Price)) {
		return t.report(market.Outcome{Kind: market.OutcomeNoop, Reason: "buy notional above risk limit"})
	}
	if t.cfg.DryRun {
		return t.report(market.Outcome{
			Kind:   market.OutcomeDryRun,
			Side:   order.Side,
			Price:  order.Price,
			Amount: order.Amount,
			Reason: decision.Reason,
		})
	}

	// Shutdown must not cancel a submitted order mid-flight: losing track of
	// it is worse than finishing late. The submission runs on its own
	// timeout, detached from the loop's cancellation.
	orderCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), orderTimeout)
	defer cancel()

	result, err := t.client.PlaceOrder(orderCtx, order)
	if err != nil {
		if bitkub.IsKind(err, bitkub.KindAmbiguous) {
			t.frozen = true
			metrics.OrderFailures.WithLabelValues(symbol, string(bitkub.KindAmbiguous)).Inc()
			return t.report(market.Outcome{
				Kind:   market.OutcomeReconcile,
				Side:   order.Side,
				Price:  order.Price,
				Amount: order.Amount,
				Err:    err.Error(),
				Reason: "order result unconfirmed, trading halted until reconciled",
			})
		}
		metrics.OrderFailures.WithLabelValues(symbol, errorKind(err)).Inc()
		return t.report(market.Outcome{Kind: market.OutcomeError, Side: order.Side, Err: err.Error(), Reason: "order submission failed"})
	}
	if !result.Accepted {
		metrics.OrderFailures.WithLabelValues(symbol, string(bitkub.KindRejected)).Inc()
		return t.report(market.Outcome{
			Kind:   market.OutcomeRejected,
			Side:   order.Side,
			Price:  order.Price,
			Amount: order.Amount,
			Reason: fmt.Sprintf("exchange refused order (code %d)", result.ErrorCode),
		})
	}

	next := position.Confirm(pos, order)
	if err := t.store.Put(symbol, next); err != nil {
		t.log.Error().Err(err).Msg("persist position snapshot")
	}
	t.recordTrade(pos, order, result)
	metrics.OrdersTotal.WithLabelValues(symbol, string(order.Side)).Inc()

	kind := market.OutcomeBuy
	if order.Side == market.Sell {
		kind = market.OutcomeSell
	}
	return t.report(market.Outcome{
		Kind:    kind,
		Side:    order.Side,
		Price:   order.Price,
		Amount:  order.Amount,
		OrderID: result.OrderID,
		Reason:  decision.Reason,
	})
}

// fetch pulls the quote and balances concurrently; both are read-only and
// independent, and the decision waits for both.
func (t *Trader) fetch(ctx context.Context) (market.Quote, market.Balances, error) {
	var (
		wg        sync.WaitGroup
		quote     market.Quote
		balances  market.Balances
		quoteErr  error
		walletErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		quote, quoteErr = t.client.Ticker(ctx, t.cfg.Params.Symbol)
	}()
	go func() {
		defer wg.Done()
		balances, walletErr = t.client.Wallet(ctx)
	}()
	wg.Wait()

	if quoteErr != nil {
		return market.Quote{}, nil, fmt.Errorf("fetch quote: %w", quoteErr)
	}
	if walletErr != nil {
		return market.Quote{}, nil, fmt.Errorf("fetch balances: %w", walletErr)
	}
	return quote, balances, nil
}

func (t *Trader) recordTrade(prev position.Position, order market.OrderRequest, result market.OrderResult) {
	if t.journal == nil {
		return
	}
	entry := journal.Entry{
		Time:     time.Now().UTC(),
		Symbol:   order.Symbol,
		Side:     order.Side,
		Price:    order.Price,
		Amount:   order.Amount,
		Proceeds: order.Amount.Mul(order.Price),
		OrderID:  result.OrderID,
	}
	if order.Side == market.Sell {
		entry.Profit = order.Price.Sub(prev.ReferencePrice).Mul(order.Amount)
	}
	if err := t.journal.Record(entry); err != nil {
		t.log.Warn().Err(err).Msg("journal trade")
	}
}

func (t *Trader) report(o market.Outcome) market.Outcome {
	o.Symbol = t.cfg.Params.Symbol
	o.At = time.Now().UTC()
	if t.reporter != nil {
		t.reporter.Publish(o)
	}
	return o
}

func errorKind(err error) string {
	for _, kind := range []bitkub.Kind{
		bitkub.KindUnreachable,
		bitkub.KindAuth,
		bitkub.KindNotFound,
		bitkub.KindRejected,
		bitkub.KindInvalidInput,
	} {
		if bitkub.IsKind(err, kind) {
			return string(kind)
		}
	}
	return "unknown"
}
