// Package feed emits price ticks that trigger trading cycles.
package feed

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/naigolf/bitgolf/internal/market"
)

const (
	// ProviderStub emits deterministic synthetic ticks (useful for tests and
	// offline work).
	ProviderStub = "stub"
	// ProviderPoll fetches the HTTP ticker at a fixed cadence.
	ProviderPoll = "poll"
	// ProviderStream subscribes to the exchange's public websocket ticker.
	ProviderStream = "stream"
)

// Source fetches quotes for the poll provider.
type Source interface {
	Ticker(ctx context.Context, symbol string) (market.Quote, error)
}

// Feed pushes quotes for one symbol onto a channel until canceled. Quotes
// from the feed only trigger ticks; the trading cycle re-fetches its own
// snapshot through the client.
type Feed struct {
	provider     string
	symbol       string
	source       Source
	log          zerolog.Logger
	pollInterval time.Duration
	streamURL    string
}

// Option configures Feed construction parameters.
type Option func(*Feed)

const (
	defaultPollInterval    = 10 * time.Second
	defaultStreamBaseURL   = "wss://api.bitkub.com/websocket-api"
	defaultHandshakeWindow = 10 * time.Second
)

// WithPollInterval overrides the default polling cadence.
func WithPollInterval(d time.Duration) Option {
	return func(f *Feed) {
		if d > 0 {
			f.pollInterval = d
		}
	}
}

// WithStreamURL overrides the websocket endpoint (base URL or full stream
// URL; a bare base has the ticker stream path appended).
func WithStreamURL(u string) Option {
	return func(f *Feed) {
		if u != "" {
			f.streamURL = strings.TrimSuffix(u, "/")
		}
	}
}

// New constructs a feed backed by the requested provider.
func New(provider, symbol string, source Source, log zerolog.Logger, opts ...Option) *Feed {
	if provider == "" {
		provider = ProviderPoll
	}
	f := &Feed{
		provider:     strings.ToLower(provider),
		symbol:       symbol,
		source:       source,
		log:          log,
		pollInterval: defaultPollInterval,
		streamURL:    defaultStreamBaseURL,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Run pushes quotes onto the provided channel until the context is canceled.
func (f *Feed) Run(ctx context.Context, out chan<- market.Quote) error {
	switch f.provider {
	case ProviderStream:
		return f.runStream(ctx, out)
	case ProviderStub:
		return f.runStub(ctx, out)
	default:
		return f.runPoll(ctx, out)
	}
}

func (f *Feed) runPoll(ctx context.Context, out chan<- market.Quote) error {
	if err := f.pollOnce(ctx, out); err != nil && ctx.Err() == nil {
		f.log.Warn().Err(err).Msg("initial ticker poll failed")
	}

	ticker := time.NewTicker(f.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := f.pollOnce(ctx, out); err != nil && ctx.Err() == nil {
				f.log.Warn().Err(err).Msg("ticker poll failed")
			}
		}
	}
}

func (f *Feed) pollOnce(ctx context.Context, out chan<- market.Quote) error {
	quote, err := f.source.Ticker(ctx, f.symbol)
	if err != nil {
		return err
	}
	select {
	case out <- quote:
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}

func (f *Feed) runStub(ctx context.Context, out chan<- market.Quote) error {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	px := decimal.NewFromInt(100)
	step := decimal.NewFromFloat(0.1)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ts := <-ticker.C:
			px = px.Add(step)
			quote := market.Quote{Symbol: f.symbol, Last: px, At: ts}
			select {
			case out <- quote:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}
