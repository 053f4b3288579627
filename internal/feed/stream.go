package feed

import (
	"context"
	"encoding/json"
	"math"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"

	"github.com/naigolf/bitgolf/internal/market"
)

type streamTicker struct {
	Stream string          `json:"stream"`
	Last   decimal.Decimal `json:"last"`
}

// streamEndpoint appends the ticker stream path unless the configured URL
// already names one.
func (f *Feed) streamEndpoint() string {
	if strings.Contains(f.streamURL, "market.ticker") {
		return f.streamURL
	}
	return f.streamURL + "/market.ticker." + strings.ToLower(f.symbol)
}

func (f *Feed) runStream(ctx context.Context, out chan<- market.Quote) error {
	url := f.streamEndpoint()
	backoff := time.Second
	const maxBackoff = 30 * time.Second

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := f.consumeStream(ctx, url, out); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			f.log.Warn().Err(err).Msg("ticker stream disconnected, retrying")
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
			backoff = time.Duration(math.Min(float64(maxBackoff), float64(backoff)*1.8))
			continue
		}
		return nil
	}
}

func (f *Feed) consumeStream(ctx context.Context, url string, out chan<- market.Quote) error {
	dialer := websocket.Dialer{HandshakeTimeout: defaultHandshakeWindow}
	conn, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	f.log.Info().Str("symbol", f.symbol).Str("url", url).Msg("connected ticker stream")

	conn.SetReadLimit(1 << 20)
	conn.SetReadDeadline(time.Now().Add(60 * time.Second))

	closeCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		<-closeCtx.Done()
		conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		_, message, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))

		var tick streamTicker
		if err := json.Unmarshal(message, &tick); err != nil {
			f.log.Warn().Err(err).Msg("failed to decode stream message")
			continue
		}
		if tick.Last.IsZero() {
			continue
		}
		quote := market.Quote{Symbol: f.symbol, Last: tick.Last, At: time.Now()}
		select {
		case out <- quote:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
