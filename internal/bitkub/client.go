package bitkub

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/naigolf/bitgolf/internal/market"
)

// DefaultBaseURL is the production REST endpoint.
const DefaultBaseURL = "https://api.bitkub.com"

const (
	serverTimePath = "/api/v3/servertime"
	tickerPath     = "/api/market/ticker"
	symbolsPath    = "/api/market/symbols"
	walletPath     = "/api/v3/market/wallet"
	placeBidPath   = "/api/v3/market/place-bid"
	placeAskPath   = "/api/v3/market/place-ask"
	openOrdersPath = "/api/v3/market/my-open-orders"
)

const (
	headerAPIKey    = "X-BTK-APIKEY"
	headerTimestamp = "X-BTK-TIMESTAMP"
	headerSignature = "X-BTK-SIGN"
)

const (
	defaultTimeout = 10 * time.Second
	readRetryWait  = 500 * time.Millisecond
)

// Client talks to the exchange REST API. Read-only calls retry once on
// transient network failures; order submission is never retried here.
type Client struct {
	http      *resty.Client
	apiKey    string
	signer    *Signer
	precision Precision
	log       zerolog.Logger
	now       func() time.Time
}

// Option configures Client construction parameters.
type Option func(*Client)

// WithPrecision overrides the instrument's wire precision.
func WithPrecision(p Precision) Option {
	return func(c *Client) {
		if p.Price > 0 {
			c.precision.Price = p.Price
		}
		if p.Amount > 0 {
			c.precision.Amount = p.Amount
		}
	}
}

// WithTimeout overrides the per-request timeout budget.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.SetTimeout(d)
		}
	}
}

// WithClock injects the local clock used when the server time is unavailable.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// NewClient constructs a client for the given venue and credentials.
func NewClient(baseURL, apiKey, apiSecret string, log zerolog.Logger, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	httpc := resty.New().
		SetBaseURL(strings.TrimSuffix(baseURL, "/")).
		SetTimeout(defaultTimeout).
		SetHeader("Accept", "application/json")

	c := &Client{
		http:      httpc,
		apiKey:    apiKey,
		signer:    NewSigner(apiSecret),
		precision: DefaultPrecision,
		log:       log,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ServerTime returns the exchange clock in unix milliseconds.
func (c *Client) ServerTime(ctx context.Context) (int64, error) {
	resp, err := c.http.R().SetContext(ctx).Get(serverTimePath)
	if err != nil {
		return 0, newError(KindUnreachable, 0, err, "fetch server time")
	}
	ts, err := strconv.ParseInt(strings.Trim(strings.TrimSpace(string(resp.Body())), `"`), 10, 64)
	if err != nil {
		return 0, errors.Wrap(err, "parse server time")
	}
	return ts, nil
}

// timestamp prefers the exchange clock to avoid skew rejections. On failure
// it falls back to the local clock; the resulting signature is best-effort
// and flagged for observability.
func (c *Client) timestamp(ctx context.Context) (ts int64, bestEffort bool) {
	ts, err := c.ServerTime(ctx)
	if err != nil {
		c.log.Warn().Err(err).Msg("server time unavailable, signing with local clock")
		return c.now().UnixMilli(), true
	}
	return ts, false
}

// signedPost signs body exactly as passed and transmits those same bytes.
// Callers must marshal the body once and never re-serialize it afterwards.
func (c *Client) signedPost(ctx context.Context, path string, body []byte) (*resty.Response, error) {
	ts, bestEffort := c.timestamp(ctx)
	sig := c.signer.Sign(ts, http.MethodPost, path, body)
	if bestEffort {
		c.log.Debug().Str("path", path).Int64("ts", ts).Msg("best-effort signature timestamp")
	}
	return c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader(headerAPIKey, c.apiKey).
		SetHeader(headerTimestamp, strconv.FormatInt(ts, 10)).
		SetHeader(headerSignature, sig).
		SetBody(body).
		Post(path)
}

// signedPostRetry replays a read-only signed call once after a transient
// network failure. The retry re-signs with a fresh timestamp.
func (c *Client) signedPostRetry(ctx context.Context, path string, body []byte) (*resty.Response, error) {
	resp, err := c.signedPost(ctx, path, body)
	if err == nil {
		return resp, nil
	}
	select {
	case <-time.After(readRetryWait):
	case <-ctx.Done():
		return nil, newError(KindUnreachable, 0, ctx.Err(), "%s canceled", path)
	}
	resp, err = c.signedPost(ctx, path, body)
	if err != nil {
		return nil, newError(KindUnreachable, 0, err, "%s unreachable", path)
	}
	return resp, nil
}

func (c *Client) getRetry(ctx context.Context, path string) (*resty.Response, error) {
	resp, err := c.http.R().SetContext(ctx).Get(path)
	if err == nil {
		return resp, nil
	}
	select {
	case <-time.After(readRetryWait):
	case <-ctx.Done():
		return nil, newError(KindUnreachable, 0, ctx.Err(), "%s canceled", path)
	}
	resp, err = c.http.R().SetContext(ctx).Get(path)
	if err != nil {
		return nil, newError(KindUnreachable, 0, err, "%s unreachable", path)
	}
	return resp, nil
}

// Ticker fetches the last traded price for one symbol.
func (c *Client) Ticker(ctx context.Context, symbol string) (market.Quote, error) {
	if symbol == "" {
		return market.Quote{}, newError(KindInvalidInput, 0, nil, "empty symbol")
	}
	resp, err := c.getRetry(ctx, tickerPath+"?sym="+url.QueryEscape(symbol))
	if err != nil {
		return market.Quote{}, err
	}
	quote, err := parseTicker(resp.Body(), symbol)
	if err != nil {
		return market.Quote{}, err
	}
	quote.At = c.now()
	return quote, nil
}

// parseTicker handles both response shapes: the object form keyed by symbol
// and the array form with a symbol field per entry.
func parseTicker(body []byte, symbol string) (market.Quote, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var entries []tickerEntry
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return market.Quote{}, errors.Wrap(err, "decode ticker array")
		}
		for _, entry := range entries {
			if strings.EqualFold(entry.Symbol, symbol) {
				return market.Quote{Symbol: symbol, Last: entry.Last}, nil
			}
		}
		return market.Quote{}, newError(KindNotFound, 0, nil, "symbol %s absent from ticker", symbol)
	}

	var entries map[string]tickerEntry
	if err := json.Unmarshal(trimmed, &entries); err != nil {
		return market.Quote{}, errors.Wrap(err, "decode ticker object")
	}
	entry, ok := entries[symbol]
	if !ok {
		return market.Quote{}, newError(KindNotFound, 0, nil, "symbol %s absent from ticker", symbol)
	}
	return market.Quote{Symbol: symbol, Last: entry.Last}, nil
}

// Wallet fetches available balances. The returned map replaces the previous
// snapshot wholesale.
func (c *Client) Wallet(ctx context.Context) (market.Balances, error) {
	resp, err := c.signedPostRetry(ctx, walletPath, []byte("{}"))
	if err != nil {
		return nil, err
	}
	var parsed walletResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return nil, errors.Wrap(err, "decode wallet response")
	}
	if parsed.Error != 0 {
		if isAuthCode(parsed.Error) || resp.StatusCode() == http.StatusUnauthorized || resp.StatusCode() == http.StatusForbidden {
			return nil, newError(KindAuth, parsed.Error, nil, "wallet request rejected")
		}
		return nil, newError(KindRejected, parsed.Error, nil, "wallet error")
	}
	return market.Balances(parsed.Result), nil
}

// PlaceOrder submits one signed limit order. It is never retried: a
// transport failure after submission cannot be distinguished from a placed
// order, so those surface as Ambiguous and reconciliation stays with the
// caller.
func (c *Client) PlaceOrder(ctx context.Context, req market.OrderRequest) (market.OrderResult, error) {
	if err := validateOrder(req); err != nil {
		return market.OrderResult{}, err
	}

	path := placeBidPath
	if req.Side == market.Sell {
		path = placeAskPath
	}
	body, err := json.Marshal(orderBody{
		Sym: req.Symbol,
		Amt: wireNumber(req.Amount, c.precision.Amount),
		Rat: wireNumber(req.Price, c.precision.Price),
		Typ: "limit",
	})
	if err != nil {
		return market.OrderResult{}, errors.Wrap(err, "marshal order body")
	}

	resp, err := c.signedPost(ctx, path, body)
	if err != nil {
		return market.OrderResult{}, newError(KindAmbiguous, 0, err, "order submission unconfirmed")
	}

	raw := append([]byte(nil), resp.Body()...)
	var parsed orderResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		// The order may have been accepted; never resubmit on a garbled
		// response.
		return market.OrderResult{}, newError(KindAmbiguous, 0, err, "unparseable order response")
	}
	if parsed.Error != 0 {
		if isAuthCode(parsed.Error) {
			return market.OrderResult{}, newError(KindAuth, parsed.Error, nil, "order auth rejected")
		}
		return market.OrderResult{Accepted: false, ErrorCode: parsed.Error, Raw: raw}, nil
	}
	return market.OrderResult{Accepted: true, OrderID: parsed.Result.ID.String(), Raw: raw}, nil
}

func validateOrder(req market.OrderRequest) error {
	if req.Symbol == "" {
		return newError(KindInvalidInput, 0, nil, "empty symbol")
	}
	if req.Side != market.Buy && req.Side != market.Sell {
		return newError(KindInvalidInput, 0, nil, "unknown side %q", req.Side)
	}
	if !req.Amount.IsPositive() {
		return newError(KindInvalidInput, 0, nil, "amount %s not positive", req.Amount)
	}
	if !req.Price.IsPositive() {
		return newError(KindInvalidInput, 0, nil, "price %s not positive", req.Price)
	}
	return nil
}

// OpenOrders lists resting orders for one symbol.
func (c *Client) OpenOrders(ctx context.Context, symbol string) ([]market.OpenOrder, error) {
	if symbol == "" {
		return nil, newError(KindInvalidInput, 0, nil, "empty symbol")
	}
	body, err := json.Marshal(openOrdersBody{Sym: symbol})
	if err != nil {
		return nil, errors.Wrap(err, "marshal open orders body")
	}
	resp, err := c.signedPostRetry(ctx, openOrdersPath, body)
	if err != nil {
		return nil, err
	}
	var parsed openOrdersResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return nil, errors.Wrap(err, "decode open orders response")
	}
	if parsed.Error != 0 {
		if isAuthCode(parsed.Error) {
			return nil, newError(KindAuth, parsed.Error, nil, "open orders rejected")
		}
		return nil, newError(KindRejected, parsed.Error, nil, "open orders error")
	}
	out := make([]market.OpenOrder, 0, len(parsed.Result))
	for _, o := range parsed.Result {
		side := market.Buy
		if strings.EqualFold(o.Side, "sell") {
			side = market.Sell
		}
		out = append(out, market.OpenOrder{
			ID:     o.ID.String(),
			Side:   side,
			Price:  o.Rate,
			Amount: o.Amount,
		})
	}
	return out, nil
}

// Symbols lists the pairs the exchange currently trades.
func (c *Client) Symbols(ctx context.Context) ([]SymbolInfo, error) {
	resp, err := c.getRetry(ctx, symbolsPath)
	if err != nil {
		return nil, err
	}
	var parsed symbolsResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return nil, errors.Wrap(err, "decode symbols response")
	}
	if parsed.Error != 0 {
		return nil, newError(KindRejected, parsed.Error, nil, "symbols error")
	}
	return parsed.Result, nil
}

// HasSymbol reports whether the exchange lists the given pair.
func HasSymbol(infos []SymbolInfo, symbol string) bool {
	for _, info := range infos {
		if strings.EqualFold(info.Symbol, symbol) {
			return true
		}
	}
	return false
}
