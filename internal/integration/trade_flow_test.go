package integration

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/naigolf/bitgolf/internal/bitkub"
	"github.com/naigolf/bitgolf/internal/journal"
	"github.com/naigolf/bitgolf/internal/market"
	"github.com/naigolf/bitgolf/internal/notify"
	"github.com/naigolf/bitgolf/internal/position"
	"github.com/naigolf/bitgolf/internal/trader"
)

// scriptedVenue is a minimal in-process stand-in for the exchange REST API.
// The test mutates price and balances between ticks to walk the trader
// through a full cycle.
type scriptedVenue struct {
	mu       sync.Mutex
	last     string
	thb      string
	doge     string
	nextID   int
	accepted []string
}

func (v *scriptedVenue) set(last, thb, doge string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.last, v.thb, v.doge = last, thb, doge
}

func (v *scriptedVenue) handler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v.mu.Lock()
		defer v.mu.Unlock()
		switch r.URL.Path {
		case "/api/v3/servertime":
			io.WriteString(w, "1700000000000")
		case "/api/market/ticker":
			fmt.Fprintf(w, `{"THB_DOGE":{"last":%s}}`, v.last)
		case "/api/v3/market/wallet":
			fmt.Fprintf(w, `{"error":0,"result":{"THB":%s,"DOGE":%s}}`, v.thb, v.doge)
		case "/api/v3/market/my-open-orders":
			io.WriteString(w, `{"error":0,"result":[]}`)
		case "/api/v3/market/place-bid", "/api/v3/market/place-ask":
			body, _ := io.ReadAll(r.Body)
			v.accepted = append(v.accepted, string(body))
			v.nextID++
			fmt.Fprintf(w, `{"error":0,"result":{"id":%d}}`, v.nextID)
		default:
			t.Errorf("unexpected request path %s", r.URL.Path)
			http.NotFound(w, r)
		}
	})
}

func TestFullTradingCycle(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	venue := &scriptedVenue{}
	srv := httptest.NewServer(venue.handler(t))
	defer srv.Close()

	dir := t.TempDir()
	client := bitkub.NewClient(srv.URL, "test-key", "test-secret", zerolog.Nop())
	store := position.NewStore(filepath.Join(dir, "position.json"))
	if err := store.Load(); err != nil {
		t.Fatalf("load store: %v", err)
	}
	journalPath := filepath.Join(dir, "trades.jsonl")
	jw, err := journal.NewWriter(journalPath)
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	defer jw.Close()

	bot := trader.New(trader.Config{
		Params: position.Params{
			Symbol:          "THB_DOGE",
			BuyDropPercent:  decimal.RequireFromString("2"),
			SellGainPercent: decimal.RequireFromString("3"),
			TradeSize:       decimal.RequireFromString("100"),
			PricePlaces:     2,
			AmountPlaces:    8,
		},
	}, client, store, jw, notify.Multi{notify.NewLog(zerolog.Nop())}, zerolog.Nop())

	// Tick 1: idle, price 100, flush with quote currency: buys the dip.
	venue.set("100", "1000", "0")
	if out := bot.RunOnce(ctx); out.Kind != market.OutcomeBuy {
		t.Fatalf("tick 1: expected buy, got %s (%s)", out.Kind, out.Reason)
	}
	if pos := store.Get("THB_DOGE"); pos.Phase != position.Holding || !pos.ReferencePrice.Equal(decimal.RequireFromString("98.00")) {
		t.Fatalf("tick 1: unexpected position %+v", pos)
	}

	// Tick 2: holding, price below the sell target: nothing happens.
	venue.set("99", "900", "1.02040816")
	if out := bot.RunOnce(ctx); out.Kind != market.OutcomeNoop {
		t.Fatalf("tick 2: expected noop, got %s (%s)", out.Kind, out.Reason)
	}

	// Tick 3: price clears the 3% gain target: the position is sold.
	venue.set("101.5", "900", "1.02040816")
	out := bot.RunOnce(ctx)
	if out.Kind != market.OutcomeSell {
		t.Fatalf("tick 3: expected sell, got %s (%s)", out.Kind, out.Reason)
	}
	if !out.Price.Equal(decimal.RequireFromString("100.94")) {
		t.Fatalf("tick 3: sell price %s, want 100.94", out.Price)
	}
	if pos := store.Get("THB_DOGE"); pos.Phase != position.Idle {
		t.Fatalf("tick 3: expected Idle after sell, got %+v", pos)
	}

	venue.mu.Lock()
	submissions := append([]string(nil), venue.accepted...)
	venue.mu.Unlock()
	if len(submissions) != 2 {
		t.Fatalf("expected exactly two order submissions, got %d", len(submissions))
	}
	if want := `{"sym":"THB_DOGE","amt":1.02040816,"rat":98.00,"typ":"limit"}`; submissions[0] != want {
		t.Fatalf("buy body:\n got %s\nwant %s", submissions[0], want)
	}
	if want := `{"sym":"THB_DOGE","amt":1.02040816,"rat":100.94,"typ":"limit"}`; submissions[1] != want {
		t.Fatalf("sell body:\n got %s\nwant %s", submissions[1], want)
	}

	if err := jw.Close(); err != nil {
		t.Fatalf("close journal: %v", err)
	}
	entries, err := journal.Read(journalPath)
	if err != nil {
		t.Fatalf("read journal: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected two journal entries, got %d", len(entries))
	}
	profit := journal.DayProfit(entries, time.Now())
	if want := decimal.RequireFromString("2.9999999904"); !profit.Equal(want) {
		t.Fatalf("day profit %s, want %s", profit, want)
	}
}
