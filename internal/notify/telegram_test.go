package notify

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/naigolf/bitgolf/internal/market"
)

func TestTelegramPublish(t *testing.T) {
	var (
		gotPath string
		gotMsg  telegramMessage
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotMsg); err != nil {
			t.Fatalf("decode message: %v", err)
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	tg := NewTelegram(srv.URL, "123:abc", "42", zerolog.Nop())
	tg.Publish(market.Outcome{
		Symbol:  "THB_DOGE",
		Kind:    market.OutcomeBuy,
		Side:    market.Buy,
		Price:   decimal.RequireFromString("98.00"),
		Amount:  decimal.RequireFromString("1.02040816"),
		OrderID: "555",
	})

	if gotPath != "/bot123:abc/sendMessage" {
		t.Fatalf("unexpected path: %s", gotPath)
	}
	if gotMsg.ChatID != "42" {
		t.Fatalf("unexpected chat id: %s", gotMsg.ChatID)
	}
	if !strings.Contains(gotMsg.Text, "buy 1.02040816 @ 98") {
		t.Fatalf("unexpected message text: %s", gotMsg.Text)
	}
}

func TestTelegramPublishFailureIsSilent(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	tg := NewTelegram(srv.URL, "123:abc", "42", zerolog.Nop())
	// Must not panic or block the caller even with the endpoint gone.
	tg.Publish(market.Outcome{Symbol: "THB_DOGE", Kind: market.OutcomeNoop, Reason: "nothing to do"})
}

func TestFormatText(t *testing.T) {
	cases := []struct {
		outcome market.Outcome
		want    string
	}{
		{
			market.Outcome{Symbol: "THB_DOGE", Kind: market.OutcomeSell, Amount: decimal.NewFromInt(1), Price: decimal.RequireFromString("100.94"), OrderID: "777"},
			"✅ THB_DOGE sell 1 @ 100.94 (order 777)",
		},
		{
			market.Outcome{Symbol: "THB_DOGE", Kind: market.OutcomeReconcile, Reason: "ambiguous order result pending reconciliation"},
			"🛑 THB_DOGE needs reconciliation: ambiguous order result pending reconciliation",
		},
		{
			market.Outcome{Symbol: "THB_DOGE", Kind: market.OutcomeRejected, Reason: "exchange refused order (code 18)"},
			"⚠️ THB_DOGE order rejected: exchange refused order (code 18)",
		},
	}
	for _, tc := range cases {
		if got := FormatText(tc.outcome); got != tc.want {
			t.Fatalf("FormatText = %q, want %q", got, tc.want)
		}
	}
}

type countingReporter struct{ n int }

func (c *countingReporter) Publish(market.Outcome) { c.n++ }

func TestMultiFansOut(t *testing.T) {
	a, b := &countingReporter{}, &countingReporter{}
	Multi{a, b}.Publish(market.Outcome{Kind: market.OutcomeNoop})
	if a.n != 1 || b.n != 1 {
		t.Fatalf("expected both reporters to receive the outcome, got %d and %d", a.n, b.n)
	}
}
