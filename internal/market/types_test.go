package market

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestSplitSymbol(t *testing.T) {
	cases := []struct {
		symbol string
		base   string
		quote  string
	}{
		{"THB_DOGE", "DOGE", "THB"},
		{"THB_BTC", "BTC", "THB"},
		{"USDT_ETH", "ETH", "USDT"},
		{"BADPAIR", "BADPAIR", ""},
	}
	for _, tc := range cases {
		base, quote := SplitSymbol(tc.symbol)
		if base != tc.base || quote != tc.quote {
			t.Fatalf("SplitSymbol(%q) = (%q, %q), want (%q, %q)", tc.symbol, base, quote, tc.base, tc.quote)
		}
	}
}

func TestBalancesAvailable(t *testing.T) {
	b := Balances{"THB": decimal.NewFromInt(1000)}
	if !b.Available("THB").Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("unexpected THB balance: %s", b.Available("THB"))
	}
	if !b.Available("DOGE").IsZero() {
		t.Fatalf("absent asset must read zero")
	}
	if !Balances(nil).Available("THB").IsZero() {
		t.Fatalf("nil balances must read zero")
	}
}
