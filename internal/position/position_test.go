package position

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/naigolf/bitgolf/internal/market"
)

func TestConfirmBuyThenSellReturnsToIdle(t *testing.T) {
	buy := market.OrderRequest{
		Side:   market.Buy,
		Symbol: "THB_DOGE",
		Amount: decimal.RequireFromString("1.02040816"),
		Price:  decimal.RequireFromString("98.00"),
	}

	held := Confirm(New(), buy)
	if held.Phase != Holding {
		t.Fatalf("expected Holding after buy, got %s", held.Phase)
	}
	if !held.ReferencePrice.Equal(buy.Price) || !held.HeldAmount.Equal(buy.Amount) {
		t.Fatalf("unexpected state after buy: %+v", held)
	}

	sell := market.OrderRequest{
		Side:   market.Sell,
		Symbol: "THB_DOGE",
		Amount: held.HeldAmount,
		Price:  decimal.RequireFromString("100.94"),
	}

	closed := Confirm(held, sell)
	if closed.Phase != Idle {
		t.Fatalf("expected Idle after sell, got %s", closed.Phase)
	}
	if !closed.ReferencePrice.IsZero() || !closed.HeldAmount.IsZero() {
		t.Fatalf("closed cycle must clear reference and amount: %+v", closed)
	}
}

func TestConfirmUnknownSideLeavesStateAlone(t *testing.T) {
	held := Position{Phase: Holding, ReferencePrice: decimal.NewFromInt(98), HeldAmount: decimal.NewFromInt(1)}

	got := Confirm(held, market.OrderRequest{Side: "CANCEL"})
	if got != held {
		t.Fatalf("unexpected transition: %+v", got)
	}
}
