package position

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/naigolf/bitgolf/internal/market"
)

// Params are the configured thresholds and sizing inputs for one symbol.
type Params struct {
	Symbol          string
	BuyDropPercent  decimal.Decimal
	SellGainPercent decimal.Decimal
	TradeSize       decimal.Decimal // quote currency committed per buy
	PricePlaces     int32
	AmountPlaces    int32
}

// Action enumerates what the machine wants done this tick.
type Action string

const (
	ActionNone      Action = "none"
	ActionBuy       Action = "buy"
	ActionSell      Action = "sell"
	ActionReconcile Action = "reconcile"
)

// Decision is the result of one evaluation. Order is set only for buy and
// sell actions.
type Decision struct {
	Action Action
	Order  *market.OrderRequest
	Reason string
}

var hundred = decimal.NewFromInt(100)

// Evaluate inspects the latest quote and balances and returns the next
// action. It is a pure function: identical inputs always yield identical
// decisions, and evaluation alone never mutates the position.
func Evaluate(pos Position, quote market.Quote, balances market.Balances, p Params) Decision {
	base, quoteAsset := market.SplitSymbol(p.Symbol)

	// Sell evaluation comes first: phase gating makes overlap impossible,
	// but the precedence stays explicit.
	if pos.Phase == Holding {
		target := pos.ReferencePrice.Mul(hundred.Add(p.SellGainPercent)).Div(hundred).Round(p.PricePlaces)
		if quote.Last.LessThan(target) {
			return Decision{Action: ActionNone, Reason: fmt.Sprintf("last %s below sell target %s", quote.Last, target)}
		}
		held := balances.Available(base)
		if held.LessThan(pos.HeldAmount) {
			// Local state says we hold more than the exchange does. Do not
			// guess; surface the gap instead of forcing a transition.
			return Decision{Action: ActionReconcile, Reason: fmt.Sprintf("tracked %s %s exceeds available %s", pos.HeldAmount, base, held)}
		}
		return Decision{
			Action: ActionSell,
			Order: &market.OrderRequest{
				Side:   market.Sell,
				Symbol: p.Symbol,
				Amount: pos.HeldAmount,
				Price:  target,
			},
			Reason: fmt.Sprintf("last %s reached sell target %s", quote.Last, target),
		}
	}

	available := balances.Available(quoteAsset)
	if available.LessThan(p.TradeSize) {
		return Decision{Action: ActionNone, Reason: fmt.Sprintf("available %s %s below trade size %s", available, quoteAsset, p.TradeSize)}
	}
	target := quote.Last.Mul(hundred.Sub(p.BuyDropPercent)).Div(hundred).Round(p.PricePlaces)
	if !target.IsPositive() {
		return Decision{Action: ActionNone, Reason: fmt.Sprintf("buy target %s not positive", target)}
	}
	amount := p.TradeSize.Div(target).RoundDown(p.AmountPlaces)
	if !amount.IsPositive() {
		return Decision{Action: ActionNone, Reason: fmt.Sprintf("buy amount %s not positive", amount)}
	}
	return Decision{
		Action: ActionBuy,
		Order: &market.OrderRequest{
			Side:   market.Buy,
			Symbol: p.Symbol,
			Amount: amount,
			Price:  target,
		},
		Reason: fmt.Sprintf("placing dip buy %s below last %s", target, quote.Last),
	}
}
