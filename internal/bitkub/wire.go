package bitkub

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Precision declares the fixed number of decimal places the exchange accepts
// per numeric field of an instrument.
type Precision struct {
	Price  int32
	Amount int32
}

// DefaultPrecision matches THB-quoted pairs: two-place prices, eight-place
// amounts.
var DefaultPrecision = Precision{Price: 2, Amount: 8}

// wireNumber renders a decimal as a fixed-place JSON number: no exponent, no
// trailing-zero ambiguity. The output feeds the single body serialization
// used for both the signature and the transmitted request, so it must be
// applied exactly once, before signing.
func wireNumber(d decimal.Decimal, places int32) json.Number {
	return json.Number(d.StringFixed(places))
}
