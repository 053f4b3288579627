package bitkub

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

type tickerEntry struct {
	Symbol string          `json:"symbol"`
	Last   decimal.Decimal `json:"last"`
}

type walletResponse struct {
	Error  int                        `json:"error"`
	Result map[string]decimal.Decimal `json:"result"`
}

// orderBody is the exact wire shape of a limit order placement. Field order
// here fixes the byte layout the signature is computed over.
type orderBody struct {
	Sym string      `json:"sym"`
	Amt json.Number `json:"amt"`
	Rat json.Number `json:"rat"`
	Typ string      `json:"typ"`
}

type orderResponse struct {
	Error  int `json:"error"`
	Result struct {
		ID   json.Number `json:"id"`
		Hash string      `json:"hash"`
	} `json:"result"`
}

type openOrdersBody struct {
	Sym string `json:"sym"`
}

type openOrdersResponse struct {
	Error  int `json:"error"`
	Result []struct {
		ID     json.Number     `json:"id"`
		Side   string          `json:"side"`
		Rate   decimal.Decimal `json:"rate"`
		Amount decimal.Decimal `json:"amount"`
	} `json:"result"`
}

// SymbolInfo describes one listed trading pair.
type SymbolInfo struct {
	ID     int    `json:"id"`
	Symbol string `json:"symbol"`
	Info   string `json:"info"`
}

type symbolsResponse struct {
	Error  int          `json:"error"`
	Result []SymbolInfo `json:"result"`
}
