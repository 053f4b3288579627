package bitkub

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

func TestSignCanonicalLayout(t *testing.T) {
	signer := NewSigner("top-secret")
	body := []byte(`{"sym":"THB_DOGE","amt":1.02040816,"rat":98.00,"typ":"limit"}`)

	got := signer.Sign(1700000000000, "POST", "/api/v3/market/place-bid", body)

	mac := hmac.New(sha256.New, []byte("top-secret"))
	mac.Write([]byte("1700000000000POST/api/v3/market/place-bid"))
	mac.Write(body)
	want := hex.EncodeToString(mac.Sum(nil))

	if got != want {
		t.Fatalf("signature does not match canonical layout: got %s want %s", got, want)
	}
}

func TestSignDeterministic(t *testing.T) {
	signer := NewSigner("top-secret")
	body := []byte(`{}`)

	first := signer.Sign(1700000000000, "POST", "/api/v3/market/wallet", body)
	second := signer.Sign(1700000000000, "POST", "/api/v3/market/wallet", body)
	if first != second {
		t.Fatalf("expected identical signatures, got %s and %s", first, second)
	}
	if len(first) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(first))
	}
}

func TestSignSingleByteSensitivity(t *testing.T) {
	signer := NewSigner("top-secret")
	base := signer.Sign(1700000000000, "POST", "/api/v3/market/wallet", []byte(`{"a":1}`))

	cases := map[string]string{
		"timestamp": signer.Sign(1700000000001, "POST", "/api/v3/market/wallet", []byte(`{"a":1}`)),
		"method":    signer.Sign(1700000000000, "GET", "/api/v3/market/wallet", []byte(`{"a":1}`)),
		"path":      signer.Sign(1700000000000, "POST", "/api/v3/market/wallets", []byte(`{"a":1}`)),
		"body":      signer.Sign(1700000000000, "POST", "/api/v3/market/wallet", []byte(`{"a":2}`)),
	}
	for name, sig := range cases {
		if sig == base {
			t.Fatalf("changing %s did not change the signature", name)
		}
	}
}

func TestSignEmptyBodyMatchesNil(t *testing.T) {
	signer := NewSigner("top-secret")
	withNil := signer.Sign(1700000000000, "GET", "/api/market/ticker", nil)
	withEmpty := signer.Sign(1700000000000, "GET", "/api/market/ticker", []byte{})
	if withNil != withEmpty {
		t.Fatalf("nil and empty bodies must sign identically")
	}
}
