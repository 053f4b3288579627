// Package bitkub implements the signed REST client for the exchange API.
package bitkub

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// Signer produces request signatures over the canonical string
// timestamp || method || path || body.
type Signer struct {
	secret []byte
}

// NewSigner wraps the API secret for signing. The secret never leaves this
// struct and must not be logged or serialized elsewhere.
func NewSigner(secret string) *Signer {
	return &Signer{secret: []byte(secret)}
}

// Sign returns the hex-encoded HMAC-SHA256 of the canonical string. body must
// be the exact byte sequence that will be transmitted (nil or empty for
// bodyless GETs); signing one serialization and sending another invalidates
// the signature.
func (s *Signer) Sign(ts int64, method, path string, body []byte) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(strconv.FormatInt(ts, 10)))
	mac.Write([]byte(method))
	mac.Write([]byte(path))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
