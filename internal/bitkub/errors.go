package bitkub

import (
	"errors"
	"fmt"
)

// Kind classifies client failures by their retry and propagation policy.
type Kind string

const (
	// KindUnreachable covers network and timeout failures on read-only calls;
	// these are retryable.
	KindUnreachable Kind = "unreachable"
	// KindAuth covers signature or credential rejections; never retried.
	KindAuth Kind = "auth"
	// KindNotFound means the requested symbol is absent from the response.
	KindNotFound Kind = "not_found"
	// KindRejected covers explicit non-order API errors.
	KindRejected Kind = "rejected"
	// KindAmbiguous means an order submission could not be confirmed either
	// way; it must never be retried automatically.
	KindAmbiguous Kind = "ambiguous"
	// KindInvalidInput covers malformed parameters caught before signing.
	KindInvalidInput Kind = "invalid_input"
)

// APIError carries the failure class and, when the exchange produced one, its
// numeric error code.
type APIError struct {
	Kind  Kind
	Code  int
	msg   string
	cause error
}

func (e *APIError) Error() string {
	out := fmt.Sprintf("bitkub: %s: %s", e.Kind, e.msg)
	if e.Code != 0 {
		out += fmt.Sprintf(" (code %d)", e.Code)
	}
	if e.cause != nil {
		out += ": " + e.cause.Error()
	}
	return out
}

func (e *APIError) Unwrap() error { return e.cause }

func newError(kind Kind, code int, cause error, format string, args ...any) *APIError {
	return &APIError{Kind: kind, Code: code, msg: fmt.Sprintf(format, args...), cause: cause}
}

// IsKind reports whether err is an APIError of the given kind.
func IsKind(err error, kind Kind) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}

// Error codes the exchange documents for credential, signature, and timestamp
// problems. These do not self-heal, so callers must not retry them.
var authCodes = map[int]struct{}{
	2: {}, // missing API key
	3: {}, // invalid API key
	5: {}, // IP not allowed
	6: {}, // missing or invalid signature
	7: {}, // missing timestamp
	8: {}, // invalid timestamp
}

func isAuthCode(code int) bool {
	_, ok := authCodes[code]
	return ok
}
