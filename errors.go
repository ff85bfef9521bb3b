package sdkgate

import "fmt"

// Kind classifies a provider failure into the internal taxonomy. Every
// failure that crosses the package boundary carries exactly one Kind, so
// callers can match exhaustively without ever touching SDK error types.
type Kind int

const (
	// KindUnknown is the catch-all for SDK failures that match no other
	// kind. Normalization is total: nothing escapes unclassified.
	KindUnknown Kind = iota
	// KindProviderUnavailable signals the SDK is missing, failed its
	// capability probe, or client construction failed.
	KindProviderUnavailable
	// KindAuthenticationFailed signals the credential was rejected.
	KindAuthenticationFailed
	// KindInvalidRequest signals a malformed or unsupported request shape,
	// detected either locally or by the provider.
	KindInvalidRequest
	// KindNotFound signals the referenced resource is absent.
	KindNotFound
	// KindConflict signals a resource state conflict.
	KindConflict
	// KindRateLimited signals provider-side throttling.
	KindRateLimited
	// KindTimeout signals the request exceeded its deadline.
	KindTimeout
	// KindConnectionFailed signals a transport-level failure before a
	// response was received.
	KindConnectionFailed
	// KindServerFault signals a provider internal error (5xx-equivalent).
	KindServerFault
)

var kindNames = map[Kind]string{
	KindUnknown:              "unknown_provider_error",
	KindProviderUnavailable:  "provider_unavailable",
	KindAuthenticationFailed: "authentication_failed",
	KindInvalidRequest:       "invalid_request",
	KindNotFound:             "not_found",
	KindConflict:             "conflict",
	KindRateLimited:          "rate_limited",
	KindTimeout:              "timeout",
	KindConnectionFailed:     "connection_failed",
	KindServerFault:          "server_fault",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return kindNames[KindUnknown]
}

// retryableKinds is the retry-hint table. The hint is a property of the
// kind, never derived from message contents.
var retryableKinds = map[Kind]bool{
	KindRateLimited:      true,
	KindTimeout:          true,
	KindConnectionFailed: true,
	KindServerFault:      true,
}

// Retryable reports whether an operation failing with this kind may be
// retried by an external policy. This layer itself never retries.
func (k Kind) Retryable() bool {
	return retryableKinds[k]
}

// Error is the normalized provider failure. It carries the originating
// message and an optional HTTP status, but never the raw SDK error value,
// so the SDK's type surface cannot leak into caller code.
type Error struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	Status  int    `json:"status,omitempty"`

	// Prevents unkeyed literals
	_ struct{}
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (%d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Retryable mirrors the kind-level hint for convenience at call sites.
func (e *Error) Retryable() bool { return e.Kind.Retryable() }

// NewError builds a normalized error with the given kind and message.
func NewError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// NewErrorf builds a normalized error with a formatted message.
func NewErrorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// NewStatusError builds a normalized error that retains the provider's
// HTTP status code for diagnostics.
func NewStatusError(kind Kind, status int, message string) *Error {
	return &Error{Kind: kind, Message: message, Status: status}
}
