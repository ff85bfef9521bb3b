package openai

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"reflect"
	"strings"

	"github.com/openai/openai-go"
	"github.com/opencodehq/sdkgate"
)

// Normalize maps any failure raised through the SDK onto the internal
// taxonomy. The mapping is total: everything unrecognized becomes
// KindUnknown, so a raw SDK error never crosses the package boundary.
// Already-normalized errors pass through unchanged, which makes repeated
// normalization idempotent.
func Normalize(err error) *sdkgate.Error {
	if err == nil {
		return nil
	}

	var normalized *sdkgate.Error
	if errors.As(err, &normalized) {
		return normalized
	}

	var evt sdkgate.ErrorEvent
	if errors.As(err, &evt) && evt.Err != nil {
		return evt.Err
	}

	// Most specific first: a status-carrying SDK error beats the generic
	// transport classification its cause might also match.
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return normalizeStatus(apiErr)
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return sdkgate.NewErrorf(sdkgate.KindTimeout, "%v", err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return sdkgate.NewErrorf(sdkgate.KindTimeout, "%v", err)
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return sdkgate.NewErrorf(sdkgate.KindConnectionFailed, "%v", err)
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return sdkgate.NewErrorf(sdkgate.KindConnectionFailed, "%v", err)
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return sdkgate.NewErrorf(sdkgate.KindConnectionFailed, "%v", err)
	}

	if kind, ok := kindFromTypeName(err); ok {
		return sdkgate.NewErrorf(kind, "%v", err)
	}

	return sdkgate.NewErrorf(sdkgate.KindUnknown, "%v", err)
}

func normalizeStatus(apiErr *openai.Error) *sdkgate.Error {
	kind := sdkgate.KindUnknown
	switch {
	case apiErr.StatusCode == http.StatusBadRequest,
		apiErr.StatusCode == http.StatusUnprocessableEntity:
		kind = sdkgate.KindInvalidRequest
	case apiErr.StatusCode == http.StatusUnauthorized,
		apiErr.StatusCode == http.StatusForbidden:
		kind = sdkgate.KindAuthenticationFailed
	case apiErr.StatusCode == http.StatusNotFound:
		kind = sdkgate.KindNotFound
	case apiErr.StatusCode == http.StatusRequestTimeout:
		kind = sdkgate.KindTimeout
	case apiErr.StatusCode == http.StatusConflict:
		kind = sdkgate.KindConflict
	case apiErr.StatusCode == http.StatusTooManyRequests:
		kind = sdkgate.KindRateLimited
	case apiErr.StatusCode >= 500:
		kind = sdkgate.KindServerFault
	}
	return sdkgate.NewStatusError(kind, apiErr.StatusCode, apiErrorMessage(apiErr))
}

// apiErrorMessage extracts a message without calling the SDK error's
// Error method on a partially populated value, which dereferences its
// request and response.
func apiErrorMessage(apiErr *openai.Error) string {
	if apiErr.Message != "" {
		return apiErr.Message
	}
	if apiErr.Request != nil && apiErr.Response != nil {
		return apiErr.Error()
	}
	return http.StatusText(apiErr.StatusCode)
}

// typeNamePatterns is the forward-compatibility scan: when the alpha SDK
// grows error types this adapter does not know yet, their type names still
// classify them. The retry hint always comes from the kind, never from
// the message.
var typeNamePatterns = []struct {
	pattern string
	kind    sdkgate.Kind
}{
	{"ratelimit", sdkgate.KindRateLimited},
	{"toomanyrequests", sdkgate.KindRateLimited},
	{"timeout", sdkgate.KindTimeout},
	{"deadline", sdkgate.KindTimeout},
	{"unauthorized", sdkgate.KindAuthenticationFailed},
	{"authentication", sdkgate.KindAuthenticationFailed},
	{"permission", sdkgate.KindAuthenticationFailed},
	{"notfound", sdkgate.KindNotFound},
	{"conflict", sdkgate.KindConflict},
	{"badrequest", sdkgate.KindInvalidRequest},
	{"invalidrequest", sdkgate.KindInvalidRequest},
	{"unprocessable", sdkgate.KindInvalidRequest},
	{"internalserver", sdkgate.KindServerFault},
	{"connection", sdkgate.KindConnectionFailed},
}

func kindFromTypeName(err error) (sdkgate.Kind, bool) {
	typ := reflect.TypeOf(err)
	if typ == nil {
		return sdkgate.KindUnknown, false
	}
	name := strings.ToLower(typ.String())
	for _, entry := range typeNamePatterns {
		if strings.Contains(name, entry.pattern) {
			return entry.kind, true
		}
	}
	return sdkgate.KindUnknown, false
}
