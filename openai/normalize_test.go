package openai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"testing"

	"github.com/openai/openai-go"
	"github.com/opencodehq/sdkgate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_Nil(t *testing.T) {
	assert.Nil(t, Normalize(nil))
}

func TestNormalize_StatusCodes(t *testing.T) {
	cases := []struct {
		status    int
		kind      sdkgate.Kind
		retryable bool
	}{
		{400, sdkgate.KindInvalidRequest, false},
		{401, sdkgate.KindAuthenticationFailed, false},
		{403, sdkgate.KindAuthenticationFailed, false},
		{404, sdkgate.KindNotFound, false},
		{408, sdkgate.KindTimeout, true},
		{409, sdkgate.KindConflict, false},
		{422, sdkgate.KindInvalidRequest, false},
		{429, sdkgate.KindRateLimited, true},
		{500, sdkgate.KindServerFault, true},
		{503, sdkgate.KindServerFault, true},
		{418, sdkgate.KindUnknown, false},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("status_%d", tc.status), func(t *testing.T) {
			nerr := Normalize(&openai.Error{StatusCode: tc.status})
			require.NotNil(t, nerr)
			assert.Equal(t, tc.kind, nerr.Kind)
			assert.Equal(t, tc.status, nerr.Status)
			assert.Equal(t, tc.retryable, nerr.Retryable())
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	original := Normalize(&openai.Error{StatusCode: 429})
	again := Normalize(original)
	assert.Same(t, original, again)

	wrapped := fmt.Errorf("call failed: %w", original)
	assert.Same(t, original, Normalize(wrapped))
}

func TestNormalize_ContextErrors(t *testing.T) {
	assert.Equal(t, sdkgate.KindTimeout, Normalize(context.DeadlineExceeded).Kind)
	assert.Equal(t, sdkgate.KindTimeout, Normalize(context.Canceled).Kind)
}

func TestNormalize_TransportErrors(t *testing.T) {
	urlErr := &url.Error{Op: "Post", URL: "http://localhost/v1", Err: errors.New("connection refused")}
	assert.Equal(t, sdkgate.KindConnectionFailed, Normalize(urlErr).Kind)

	assert.Equal(t, sdkgate.KindConnectionFailed, Normalize(io.ErrUnexpectedEOF).Kind)
	assert.Equal(t, sdkgate.KindConnectionFailed, Normalize(io.EOF).Kind)
}

type timeoutError struct{}

func (timeoutError) Error() string   { return "deadline exceeded" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

func TestNormalize_NetTimeout(t *testing.T) {
	nerr := Normalize(timeoutError{})
	assert.Equal(t, sdkgate.KindTimeout, nerr.Kind)
	assert.True(t, nerr.Retryable())
}

// Error types the adapter has never seen classify by type name, covering
// SDK versions that restructure their hierarchy.
type fakeRateLimitError struct{}

func (fakeRateLimitError) Error() string { return "429 from somewhere new" }

type fakeNotFoundError struct{}

func (fakeNotFoundError) Error() string { return "gone" }

func TestNormalize_TypeNameFallback(t *testing.T) {
	assert.Equal(t, sdkgate.KindRateLimited, Normalize(fakeRateLimitError{}).Kind)
	assert.Equal(t, sdkgate.KindNotFound, Normalize(fakeNotFoundError{}).Kind)
}

func TestNormalize_Unknown(t *testing.T) {
	nerr := Normalize(errors.New("something inexplicable"))
	require.NotNil(t, nerr)
	assert.Equal(t, sdkgate.KindUnknown, nerr.Kind)
	assert.False(t, nerr.Retryable())
	assert.Contains(t, nerr.Message, "something inexplicable")
}

func TestNormalize_ErrorEvent(t *testing.T) {
	inner := sdkgate.NewError(sdkgate.KindRateLimited, "throttled")
	evt := sdkgate.ErrorEvent{Err: inner}
	assert.Same(t, inner, Normalize(evt))
}
