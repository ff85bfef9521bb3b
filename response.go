package sdkgate

import "github.com/google/uuid"

// Usage captures token accounting returned by the provider.
type Usage struct {
	InputTokens  int64 `json:"input_tokens"`
	OutputTokens int64 `json:"output_tokens"`
	TotalTokens  int64 `json:"total_tokens"`
}

// Add combines two usage records, e.g. when accumulating across a stream.
func (u Usage) Add(other Usage) Usage {
	return Usage{
		InputTokens:  u.InputTokens + other.InputTokens,
		OutputTokens: u.OutputTokens + other.OutputTokens,
		TotalTokens:  u.TotalTokens + other.TotalTokens,
	}
}

// Payload is the complete result of a non-streaming operation, or the
// accumulated final result of a streamed one.
type Payload struct {
	// Content is the assistant text for chat completions.
	Content string `json:"content,omitempty"`

	// Refusal is set when the model declined to answer.
	Refusal string `json:"refusal,omitempty"`

	// Embeddings holds one vector per input for embedding requests.
	Embeddings [][]float64 `json:"embeddings,omitempty"`

	// Usage is the provider's token accounting when reported.
	Usage Usage `json:"usage"`
}

// Response is what a caller gets back from an executed request. Exactly
// one of Payload and Events is meaningful, selected by Streaming, which
// mirrors the originating request's stream flag.
type Response struct {
	// RequestID ties the response back to its request.
	RequestID uuid.UUID `json:"request_id"`

	// Streaming mirrors the request's stream flag.
	Streaming bool `json:"streaming"`

	// Payload holds the complete result when Streaming is false.
	Payload Payload `json:"payload"`

	// Events delivers the lazy chunk sequence when Streaming is true.
	// The sequence is forward-only and non-restartable; a failure
	// mid-stream arrives as a terminal Error event after all chunks that
	// were already produced.
	Events <-chan StreamEvent `json:"-"`

	// Prevents unkeyed literals
	_ struct{}
}
