package sdkgate

import (
	"strings"

	"github.com/google/uuid"
)

// Operation names an SDK capability a request may target.
type Operation string

const (
	// OpChatCompletion requests a chat completion; it supports streaming.
	OpChatCompletion Operation = "chat.completions"
	// OpEmbedding requests embedding vectors; it never streams.
	OpEmbedding Operation = "embeddings"
)

// streamableOps records which operations may be requested with Stream=true.
// Requests that disagree fail fast and are never sent to the SDK.
var streamableOps = map[Operation]bool{
	OpChatCompletion: true,
	OpEmbedding:      false,
}

// Role identifies the author of a conversation message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of conversation context carried by a chat request.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
	// Name optionally attributes the message to a named participant.
	Name string `json:"name,omitempty"`
}

// Request describes one operation against the provider. It is immutable
// from the adapter's point of view and consumed exactly once.
type Request struct {
	// ID uniquely identifies this request for tracking and debugging.
	ID uuid.UUID

	// Operation selects the SDK capability to invoke.
	Operation Operation

	// Model names the model the operation runs against.
	Model string

	// Instructions provide the system prompt for chat completions.
	Instructions string

	// Messages carry the conversation context for chat completions.
	Messages []Message

	// Input carries the texts to embed for embedding requests.
	Input []string

	// Stream requests incremental delivery. Only valid for operations
	// that support it.
	Stream bool

	// MaxTokens caps the completion length when positive.
	MaxTokens int64

	// Temperature overrides the sampling temperature when non-nil.
	Temperature *float64

	// Schema, when set, asks the provider to shape its reply to a JSON
	// schema (structured output). Chat completions only.
	Schema *StructuredOutput

	// Prevents unkeyed literals
	_ struct{}
}

// Validate checks the request shape locally so malformed requests never
// reach the SDK. All violations surface as KindInvalidRequest.
func (r *Request) Validate() *Error {
	streamable, known := streamableOps[r.Operation]
	if !known {
		return NewErrorf(KindInvalidRequest, "unsupported operation %q", r.Operation)
	}
	if r.Stream && !streamable {
		return NewErrorf(KindInvalidRequest, "operation %q does not support streaming", r.Operation)
	}
	if strings.TrimSpace(r.Model) == "" {
		return NewError(KindInvalidRequest, "model is required")
	}
	switch r.Operation {
	case OpChatCompletion:
		if len(r.Messages) == 0 && strings.TrimSpace(r.Instructions) == "" {
			return NewError(KindInvalidRequest, "chat completion requires instructions or messages")
		}
	case OpEmbedding:
		if len(r.Input) == 0 {
			return NewError(KindInvalidRequest, "embedding requires at least one input")
		}
		if r.Schema != nil {
			return NewErrorf(KindInvalidRequest, "operation %q does not support structured output", r.Operation)
		}
	}
	return nil
}
