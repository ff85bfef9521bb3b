package sdkgate

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validChatRequest() Request {
	return Request{
		ID:        uuid.New(),
		Operation: OpChatCompletion,
		Model:     "gpt-4o-mini",
		Messages:  []Message{{Role: RoleUser, Content: "hello"}},
	}
}

func TestRequest_Validate(t *testing.T) {
	req := validChatRequest()
	assert.Nil(t, req.Validate())

	streaming := validChatRequest()
	streaming.Stream = true
	assert.Nil(t, streaming.Validate())
}

func TestRequest_Validate_UnsupportedOperation(t *testing.T) {
	req := validChatRequest()
	req.Operation = "images.generate"

	verr := req.Validate()
	require.NotNil(t, verr)
	assert.Equal(t, KindInvalidRequest, verr.Kind)
	assert.Contains(t, verr.Message, "images.generate")
}

func TestRequest_Validate_StreamingUnsupported(t *testing.T) {
	req := Request{
		ID:        uuid.New(),
		Operation: OpEmbedding,
		Model:     "text-embedding-3-small",
		Input:     []string{"hello"},
		Stream:    true,
	}

	verr := req.Validate()
	require.NotNil(t, verr)
	assert.Equal(t, KindInvalidRequest, verr.Kind)
	assert.Contains(t, verr.Message, "does not support streaming")
}

func TestRequest_Validate_MissingModel(t *testing.T) {
	req := validChatRequest()
	req.Model = "  "

	verr := req.Validate()
	require.NotNil(t, verr)
	assert.Equal(t, KindInvalidRequest, verr.Kind)
}

func TestRequest_Validate_EmptyChat(t *testing.T) {
	req := Request{
		ID:        uuid.New(),
		Operation: OpChatCompletion,
		Model:     "gpt-4o-mini",
	}

	verr := req.Validate()
	require.NotNil(t, verr)
	assert.Equal(t, KindInvalidRequest, verr.Kind)
}

func TestRequest_Validate_Embedding(t *testing.T) {
	req := Request{
		ID:        uuid.New(),
		Operation: OpEmbedding,
		Model:     "text-embedding-3-small",
	}
	verr := req.Validate()
	require.NotNil(t, verr)
	assert.Contains(t, verr.Message, "at least one input")

	req.Input = []string{"hello"}
	assert.Nil(t, req.Validate())

	req.Schema = &StructuredOutput{Name: "out"}
	verr = req.Validate()
	require.NotNil(t, verr)
	assert.Contains(t, verr.Message, "structured output")
}
