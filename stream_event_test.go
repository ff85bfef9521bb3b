package sdkgate

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestChunk_JSON(t *testing.T) {
	id := uuid.New()
	chunk := Chunk{RequestID: id, Content: "partial"}

	data, err := json.Marshal(chunk)
	require.NoError(t, err)
	assert.Equal(t, "chunk", gjson.GetBytes(data, "type").String())
	assert.Equal(t, id.String(), gjson.GetBytes(data, "request_id").String())

	var decoded Chunk
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, id, decoded.RequestID)
	assert.Equal(t, "partial", decoded.Content)
}

func TestChunk_UnmarshalRejectsWrongType(t *testing.T) {
	var decoded Chunk
	err := decoded.UnmarshalJSON([]byte(`{"type":"delim","request_id":"x"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 'chunk'")
}

func TestDelim_JSON(t *testing.T) {
	id := uuid.New()
	data, err := json.Marshal(Delim{RequestID: id, Delim: "start"})
	require.NoError(t, err)

	var decoded Delim
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "start", decoded.Delim)
	assert.Equal(t, id, decoded.RequestID)
}

func TestErrorEvent_JSON(t *testing.T) {
	id := uuid.New()
	evt := ErrorEvent{
		RequestID: id,
		Err:       NewStatusError(KindRateLimited, 429, "slow down"),
	}

	data, err := json.Marshal(evt)
	require.NoError(t, err)
	assert.Equal(t, "rate_limited", gjson.GetBytes(data, "error.kind").String())
	assert.True(t, gjson.GetBytes(data, "error.retryable").Bool())

	var decoded ErrorEvent
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.NotNil(t, decoded.Err)
	assert.Equal(t, KindRateLimited, decoded.Err.Kind)
	assert.Equal(t, 429, decoded.Err.Status)
	assert.True(t, decoded.Err.Retryable())
}

func TestFinalResponse_JSON(t *testing.T) {
	id := uuid.New()
	evt := FinalResponse{
		RequestID: id,
		Payload: Payload{
			Content: "complete answer",
			Usage:   Usage{InputTokens: 10, OutputTokens: 20, TotalTokens: 30},
		},
	}

	data, err := json.Marshal(evt)
	require.NoError(t, err)
	assert.Equal(t, "response", gjson.GetBytes(data, "type").String())

	var decoded FinalResponse
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "complete answer", decoded.Payload.Content)
	assert.Equal(t, int64(30), decoded.Payload.Usage.TotalTokens)
}

func TestStreamEvent_InvalidJSON(t *testing.T) {
	var chunk Chunk
	assert.Error(t, chunk.UnmarshalJSON([]byte("not json")))

	var delim Delim
	assert.Error(t, delim.UnmarshalJSON([]byte(`{"type":"delim"}`)))
}

func TestUsage_Add(t *testing.T) {
	total := Usage{InputTokens: 1, OutputTokens: 2, TotalTokens: 3}.
		Add(Usage{InputTokens: 10, OutputTokens: 20, TotalTokens: 30})
	assert.Equal(t, Usage{InputTokens: 11, OutputTokens: 22, TotalTokens: 33}, total)
}
