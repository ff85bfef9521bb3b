package openai

import (
	"context"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/shared"
	"github.com/opencodehq/sdkgate"
	"github.com/opencodehq/sdkgate/pkg/jsonx"
)

var (
	_ sdkgate.Executor      = (*Handle)(nil)
	_ sdkgate.AsyncExecutor = (*Handle)(nil)
)

// Execute runs the request on the calling goroutine and blocks for the
// full SDK round trip. Only valid on a sync-mode handle. For streaming
// requests the returned response carries the live event channel; receives
// on it block per chunk.
func (h *Handle) Execute(ctx context.Context, req sdkgate.Request) (*sdkgate.Response, error) {
	if h.cfg.Mode != sdkgate.ModeSync {
		return nil, sdkgate.NewErrorf(sdkgate.KindInvalidRequest, "Execute requires a sync handle, this handle is %s", h.cfg.Mode)
	}
	return h.execute(ctx, req)
}

// ExecuteAsync starts the request and returns immediately. The future
// resolves to the response or a normalized error. Only valid on an
// async-mode handle.
func (h *Handle) ExecuteAsync(ctx context.Context, req sdkgate.Request) sdkgate.Future[*sdkgate.Response] {
	fut := sdkgate.NewFuture[*sdkgate.Response]()
	if h.cfg.Mode != sdkgate.ModeAsync {
		fut.Error(sdkgate.NewErrorf(sdkgate.KindInvalidRequest, "ExecuteAsync requires an async handle, this handle is %s", h.cfg.Mode))
		return fut
	}

	go func() {
		resp, err := h.execute(ctx, req)
		if err != nil {
			fut.Error(err)
			return
		}
		fut.Complete(resp)
	}()
	return fut
}

// execute validates locally, dispatches to the SDK method matching the
// operation, and normalizes every failure. Validation errors never reach
// the SDK.
func (h *Handle) execute(ctx context.Context, req sdkgate.Request) (*sdkgate.Response, error) {
	if verr := req.Validate(); verr != nil {
		return nil, verr
	}

	switch req.Operation {
	case sdkgate.OpChatCompletion:
		return h.chatCompletion(ctx, req)
	case sdkgate.OpEmbedding:
		return h.embedding(ctx, req)
	default:
		return nil, sdkgate.NewErrorf(sdkgate.KindInvalidRequest, "unsupported operation %q", req.Operation)
	}
}

func (h *Handle) chatCompletion(ctx context.Context, req sdkgate.Request) (*sdkgate.Response, error) {
	params, err := buildChatParams(&req)
	if err != nil {
		return nil, err
	}

	if req.Stream {
		return &sdkgate.Response{
			RequestID: req.ID,
			Streaming: true,
			Events:    h.stream(ctx, &req, params),
		}, nil
	}

	chat, callErr := h.client.Chat.Completions.New(ctx, params)
	if callErr != nil {
		nerr := Normalize(callErr)
		h.observe(nerr)
		return nil, nerr
	}
	h.observe(nil)

	return &sdkgate.Response{
		RequestID: req.ID,
		Payload:   completionToPayload(chat),
	}, nil
}

func (h *Handle) embedding(ctx context.Context, req sdkgate.Request) (*sdkgate.Response, error) {
	params := openai.EmbeddingNewParams{
		Input: openai.F[openai.EmbeddingNewParamsInputUnion](openai.EmbeddingNewParamsInputArrayOfStrings(req.Input)),
		Model: openai.F(openai.EmbeddingModel(req.Model)),
	}

	resp, callErr := h.client.Embeddings.New(ctx, params)
	if callErr != nil {
		nerr := Normalize(callErr)
		h.observe(nerr)
		return nil, nerr
	}
	h.observe(nil)

	vectors := make([][]float64, len(resp.Data))
	for i, item := range resp.Data {
		vectors[i] = item.Embedding
	}

	return &sdkgate.Response{
		RequestID: req.ID,
		Payload: sdkgate.Payload{
			Embeddings: vectors,
			Usage: sdkgate.Usage{
				InputTokens: resp.Usage.PromptTokens,
				TotalTokens: resp.Usage.TotalTokens,
			},
		},
	}, nil
}

func buildChatParams(req *sdkgate.Request) (openai.ChatCompletionNewParams, error) {
	result, user := messagesToOpenAI(req.Instructions, req.Messages)

	params := openai.ChatCompletionNewParams{
		Messages: openai.F(result),
		Model:    openai.F(req.Model),
		N:        openai.Int(1),
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(req.MaxTokens)
	}
	if req.Temperature != nil {
		params.Temperature = openai.Float(*req.Temperature)
	}
	if strings.TrimSpace(user) != "" {
		params.User = openai.String(user)
	}

	if req.Schema != nil {
		schema, err := jsonx.ToDynamicJSON(req.Schema.Schema)
		if err != nil {
			return openai.ChatCompletionNewParams{}, sdkgate.NewErrorf(sdkgate.KindInvalidRequest, "failed to convert response schema: %v", err)
		}
		def := shared.ResponseFormatJSONSchemaJSONSchemaParam{
			Name:   openai.String(req.Schema.Name),
			Schema: openai.F[any](schema),
			Strict: openai.Bool(true),
		}
		if strings.TrimSpace(req.Schema.Description) != "" {
			def.Description = openai.String(req.Schema.Description)
		}
		params.ResponseFormat = openai.F[openai.ChatCompletionNewParamsResponseFormatUnion](
			shared.ResponseFormatJSONSchemaParam{
				Type:       openai.F(shared.ResponseFormatJSONSchemaTypeJSONSchema),
				JSONSchema: openai.F(def),
			},
		)
	}

	return params, nil
}

func messagesToOpenAI(instructions string, msgs []sdkgate.Message) ([]openai.ChatCompletionMessageParamUnion, string) {
	var result []openai.ChatCompletionMessageParamUnion
	if strings.TrimSpace(instructions) != "" {
		result = append(result, openai.SystemMessage(instructions))
	}

	var user string
	for _, msg := range msgs {
		switch msg.Role {
		case sdkgate.RoleSystem:
			result = append(result, openai.SystemMessage(msg.Content))
		case sdkgate.RoleUser:
			if msg.Name != "" {
				user = msg.Name
			}
			result = append(result, openai.UserMessageParts(openai.TextPart(msg.Content)))
		case sdkgate.RoleAssistant:
			am := openai.ChatCompletionAssistantMessageParam{
				Role: openai.F(openai.ChatCompletionAssistantMessageParamRoleAssistant),
			}
			am.Content.Value = append(am.Content.Value, openai.TextPart(msg.Content))
			result = append(result, am)
		}
	}
	return result, user
}

func completionToPayload(chat *openai.ChatCompletion) sdkgate.Payload {
	payload := sdkgate.Payload{
		Usage: sdkgate.Usage{
			InputTokens:  chat.Usage.PromptTokens,
			OutputTokens: chat.Usage.CompletionTokens,
			TotalTokens:  chat.Usage.TotalTokens,
		},
	}
	if len(chat.Choices) == 0 {
		return payload
	}
	payload.Content = chat.Choices[0].Message.Content
	payload.Refusal = chat.Choices[0].Message.Refusal
	return payload
}
