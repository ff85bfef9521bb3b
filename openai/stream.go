package openai

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/openai/openai-go"
	"github.com/opencodehq/sdkgate"
	"github.com/opencodehq/sdkgate/pkg/slogx"
)

// chunkStream is the seam between the bridge and the SDK's streaming
// iterator. *ssestream.Stream[openai.ChatCompletionChunk] satisfies it;
// tests drive the bridge with stubs.
type chunkStream interface {
	Next() bool
	Current() openai.ChatCompletionChunk
	Err() error
	Close() error
}

// stream opens the SDK stream and bridges it onto an event channel. The
// channel closes when the stream is exhausted, fails, or the context is
// cancelled; the underlying SDK stream is released on every exit path.
func (h *Handle) stream(ctx context.Context, req *sdkgate.Request, params openai.ChatCompletionNewParams) <-chan sdkgate.StreamEvent {
	events := make(chan sdkgate.StreamEvent, 10)
	go func() {
		defer close(events)
		strm := h.client.Chat.Completions.NewStreaming(ctx, params)
		h.bridge(ctx, req, strm, events)
	}()
	return events
}

// bridge pumps chunks in production order, accumulating them so a final
// response can follow the end delimiter. A mid-stream failure terminates
// the sequence with a normalized error event; chunks already delivered
// stay delivered.
func (h *Handle) bridge(ctx context.Context, req *sdkgate.Request, strm chunkStream, events chan<- sdkgate.StreamEvent) {
	if err := strm.Err(); err != nil {
		nerr := Normalize(err)
		h.observe(nerr)
		sendEvent(ctx, events, sdkgate.ErrorEvent{RequestID: req.ID, Err: nerr, Timestamp: now()})
		_ = strm.Close()
		return
	}

	// Release the SDK stream on all exit paths. Cancellation surfaces as a
	// terminal error event so consumers never see a silently truncated
	// sequence.
	defer func() {
		if cerr := strm.Close(); cerr != nil {
			slog.Debug("failed to close sdk stream", slogx.Error(cerr))
		}
		if err := ctx.Err(); err != nil {
			sendEvent(ctx, events, sdkgate.ErrorEvent{RequestID: req.ID, Err: Normalize(err), Timestamp: now()})
		}
	}()

	var started bool
	var acc openai.ChatCompletionAccumulator

	for strm.Next() {
		if ctx.Err() != nil {
			return
		}

		if !started {
			started = true
			if !sendEvent(ctx, events, sdkgate.Delim{RequestID: req.ID, Delim: "start"}) {
				return
			}
		}

		chunk := strm.Current()
		if err := strm.Err(); err != nil {
			nerr := Normalize(err)
			h.observe(nerr)
			sendEvent(ctx, events, sdkgate.ErrorEvent{RequestID: req.ID, Err: nerr, Timestamp: now()})
			return
		}

		acc.AddChunk(chunk)
		if len(chunk.Choices) == 0 {
			continue
		}
		ev := sdkgate.Chunk{
			RequestID: req.ID,
			Content:   chunk.Choices[0].Delta.Content,
			Timestamp: now(),
		}
		if !sendEvent(ctx, events, ev) {
			return
		}
	}

	if err := strm.Err(); err != nil {
		nerr := Normalize(err)
		h.observe(nerr)
		sendEvent(ctx, events, sdkgate.ErrorEvent{RequestID: req.ID, Err: nerr, Timestamp: now()})
		return
	}

	if started && ctx.Err() == nil {
		h.observe(nil)
		if !sendEvent(ctx, events, sdkgate.Delim{RequestID: req.ID, Delim: "end"}) {
			return
		}
		sendEvent(ctx, events, sdkgate.FinalResponse{
			RequestID: req.ID,
			Payload:   completionToPayload(&acc.ChatCompletion),
			Timestamp: now(),
		})
	}
}

// sendEvent delivers ev unless the consumer abandoned the stream; a
// cancelled context unblocks the producer so the deferred close can run.
func sendEvent(ctx context.Context, events chan<- sdkgate.StreamEvent, ev sdkgate.StreamEvent) bool {
	select {
	case events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

func now() strfmt.DateTime {
	return strfmt.DateTime(time.Now())
}
