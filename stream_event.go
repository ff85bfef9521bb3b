package sdkgate

import (
	"fmt"

	"github.com/go-openapi/strfmt"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

var (
	delimJSON    = []byte(`{"type":"delim"}`)
	chunkJSON    = []byte(`{"type":"chunk"}`)
	responseJSON = []byte(`{"type":"response"}`)
	errorJSON    = []byte(`{"type":"error"}`)
)

// StreamEvent is the sum type of everything a streamed response can
// deliver: delimiters, chunks, the final accumulated response, and a
// terminal normalized error.
type StreamEvent interface {
	streamEvent()
}

// Delim marks a stream boundary ("start", "end").
type Delim struct {
	RequestID uuid.UUID `json:"request_id"`
	Delim     string    `json:"delim"`
}

func (Delim) streamEvent() {}

// Chunk is one incremental unit of a streamed response, delivered in the
// exact order the SDK produced it.
type Chunk struct {
	RequestID uuid.UUID       `json:"request_id"`
	Content   string          `json:"content"`
	Timestamp strfmt.DateTime `json:"timestamp,omitempty"`
}

func (Chunk) streamEvent() {}

// FinalResponse carries the accumulated payload after a stream completed
// normally.
type FinalResponse struct {
	RequestID uuid.UUID       `json:"request_id"`
	Payload   Payload         `json:"payload"`
	Timestamp strfmt.DateTime `json:"timestamp,omitempty"`
}

func (FinalResponse) streamEvent() {}

// ErrorEvent terminates a stream with a normalized failure. Chunks
// delivered before it remain valid.
type ErrorEvent struct {
	RequestID uuid.UUID       `json:"request_id"`
	Err       *Error          `json:"error"`
	Timestamp strfmt.DateTime `json:"timestamp,omitempty"`
}

func (ErrorEvent) streamEvent() {}

func (e ErrorEvent) Error() string {
	return fmt.Sprintf("request_id: %s, error: %v", e.RequestID, e.Err)
}

// MarshalJSON implements custom JSON marshaling for Delim
func (d Delim) MarshalJSON() ([]byte, error) {
	result := delimJSON

	var err error
	result, err = sjson.SetBytes(result, "request_id", d.RequestID.String())
	if err != nil {
		return nil, err
	}

	result, err = sjson.SetBytes(result, "delim", d.Delim)
	return result, err
}

// UnmarshalJSON implements custom JSON unmarshaling for Delim
func (d *Delim) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("invalid json: %s", data)
	}
	if err := checkEventType(data, "delim"); err != nil {
		return err
	}
	if err := readRequestID(data, &d.RequestID); err != nil {
		return err
	}

	delim := gjson.GetBytes(data, "delim")
	if !delim.Exists() {
		return fmt.Errorf("missing required field 'delim'")
	}
	d.Delim = delim.String()

	return nil
}

// MarshalJSON implements custom JSON marshaling for Chunk
func (c Chunk) MarshalJSON() ([]byte, error) {
	result := chunkJSON

	var err error
	result, err = sjson.SetBytes(result, "request_id", c.RequestID.String())
	if err != nil {
		return nil, err
	}

	result, err = sjson.SetBytes(result, "content", c.Content)
	if err != nil {
		return nil, err
	}

	return setTimestamp(result, c.Timestamp)
}

// UnmarshalJSON implements custom JSON unmarshaling for Chunk
func (c *Chunk) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("invalid json: %s", data)
	}
	if err := checkEventType(data, "chunk"); err != nil {
		return err
	}
	if err := readRequestID(data, &c.RequestID); err != nil {
		return err
	}

	c.Content = gjson.GetBytes(data, "content").String()
	return readTimestamp(data, &c.Timestamp)
}

// MarshalJSON implements custom JSON marshaling for FinalResponse
func (r FinalResponse) MarshalJSON() ([]byte, error) {
	result := responseJSON

	var err error
	result, err = sjson.SetBytes(result, "request_id", r.RequestID.String())
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(r.Payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	result, err = sjson.SetRawBytes(result, "payload", payload)
	if err != nil {
		return nil, err
	}

	return setTimestamp(result, r.Timestamp)
}

// UnmarshalJSON implements custom JSON unmarshaling for FinalResponse
func (r *FinalResponse) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("invalid json: %s", data)
	}
	if err := checkEventType(data, "response"); err != nil {
		return err
	}
	if err := readRequestID(data, &r.RequestID); err != nil {
		return err
	}

	payload := gjson.GetBytes(data, "payload")
	if !payload.Exists() {
		return fmt.Errorf("missing required field 'payload'")
	}
	if err := json.Unmarshal([]byte(payload.Raw), &r.Payload); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}

	return readTimestamp(data, &r.Timestamp)
}

// MarshalJSON implements custom JSON marshaling for ErrorEvent
func (e ErrorEvent) MarshalJSON() ([]byte, error) {
	result := errorJSON

	var err error
	result, err = sjson.SetBytes(result, "request_id", e.RequestID.String())
	if err != nil {
		return nil, err
	}

	if e.Err != nil {
		result, err = sjson.SetBytes(result, "error.kind", e.Err.Kind.String())
		if err != nil {
			return nil, err
		}
		result, err = sjson.SetBytes(result, "error.message", e.Err.Message)
		if err != nil {
			return nil, err
		}
		result, err = sjson.SetBytes(result, "error.retryable", e.Err.Retryable())
		if err != nil {
			return nil, err
		}
		if e.Err.Status != 0 {
			result, err = sjson.SetBytes(result, "error.status", e.Err.Status)
			if err != nil {
				return nil, err
			}
		}
	}

	return setTimestamp(result, e.Timestamp)
}

// UnmarshalJSON implements custom JSON unmarshaling for ErrorEvent
func (e *ErrorEvent) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("invalid json: %s", data)
	}
	if err := checkEventType(data, "error"); err != nil {
		return err
	}
	if err := readRequestID(data, &e.RequestID); err != nil {
		return err
	}

	if errField := gjson.GetBytes(data, "error"); errField.Exists() {
		kind := KindUnknown
		name := errField.Get("kind").String()
		for k, n := range kindNames {
			if n == name {
				kind = k
				break
			}
		}
		e.Err = &Error{
			Kind:    kind,
			Message: errField.Get("message").String(),
			Status:  int(errField.Get("status").Int()),
		}
	}

	return readTimestamp(data, &e.Timestamp)
}

func checkEventType(data []byte, want string) error {
	msgType := gjson.GetBytes(data, "type")
	if !msgType.Exists() || msgType.String() != want {
		return fmt.Errorf("missing or invalid type, expected '%s'", want)
	}
	return nil
}

func readRequestID(data []byte, id *uuid.UUID) error {
	field := gjson.GetBytes(data, "request_id")
	if !field.Exists() {
		return fmt.Errorf("missing required field 'request_id'")
	}
	if err := id.UnmarshalText([]byte(field.String())); err != nil {
		return fmt.Errorf("invalid request_id: %w", err)
	}
	return nil
}

func setTimestamp(result []byte, ts strfmt.DateTime) ([]byte, error) {
	if ts.IsZero() {
		return result, nil
	}
	return sjson.SetBytes(result, "timestamp", ts.String())
}

func readTimestamp(data []byte, ts *strfmt.DateTime) error {
	field := gjson.GetBytes(data, "timestamp")
	if !field.Exists() {
		return nil
	}
	parsed, err := strfmt.ParseDateTime(field.String())
	if err != nil {
		return fmt.Errorf("invalid timestamp: %w", err)
	}
	*ts = parsed
	return nil
}
