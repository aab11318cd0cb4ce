package unitybridge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"time"
)

var (
	// ErrNotConnected is returned when no connection to the editor could be established.
	ErrNotConnected = errors.New("unity editor not connected")
	// ErrHostError marks a reply whose transport status was "error".
	ErrHostError = errors.New("unity editor returned an error")
	// ErrClosed is returned for commands issued after Close.
	ErrClosed = errors.New("unity bridge closed")
)

// Commander sends one named command to the editor and returns its reply.
// Implementations own timeouts, framing and reconnection.
type Commander interface {
	SendCommand(ctx context.Context, name string, params map[string]any) (HostResponse, error)
}

// HostResponse is the result object produced by an editor-side command handler.
// Message and Error are pointers so "absent" stays distinct from "".
type HostResponse struct {
	Success bool            `json:"success"`
	Message *string         `json:"message,omitempty"`
	Error   *string         `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// HasData reports whether the reply carried a non-null data field.
func (r HostResponse) HasData() bool {
	trimmed := bytes.TrimSpace(r.Data)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

// requestFrame is what the editor listener reads off the socket.
type requestFrame struct {
	Type   string         `json:"type"`
	Params map[string]any `json:"params"`
}

// replyFrame wraps every editor reply.
type replyFrame struct {
	Status  string          `json:"status"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   string          `json:"error,omitempty"`
	Message string          `json:"message,omitempty"`
}

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Status is a point-in-time view of the bridge used by the status resource.
type Status struct {
	Address         string    `json:"address"`
	Connected       bool      `json:"connected"`
	LastError       string    `json:"last_error,omitempty"`
	LastCommand     string    `json:"last_command,omitempty"`
	LastCommandAt   time.Time `json:"last_command_at,omitzero"`
	LastRoundTripMS int64     `json:"last_round_trip_ms,omitempty"`
}
