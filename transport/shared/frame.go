package shared

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/slighter12/unity-mcp-go/mcp/jsonrpc"
)

// ErrEmptyFrame is returned for a frame with no content.
var ErrEmptyFrame = errors.New("empty message")

// Frame is one parsed JSON-RPC frame. Requests still need dispatching;
// Rejected holds error responses for input that never reached dispatch.
// Reply is set when the frame was a client response to a server request.
type Frame struct {
	Requests []jsonrpc.Request
	Rejected []*jsonrpc.Response
	Reply    bool
}

// Empty reports whether nothing in the frame was usable.
func (f Frame) Empty() bool {
	return len(f.Requests) == 0 && len(f.Rejected) == 0 && !f.Reply
}

func invalidRequest(id any) *jsonrpc.Response {
	return jsonrpc.NewErrorResponse(id, jsonrpc.ErrInvalidRequest, "Invalid request", nil)
}

// ParseJSONRPCFrame validates one frame. Batches are rejected: both
// transports accept a single message per frame.
func ParseJSONRPCFrame(raw []byte) (Frame, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return Frame{}, ErrEmptyFrame
	}
	if trimmed[0] == '[' {
		return Frame{Rejected: []*jsonrpc.Response{invalidRequest(nil)}}, nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return Frame{Rejected: []*jsonrpc.Response{
			jsonrpc.NewErrorResponse(nil, jsonrpc.ErrParseError, "Parse error", nil),
		}}, nil
	}

	id, hasID, validID := parseID(envelope)
	if !validID {
		return rejected(nil), nil
	}

	var msg jsonrpc.Request
	if err := json.Unmarshal(trimmed, &msg); err != nil {
		return rejected(id), nil
	}

	if msg.Method == "" {
		_, hasResult := envelope["result"]
		_, hasError := envelope["error"]
		if !hasResult && !hasError {
			return rejected(id), nil
		}
		if msg.JSONRPC != jsonrpc.Version || !hasID || (hasResult && hasError) {
			return rejected(nil), nil
		}
		return Frame{Reply: true}, nil
	}

	if msg.JSONRPC != jsonrpc.Version {
		return rejected(id), nil
	}
	if params, ok := envelope["params"]; ok && !isObject(params) {
		return rejected(id), nil
	}
	if msg.Method == "initialize" && !hasID {
		return rejected(nil), nil
	}

	// Keep integer ids as json.Number so they echo back unchanged.
	msg.ID = id
	return Frame{Requests: []jsonrpc.Request{msg}}, nil
}

func rejected(id any) Frame {
	return Frame{Rejected: []*jsonrpc.Response{invalidRequest(id)}}
}

func parseID(envelope map[string]json.RawMessage) (id any, present bool, valid bool) {
	raw, exists := envelope["id"]
	if !exists {
		return nil, false, true
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, true, false
	}

	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	decoder.UseNumber()
	if err := decoder.Decode(&id); err != nil {
		return nil, true, false
	}
	switch v := id.(type) {
	case string:
		return v, true, true
	case json.Number:
		return v, true, isJSONInteger(v.String())
	default:
		return nil, true, false
	}
}

func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

func isJSONInteger(value string) bool {
	if value == "" || strings.ContainsAny(value, ".eE") {
		return false
	}
	if _, err := strconv.ParseInt(value, 10, 64); err == nil {
		return true
	}
	if strings.HasPrefix(value, "-") {
		return false
	}
	_, err := strconv.ParseUint(value, 10, 64)
	return err == nil
}
