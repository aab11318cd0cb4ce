package gameobject

import (
	"encoding/json"
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/slighter12/unity-mcp-go/logger"
	"github.com/slighter12/unity-mcp-go/unitybridge"
)

const (
	defaultSuccessMessage = "GameObject operation successful."
	defaultFailureMessage = "An unknown error occurred during GameObject management."
	faultPrefix           = "Error managing GameObject: "
)

// Envelope is the only shape manage_gameobject ever returns.
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func failure(message string) Envelope {
	return Envelope{Success: false, Message: message}
}

// envelopeFromHost maps an editor reply. Data passes through untouched and
// only on success.
func envelopeFromHost(resp unitybridge.HostResponse) Envelope {
	if !resp.Success {
		message := defaultFailureMessage
		if resp.Error != nil {
			message = *resp.Error
		}
		return failure(message)
	}

	env := Envelope{Success: true, Message: defaultSuccessMessage}
	if resp.Message != nil {
		env.Message = *resp.Message
	}
	if resp.HasData() {
		env.Data = resp.Data
	}
	return env
}

// guard is the single fault boundary of the tool: any error or panic raised
// by op becomes a failure envelope.
func guard(op func() (Envelope, error)) (env Envelope) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("manage_gameobject panicked", "panic", r, "stack", string(debug.Stack()))
			env = failure(fmt.Sprintf("%s%v", faultPrefix, r))
		}
	}()

	result, err := op()
	if err == nil {
		return result
	}
	if validationErr, ok := errors.AsType[*ValidationError](err); ok {
		logger.Debug("manage_gameobject rejected locally", "reason", validationErr.Message)
		return failure(validationErr.Message)
	}
	logger.Warn("manage_gameobject failed", "error", err)
	return failure(faultPrefix + err.Error())
}
