package stdio

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/slighter12/unity-mcp-go/logger"
	"github.com/slighter12/unity-mcp-go/mcp"
	"github.com/slighter12/unity-mcp-go/mcp/jsonrpc"
	"github.com/slighter12/unity-mcp-go/tools"
	"github.com/slighter12/unity-mcp-go/transport/shared"
)

const maxFrameBytes = 4 << 20

// StdioServer speaks newline-delimited JSON-RPC. Stdout carries protocol
// frames only; logs go to stderr.
type StdioServer struct {
	toolManager *tools.Manager
	resources   *shared.Resources
	info        mcp.Implementation

	protocolVersion string
	initialized     bool
}

func NewStdioServer(toolManager *tools.Manager, resources *shared.Resources, info mcp.Implementation) *StdioServer {
	return &StdioServer{
		toolManager: toolManager,
		resources:   resources,
		info:        info,
	}
}

// Serve reads frames from r until EOF or ctx is cancelled and writes replies to w.
// Frames are handled one at a time, in order.
func (s *StdioServer) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxFrameBytes)
	encoder := json.NewEncoder(w)

	logger.Debug("Stdio server started and waiting for messages")

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil
		}

		frame, err := shared.ParseJSONRPCFrame(scanner.Bytes())
		if errors.Is(err, shared.ErrEmptyFrame) {
			continue
		}
		if err != nil {
			logger.Error("Error parsing stdio frame", "error", err)
			continue
		}

		for _, rejected := range frame.Rejected {
			if err := encoder.Encode(rejected); err != nil {
				return fmt.Errorf("write response: %w", err)
			}
		}
		for _, request := range frame.Requests {
			logger.Debug("Stdio message received", "method", request.Method, "id", request.ID)
			response := s.handleMessage(ctx, request)
			if response == nil || request.IsNotification() {
				continue
			}
			if err := encoder.Encode(response); err != nil {
				return fmt.Errorf("write response: %w", err)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}
	logger.Debug("Stdio EOF received, terminating server")
	return nil
}

func (s *StdioServer) handleMessage(ctx context.Context, msg jsonrpc.Request) *jsonrpc.Response {
	switch msg.Method {
	case "initialize":
		s.protocolVersion = shared.NegotiateProtocolVersion(msg.Params)
		logger.Info("Stdio session initialized", "protocol_version", s.protocolVersion)
		return shared.BuildInitializeResponse(msg, s.info, s.protocolVersion)
	case "notifications/initialized":
		s.initialized = true
		return nil
	default:
		if !s.initialized && msg.Method == "tools/call" {
			logger.Warn("Tool call received before initialization completed", "id", msg.ID)
		}
		return shared.DispatchStandardMethod(ctx, msg, s.toolManager, s.resources)
	}
}
