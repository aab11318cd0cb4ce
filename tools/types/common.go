package types

import (
	"context"
	"encoding/json"

	"github.com/slighter12/unity-mcp-go/mcp"
)

// Tool is implemented by every tool exposed through tools/list and tools/call.
// Execute returns the JSON-encoded structured result.
type Tool interface {
	Name() string
	Description() string
	InputSchema() mcp.InputSchema
	Execute(ctx context.Context, args json.RawMessage) ([]byte, error)
}

// ToolRegistry is the lookup surface the transports depend on.
type ToolRegistry interface {
	RegisterTool(tool Tool) error
	GetTool(name string) (Tool, bool)
	ListTools() []Tool
	ExecuteTool(ctx context.Context, name string, args json.RawMessage) ([]byte, error)
}
