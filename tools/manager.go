package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/slighter12/unity-mcp-go/logger"
	"github.com/slighter12/unity-mcp-go/mcp"
	"github.com/slighter12/unity-mcp-go/metrics"
	"github.com/slighter12/unity-mcp-go/tools/types"
)

var ErrToolNotFound = errors.New("tool not found")

func IsToolNotFound(err error) bool {
	return errors.Is(err, ErrToolNotFound)
}

// Manager implements types.ToolRegistry
type Manager struct {
	tools   map[string]types.Tool
	mutex   sync.RWMutex
	metrics *metrics.Metrics
}

// NewManager creates a new tool manager. m may be nil.
func NewManager(m *metrics.Metrics) *Manager {
	return &Manager{
		tools:   make(map[string]types.Tool),
		metrics: m,
	}
}

// RegisterTool registers a new tool
func (m *Manager) RegisterTool(tool types.Tool) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if tool == nil {
		return errors.New("tool cannot be nil")
	}

	name := tool.Name()
	if name == "" {
		return errors.New("tool name cannot be empty")
	}
	if _, exists := m.tools[name]; exists {
		return fmt.Errorf("tool %q already registered", name)
	}

	m.tools[name] = tool
	logger.Debug("Tool registered", "name", name)
	return nil
}

// RegisterTools registers every tool and logs the ones that were rejected.
func (m *Manager) RegisterTools(tools []types.Tool) {
	registered := 0
	for _, tool := range tools {
		if err := m.RegisterTool(tool); err != nil {
			logger.Error("Failed to register tool", "error", err)
			continue
		}
		registered++
	}
	logger.Info("Tools registered", "count", registered)
}

// GetTool retrieves a tool by name
func (m *Manager) GetTool(name string) (types.Tool, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	tool, exists := m.tools[name]
	return tool, exists
}

// ListTools returns all registered tools ordered by name
func (m *Manager) ListTools() []types.Tool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	tools := make([]types.Tool, 0, len(m.tools))
	for _, tool := range m.tools {
		tools = append(tools, tool)
	}
	sort.Slice(tools, func(i, j int) bool {
		return tools[i].Name() < tools[j].Name()
	})
	return tools
}

// ExecuteTool executes a tool by name with the given arguments
func (m *Manager) ExecuteTool(ctx context.Context, name string, args json.RawMessage) ([]byte, error) {
	tool, exists := m.GetTool(name)
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}

	logger.Debug("Executing tool", "name", name, "args", string(args))
	started := time.Now()
	result, err := tool.Execute(ctx, args)
	outcome := classifyOutcome(result, err)
	m.metrics.ObserveToolCall(name, outcome, time.Since(started))
	logger.Info("Tool call finished", "name", name, "outcome", outcome, "elapsed", time.Since(started))
	return result, err
}

// classifyOutcome treats an envelope with success=false as a failed call even
// though the tool itself returned no error.
func classifyOutcome(result []byte, err error) string {
	if err != nil {
		return metrics.OutcomeError
	}
	var envelope struct {
		Success *bool `json:"success"`
	}
	if json.Unmarshal(result, &envelope) == nil && envelope.Success != nil && !*envelope.Success {
		return metrics.OutcomeFailure
	}
	return metrics.OutcomeSuccess
}

// GetTools returns the MCP descriptors of all registered tools
func (m *Manager) GetTools() []mcp.Tool {
	tools := m.ListTools()
	mcpTools := make([]mcp.Tool, 0, len(tools))

	for _, tool := range tools {
		mcpTools = append(mcpTools, mcp.Tool{
			Name:        tool.Name(),
			Description: tool.Description(),
			InputSchema: tool.InputSchema(),
		})
	}

	return mcpTools
}

// CallTool calls a registered tool with decoded arguments and decodes its result.
func (m *Manager) CallTool(ctx context.Context, name string, args map[string]any) (any, error) {
	argsJSON, err := json.Marshal(args)
	if err != nil {
		return nil, err
	}

	resultJSON, err := m.ExecuteTool(ctx, name, argsJSON)
	if err != nil {
		return nil, err
	}

	var result any
	if err := json.Unmarshal(resultJSON, &result); err != nil {
		return nil, err
	}

	return result, nil
}
