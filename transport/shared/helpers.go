package shared

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/slighter12/unity-mcp-go/logger"
	"github.com/slighter12/unity-mcp-go/mcp"
	"github.com/slighter12/unity-mcp-go/mcp/jsonrpc"
	"github.com/slighter12/unity-mcp-go/tools"
	"github.com/slighter12/unity-mcp-go/tools/types"
)

const pageSize = 50

var supportedProtocolVersions = map[string]struct{}{
	"2024-11-05":        {},
	"2025-03-26":        {},
	"2025-06-18":        {},
	mcp.ProtocolVersion: {},
}

// IsSupportedProtocolVersion reports whether version can be negotiated.
func IsSupportedProtocolVersion(version string) bool {
	_, ok := supportedProtocolVersions[version]
	return ok
}

// NegotiateProtocolVersion echoes the client's version when supported and
// falls back to the latest one otherwise.
func NegotiateProtocolVersion(paramsRaw json.RawMessage) string {
	var params struct {
		ProtocolVersion string `json:"protocolVersion"`
	}
	if err := json.Unmarshal(paramsRaw, &params); err != nil {
		return mcp.ProtocolVersion
	}
	if IsSupportedProtocolVersion(params.ProtocolVersion) {
		return params.ProtocolVersion
	}
	return mcp.ProtocolVersion
}

func ServerCapabilities() map[string]any {
	return map[string]any{
		"tools":     map[string]any{"listChanged": false},
		"resources": map[string]any{"subscribe": false, "listChanged": false},
	}
}

// BuildInitializeResponse answers initialize with the negotiated version.
func BuildInitializeResponse(msg jsonrpc.Request, info mcp.Implementation, version string) *jsonrpc.Response {
	return jsonrpc.NewResponse(msg.ID, map[string]any{
		"protocolVersion": version,
		"capabilities":    ServerCapabilities(),
		"serverInfo":      info,
		"instructions":    "Use manage_gameobject to create, modify, delete and find GameObjects in the open Unity scene.",
	})
}

func BuildPingResponse(msg jsonrpc.Request) *jsonrpc.Response {
	return jsonrpc.NewResponse(msg.ID, map[string]any{})
}

func BuildToolsListResponse(msg jsonrpc.Request, toolList []mcp.Tool) *jsonrpc.Response {
	sorted := append([]mcp.Tool(nil), toolList...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})

	start, err := ParseCursor(msg.Params, len(sorted))
	if err != nil {
		return jsonrpc.NewErrorResponse(msg.ID, jsonrpc.ErrInvalidParams, err.Error(), nil)
	}
	end := min(start+pageSize, len(sorted))

	result := map[string]any{
		"tools": sorted[start:end],
	}
	if end < len(sorted) {
		result["nextCursor"] = strconv.Itoa(end)
	}
	return jsonrpc.NewResponse(msg.ID, result)
}

func BuildResourcesListResponse(msg jsonrpc.Request, resources *Resources) *jsonrpc.Response {
	list := resources.List()
	start, err := ParseCursor(msg.Params, len(list))
	if err != nil {
		return jsonrpc.NewErrorResponse(msg.ID, jsonrpc.ErrInvalidParams, err.Error(), nil)
	}
	end := min(start+pageSize, len(list))

	result := map[string]any{
		"resources": list[start:end],
	}
	if end < len(list) {
		result["nextCursor"] = strconv.Itoa(end)
	}
	return jsonrpc.NewResponse(msg.ID, result)
}

func BuildResourcesReadResponse(msg jsonrpc.Request, resources *Resources) *jsonrpc.Response {
	var params struct {
		URI string `json:"uri"`
	}
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return jsonrpc.NewErrorResponse(msg.ID, jsonrpc.ErrInvalidParams, "Invalid resources/read payload", nil)
	}
	if strings.TrimSpace(params.URI) == "" {
		return jsonrpc.NewErrorResponse(msg.ID, jsonrpc.ErrInvalidParams, "Resource URI is required", nil)
	}

	result, err := resources.Read(params.URI)
	if err != nil {
		return jsonrpc.NewErrorResponse(msg.ID, jsonrpc.ErrInvalidParams, err.Error(), map[string]any{"uri": params.URI})
	}
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return jsonrpc.NewErrorResponse(msg.ID, jsonrpc.ErrInternalError, "Failed to encode resource result", nil)
	}

	return jsonrpc.NewResponse(msg.ID, map[string]any{
		"contents": []map[string]any{
			{
				"uri":      params.URI,
				"mimeType": mimeTypeJSON,
				"text":     string(resultJSON),
			},
		},
	})
}

func BuildToolCallResponse(ctx context.Context, msg jsonrpc.Request, toolManager *tools.Manager) *jsonrpc.Response {
	var toolCall struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
	}
	if err := json.Unmarshal(msg.Params, &toolCall); err != nil {
		return jsonrpc.NewErrorResponse(msg.ID, jsonrpc.ErrInvalidParams, "Invalid tool call payload", nil)
	}

	toolName := strings.TrimSpace(toolCall.Name)
	if toolName == "" {
		return jsonrpc.NewErrorResponse(msg.ID, jsonrpc.ErrInvalidParams, "Tool name is required", nil)
	}
	arguments := toolCall.Arguments
	if len(arguments) == 0 {
		arguments = json.RawMessage(`{}`)
	}

	raw, err := toolManager.ExecuteTool(ctx, toolName, arguments)
	if err != nil {
		if tools.IsToolNotFound(err) {
			return jsonrpc.NewErrorResponse(msg.ID, jsonrpc.ErrInvalidParams, err.Error(), map[string]any{"tool": toolName})
		}
		logger.Warn("Tool call failed", "tool", toolName, "error", err)
		return jsonrpc.NewResponse(msg.ID, BuildToolErrorResult(toolName, err))
	}

	var result any
	if err := json.Unmarshal(raw, &result); err != nil {
		return jsonrpc.NewErrorResponse(msg.ID, jsonrpc.ErrInternalError, "Tool returned invalid JSON", map[string]any{"tool": toolName})
	}
	return jsonrpc.NewResponse(msg.ID, BuildToolSuccessResult(toolName, result))
}

func BuildToolSuccessResult(toolName string, result any) map[string]any {
	return map[string]any{
		"type":              string(mcp.TypeResult),
		"tool":              toolName,
		"content":           ToolContentFromResult(result),
		"structuredContent": result,
		"isError":           false,
	}
}

// BuildToolErrorResult reports a tool failure as an isError result. Semantic
// errors keep their kind and data in structuredContent.
func BuildToolErrorResult(toolName string, err error) map[string]any {
	result := map[string]any{
		"type":    string(mcp.TypeResult),
		"tool":    toolName,
		"content": []map[string]any{{"type": mcp.ContentTypeText, "text": err.Error()}},
		"isError": true,
	}
	if semanticErr, ok := types.AsSemanticError(err); ok {
		structured := map[string]any{
			"kind":    semanticErr.Kind,
			"message": semanticErr.Error(),
		}
		if len(semanticErr.Data) > 0 {
			structured["data"] = semanticErr.Data
		}
		result["structuredContent"] = structured
	}
	return result
}

func ToolContentFromResult(result any) []map[string]any {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return []map[string]any{{"type": mcp.ContentTypeText, "text": "tool call completed"}}
	}
	return []map[string]any{{"type": mcp.ContentTypeText, "text": string(resultJSON)}}
}

// DispatchStandardMethod handles every method except initialize and the
// initialized notification, which depend on transport session state.
// It returns nil when nothing should be written back.
func DispatchStandardMethod(ctx context.Context, msg jsonrpc.Request, toolManager *tools.Manager, resources *Resources) *jsonrpc.Response {
	switch msg.Method {
	case "tools/list":
		return BuildToolsListResponse(msg, toolManager.GetTools())
	case "tools/call":
		return BuildToolCallResponse(ctx, msg, toolManager)
	case "resources/list":
		return BuildResourcesListResponse(msg, resources)
	case "resources/read":
		return BuildResourcesReadResponse(msg, resources)
	case "ping":
		return BuildPingResponse(msg)
	default:
		if msg.IsNotification() {
			logger.Debug("Ignoring notification", "method", msg.Method)
			return nil
		}
		return jsonrpc.NewErrorResponse(msg.ID, jsonrpc.ErrMethodNotFound, "Method not found", map[string]any{
			"method": msg.Method,
		})
	}
}

func ParseCursor(paramsRaw json.RawMessage, total int) (int, error) {
	if len(paramsRaw) == 0 {
		return 0, nil
	}

	var params struct {
		Cursor string `json:"cursor"`
	}
	if err := json.Unmarshal(paramsRaw, &params); err != nil {
		return 0, fmt.Errorf("invalid params payload")
	}
	if strings.TrimSpace(params.Cursor) == "" {
		return 0, nil
	}

	offset, err := strconv.Atoi(params.Cursor)
	if err != nil || offset < 0 || offset > total {
		return 0, fmt.Errorf("invalid cursor value")
	}
	return offset, nil
}
