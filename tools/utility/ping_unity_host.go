package utility

import (
	"context"
	"encoding/json"
	"time"

	"github.com/slighter12/unity-mcp-go/mcp"
	tooltypes "github.com/slighter12/unity-mcp-go/tools/types"
)

// PingUnityHostTool reports whether the Unity editor bridge is reachable.
type PingUnityHostTool struct {
	pinger Pinger
}

func NewPingUnityHostTool(pinger Pinger) *PingUnityHostTool {
	return &PingUnityHostTool{pinger: pinger}
}

func (t *PingUnityHostTool) Name() string { return "ping_unity_host" }

func (t *PingUnityHostTool) Description() string {
	return "Checks that the Unity editor bridge answers and reports the round-trip time"
}

func (t *PingUnityHostTool) InputSchema() mcp.InputSchema {
	return mcp.EmptyInputSchema("Ping Unity Host")
}

func (t *PingUnityHostTool) Execute(ctx context.Context, _ json.RawMessage) ([]byte, error) {
	if t.pinger == nil {
		return nil, tooltypes.NewNotAvailableError("Unity bridge is not configured", map[string]any{
			"feature": "unity_bridge",
			"reason":  "bridge_not_configured",
			"tool":    t.Name(),
		})
	}

	rtt, err := t.pinger.Ping(ctx)
	if err != nil {
		return nil, tooltypes.NewNotAvailableError("", map[string]any{
			"feature": "unity_bridge",
			"reason":  err.Error(),
			"tool":    t.Name(),
		})
	}

	result := map[string]any{
		"pong":          true,
		"round_trip_ms": float64(rtt.Microseconds()) / 1000,
		"checked_at":    time.Now().UTC().Format(time.RFC3339Nano),
	}
	return json.Marshal(result)
}
