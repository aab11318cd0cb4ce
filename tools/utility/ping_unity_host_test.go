package utility

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	tooltypes "github.com/slighter12/unity-mcp-go/tools/types"
)

type fakePinger struct {
	rtt time.Duration
	err error
}

func (p fakePinger) Ping(context.Context) (time.Duration, error) {
	return p.rtt, p.err
}

func TestPingUnityHostTool_ReportsRoundTrip(t *testing.T) {
	tool := NewPingUnityHostTool(fakePinger{rtt: 1500 * time.Microsecond})

	resultRaw, err := tool.Execute(context.Background(), json.RawMessage(`{}`))
	if err != nil {
		t.Fatalf("execute ping tool: %v", err)
	}

	var result map[string]any
	if err := json.Unmarshal(resultRaw, &result); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	if result["pong"] != true {
		t.Fatalf("expected pong=true, got %v", result["pong"])
	}
	if result["round_trip_ms"] != 1.5 {
		t.Fatalf("expected round_trip_ms=1.5, got %v", result["round_trip_ms"])
	}
}

func TestPingUnityHostTool_UnreachableEditor(t *testing.T) {
	tool := NewPingUnityHostTool(fakePinger{err: errors.New("dial tcp 127.0.0.1:6400: connection refused")})

	_, execErr := tool.Execute(context.Background(), nil)
	if execErr == nil {
		t.Fatal("expected semantic error")
	}
	semanticErr, ok := tooltypes.AsSemanticError(execErr)
	if !ok {
		t.Fatalf("expected semantic error type, got %T", execErr)
	}
	if semanticErr.Kind != tooltypes.SemanticKindNotAvailable {
		t.Fatalf("expected kind %q, got %q", tooltypes.SemanticKindNotAvailable, semanticErr.Kind)
	}
	if semanticErr.Data["tool"] != "ping_unity_host" {
		t.Fatalf("expected tool name in data, got %v", semanticErr.Data["tool"])
	}
}

func TestPingUnityHostTool_WithoutBridge(t *testing.T) {
	_, execErr := NewPingUnityHostTool(nil).Execute(context.Background(), nil)
	semanticErr, ok := tooltypes.AsSemanticError(execErr)
	if !ok {
		t.Fatalf("expected semantic error type, got %T", execErr)
	}
	if semanticErr.Data["reason"] != "bridge_not_configured" {
		t.Fatalf("unexpected reason %v", semanticErr.Data["reason"])
	}
}
