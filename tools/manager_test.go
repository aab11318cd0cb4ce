package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/slighter12/unity-mcp-go/logger"
	"github.com/slighter12/unity-mcp-go/mcp"
	"github.com/slighter12/unity-mcp-go/metrics"
	"github.com/slighter12/unity-mcp-go/tools/types"
	"github.com/slighter12/unity-mcp-go/unitybridge"
)

func TestMain(m *testing.M) {
	logger.InitStdio(logger.GetLevelFromString("debug"), logger.FormatJSON)
	m.Run()
}

// TestTool implements Tool interface for testing
type TestTool struct {
	name     string
	executor func(args json.RawMessage) ([]byte, error)
}

func (t *TestTool) Name() string        { return t.name }
func (t *TestTool) Description() string { return "Test tool " + t.name }
func (t *TestTool) InputSchema() mcp.InputSchema {
	return mcp.EmptyInputSchema(t.name)
}
func (t *TestTool) Execute(_ context.Context, args json.RawMessage) ([]byte, error) {
	return t.executor(args)
}

func TestToolManager(t *testing.T) {
	manager := NewManager(nil)
	ctx := context.Background()

	testTool := &TestTool{
		name: "testTool",
		executor: func(args json.RawMessage) ([]byte, error) {
			return json.Marshal("test result")
		},
	}
	if err := manager.RegisterTool(testTool); err != nil {
		t.Fatalf("RegisterTool failed: %v", err)
	}

	result, err := manager.CallTool(ctx, "testTool", map[string]any{})
	if err != nil {
		t.Errorf("CallTool failed: %v", err)
	}
	if result != "test result" {
		t.Errorf("Expected 'test result', got %v", result)
	}

	_, err = manager.CallTool(ctx, "nonExistentTool", map[string]any{})
	if !IsToolNotFound(err) {
		t.Errorf("Expected ErrToolNotFound, got %v", err)
	}

	errorTool := &TestTool{
		name: "errorTool",
		executor: func(args json.RawMessage) ([]byte, error) {
			return nil, fmt.Errorf("test error")
		},
	}
	if err := manager.RegisterTool(errorTool); err != nil {
		t.Fatalf("RegisterTool failed: %v", err)
	}

	_, err = manager.CallTool(ctx, "errorTool", map[string]any{})
	if err == nil {
		t.Error("Expected error from errorTool")
	}
}

func TestRegisterToolRejectsDuplicatesAndEmptyNames(t *testing.T) {
	manager := NewManager(nil)
	tool := &TestTool{name: "dup", executor: func(json.RawMessage) ([]byte, error) { return []byte(`{}`), nil }}

	if err := manager.RegisterTool(tool); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}
	if err := manager.RegisterTool(tool); err == nil {
		t.Fatal("expected duplicate registration to fail")
	}
	if err := manager.RegisterTool(&TestTool{name: ""}); err == nil {
		t.Fatal("expected empty name to fail")
	}
	if err := manager.RegisterTool(nil); err == nil {
		t.Fatal("expected nil tool to fail")
	}
}

func TestGetToolsSortedByName(t *testing.T) {
	manager := NewManager(nil)
	noop := func(json.RawMessage) ([]byte, error) { return []byte(`{}`), nil }
	manager.RegisterTools([]types.Tool{
		&TestTool{name: "zeta", executor: noop},
		&TestTool{name: "alpha", executor: noop},
		&TestTool{name: "mid", executor: noop},
	})

	got := manager.GetTools()
	if len(got) != 3 {
		t.Fatalf("expected 3 tools, got %d", len(got))
	}
	for i, want := range []string{"alpha", "mid", "zeta"} {
		if got[i].Name != want {
			t.Fatalf("tool %d: expected %s, got %s", i, want, got[i].Name)
		}
	}
}

func TestExecuteToolRecordsOutcome(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	manager := NewManager(m)
	manager.RegisterTools([]types.Tool{
		&TestTool{name: "ok", executor: func(json.RawMessage) ([]byte, error) {
			return []byte(`{"success":true,"message":"done"}`), nil
		}},
		&TestTool{name: "rejected", executor: func(json.RawMessage) ([]byte, error) {
			return []byte(`{"success":false,"message":"not found"}`), nil
		}},
		&TestTool{name: "broken", executor: func(json.RawMessage) ([]byte, error) {
			return nil, fmt.Errorf("boom")
		}},
	})

	ctx := context.Background()
	for _, name := range []string{"ok", "rejected", "broken"} {
		manager.ExecuteTool(ctx, name, json.RawMessage(`{}`))
	}

	cases := map[string]string{
		"ok":       metrics.OutcomeSuccess,
		"rejected": metrics.OutcomeFailure,
		"broken":   metrics.OutcomeError,
	}
	for tool, outcome := range cases {
		if got := testutil.ToFloat64(m.ToolCalls.WithLabelValues(tool, outcome)); got != 1 {
			t.Errorf("%s/%s: expected 1 call, got %v", tool, outcome, got)
		}
	}
}

type stubCommander struct{}

func (stubCommander) SendCommand(context.Context, string, map[string]any) (unitybridge.HostResponse, error) {
	return unitybridge.HostResponse{Success: true}, nil
}

type stubPinger struct{}

func (stubPinger) Ping(context.Context) (time.Duration, error) { return time.Millisecond, nil }

func TestGetAllToolsRegistersUnityTools(t *testing.T) {
	manager := NewManager(nil)
	manager.RegisterTools(GetAllTools(Dependencies{
		Bridge:              stubCommander{},
		Pinger:              stubPinger{},
		DefaultPrefabFolder: "Assets/Prefabs",
	}))

	for _, name := range []string{"manage_gameobject", "ping_unity_host"} {
		if _, ok := manager.GetTool(name); !ok {
			t.Errorf("expected %s to be registered", name)
		}
	}
}

func TestConcurrentToolExecution(t *testing.T) {
	manager := NewManager(nil)

	slowTool := &TestTool{
		name: "slowTool",
		executor: func(args json.RawMessage) ([]byte, error) {
			time.Sleep(100 * time.Millisecond)
			return json.Marshal("slow result")
		},
	}
	manager.RegisterTool(slowTool)

	var wg sync.WaitGroup
	for range 10 {
		wg.Go(func() {
			result, err := manager.CallTool(context.Background(), "slowTool", map[string]any{})
			if err != nil {
				t.Errorf("Concurrent CallTool failed: %v", err)
			}
			if result != "slow result" {
				t.Errorf("Expected 'slow result', got %v", result)
			}
		})
	}
	wg.Wait()
}
