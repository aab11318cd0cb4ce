package gameobject

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"

	"github.com/slighter12/unity-mcp-go/logger"
	"github.com/slighter12/unity-mcp-go/mcp"
	"github.com/slighter12/unity-mcp-go/unitybridge"
)

const description = `Manages GameObjects in the open Unity scene: create, modify, delete, find, and component operations.

action selects the operation: create, modify, delete, find, add_component, remove_component, set_component_property.
target identifies an existing GameObject (name, path or instance id) for modify, delete and component actions; search_method ('by_name', 'by_id', 'by_path', 'by_tag', 'by_layer', 'by_component') says how it is resolved and is also used by find.

Only the arguments you pass are sent; false, 0 and empty lists are kept as given.

When create is called with save_as_prefab=true and no prefab_path, the path is derived as '{prefab_folder}/{name}.prefab' (prefab_folder defaults to Assets/Prefabs). An explicit prefab_path must end with .prefab.

component_properties maps component names to the properties to set, e.g. {"Rigidbody": {"mass": 10.0, "useGravity": true}}.
To set references:
- use an asset path string for prefabs and materials, e.g. {"MeshRenderer": {"material": "Assets/Materials/MyMat.mat"}}
- use an object for scene objects or components, e.g.
  {"MyScript": {"otherObject": {"find": "Player", "method": "by_name"}}} assigns a GameObject,
  {"MyScript": {"playerHealth": {"find": "Player", "component": "HealthComponent"}}} assigns a component.

Returns {"success": bool, "message": string, "data": any}.`

// Tool is the manage_gameobject MCP tool. It holds no per-call state, so one
// instance serves concurrent calls.
type Tool struct {
	bridge        unitybridge.Commander
	defaultFolder string
	schema        mcp.InputSchema
}

type Option func(*Tool)

// WithDefaultPrefabFolder overrides the folder used when prefab_folder is
// not supplied. Blank values keep DefaultPrefabFolder.
func WithDefaultPrefabFolder(folder string) Option {
	return func(t *Tool) {
		if folder != "" {
			t.defaultFolder = folder
		}
	}
}

func NewTool(bridge unitybridge.Commander, opts ...Option) *Tool {
	t := &Tool{
		bridge:        bridge,
		defaultFolder: DefaultPrefabFolder,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.schema = reflectInputSchema()
	return t
}

func (t *Tool) Name() string { return CommandName }

func (t *Tool) Description() string { return description }

func (t *Tool) InputSchema() mcp.InputSchema { return t.schema }

// Execute never returns an error: failures are reported inside the envelope.
func (t *Tool) Execute(ctx context.Context, args json.RawMessage) ([]byte, error) {
	return json.Marshal(t.Handle(ctx, args))
}

// Handle decodes raw tool arguments and runs them.
func (t *Tool) Handle(ctx context.Context, raw json.RawMessage) Envelope {
	return guard(func() (Envelope, error) {
		args, err := decodeArguments(raw)
		if err != nil {
			return Envelope{}, err
		}
		return t.dispatch(ctx, args)
	})
}

// Run executes already decoded arguments.
func (t *Tool) Run(ctx context.Context, args Arguments) Envelope {
	return guard(func() (Envelope, error) {
		return t.dispatch(ctx, args)
	})
}

func decodeArguments(raw json.RawMessage) (Arguments, error) {
	var args Arguments
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return args, nil
	}
	if err := json.Unmarshal(trimmed, &args); err != nil {
		return Arguments{}, invalid("Invalid arguments: %v", err)
	}
	return args, nil
}

func (t *Tool) dispatch(ctx context.Context, args Arguments) (Envelope, error) {
	payload, err := BuildPayload(args, t.defaultFolder)
	if err != nil {
		return Envelope{}, err
	}
	if props, ok := args.ComponentProps.Get(); ok {
		if refs := props.References(); len(refs) > 0 {
			logger.Debug("Forwarding component references", "count", len(refs))
		}
	}
	if t.bridge == nil {
		return Envelope{}, errors.New("unity bridge is not configured")
	}

	resp, err := t.bridge.SendCommand(ctx, CommandName, payload)
	if err != nil {
		return Envelope{}, err
	}
	return envelopeFromHost(resp), nil
}
