package gameobject

import (
	"fmt"
	"strings"
)

// CommandName is the editor command every invocation is sent under.
const CommandName = "manage_gameobject"

// DefaultPrefabFolder is used to derive prefab paths when neither the caller
// nor the configuration names a folder.
const DefaultPrefabFolder = "Assets/Prefabs"

const prefabExtension = ".prefab"

// ValidationError is a local failure detected before anything is sent to the
// editor. Its message is returned to the caller verbatim.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

type wireField struct {
	wire string
	get  func(*Arguments) (any, bool)
}

func field[T any](wire string, opt func(*Arguments) Opt[T]) wireField {
	return wireField{
		wire: wire,
		get: func(a *Arguments) (any, bool) {
			v, ok := opt(a).Get()
			return v, ok
		},
	}
}

// wireFields lists every forwarded argument with its editor-side name.
// prefab_folder is deliberately missing: it only feeds prefab path derivation.
var wireFields = []wireField{
	field("target", func(a *Arguments) Opt[NameOrID] { return a.Target }),
	field("searchMethod", func(a *Arguments) Opt[string] { return a.SearchMethod }),
	field("name", func(a *Arguments) Opt[string] { return a.Name }),
	field("tag", func(a *Arguments) Opt[string] { return a.Tag }),
	field("parent", func(a *Arguments) Opt[NameOrID] { return a.Parent }),
	field("position", func(a *Arguments) Opt[[]float64] { return a.Position }),
	field("rotation", func(a *Arguments) Opt[[]float64] { return a.Rotation }),
	field("scale", func(a *Arguments) Opt[[]float64] { return a.Scale }),
	field("componentsToAdd", func(a *Arguments) Opt[[]ComponentSpec] { return a.ComponentsToAdd }),
	field("primitiveType", func(a *Arguments) Opt[string] { return a.PrimitiveType }),
	field("saveAsPrefab", func(a *Arguments) Opt[bool] { return a.SaveAsPrefab }),
	field("prefabPath", func(a *Arguments) Opt[string] { return a.PrefabPath }),
	field("newName", func(a *Arguments) Opt[string] { return a.NewName }),
	field("newParent", func(a *Arguments) Opt[NameOrID] { return a.NewParent }),
	field("setActive", func(a *Arguments) Opt[bool] { return a.SetActive }),
	field("newTag", func(a *Arguments) Opt[string] { return a.NewTag }),
	field("newLayer", func(a *Arguments) Opt[NameOrID] { return a.NewLayer }),
	field("componentsToRemove", func(a *Arguments) Opt[[]string] { return a.ComponentsToRemove }),
	field("componentProperties", func(a *Arguments) Opt[ComponentProperties] { return a.ComponentProps }),
	field("searchTerm", func(a *Arguments) Opt[string] { return a.SearchTerm }),
	field("findAll", func(a *Arguments) Opt[bool] { return a.FindAll }),
	field("searchInChildren", func(a *Arguments) Opt[bool] { return a.SearchInChildren }),
	field("searchInactive", func(a *Arguments) Opt[bool] { return a.SearchInactive }),
	field("componentName", func(a *Arguments) Opt[string] { return a.ComponentName }),
}

// Payload is the wire-ready parameter map sent with CommandName.
type Payload map[string]any

// prune maps every present argument to its wire name. Absent arguments are
// dropped; zero values that were supplied stay.
func prune(args *Arguments) Payload {
	payload := Payload{"action": string(args.Action)}
	for _, f := range wireFields {
		if v, ok := f.get(args); ok {
			payload[f.wire] = v
		}
	}
	return payload
}

// variant is the action-specific view of one invocation. It runs after
// pruning and may add derived fields or reject the payload.
type variant interface {
	derive(payload Payload) error
}

// createVariant carries the fields that drive prefab path derivation.
type createVariant struct {
	name          Opt[string]
	saveAsPrefab  Opt[bool]
	prefabPath    Opt[string]
	prefabFolder  Opt[string]
	defaultFolder string
}

// passthroughVariant covers every other action: the editor validates them.
type passthroughVariant struct{}

func variantFor(args *Arguments, defaultFolder string) variant {
	if args.Action != ActionCreate {
		return passthroughVariant{}
	}
	return createVariant{
		name:          args.Name,
		saveAsPrefab:  args.SaveAsPrefab,
		prefabPath:    args.PrefabPath,
		prefabFolder:  args.PrefabFolder,
		defaultFolder: defaultFolder,
	}
}

func (passthroughVariant) derive(Payload) error {
	return nil
}

func (v createVariant) derive(payload Payload) error {
	if !v.saveAsPrefab.OrElse(false) {
		return nil
	}

	if path, ok := v.prefabPath.Get(); ok {
		if !strings.HasSuffix(strings.ToLower(path), prefabExtension) {
			return invalid("Invalid prefab_path: '%s' must end with %s", path, prefabExtension)
		}
		return nil
	}

	name := v.name.OrElse("")
	if strings.TrimSpace(name) == "" {
		return invalid("Cannot create default prefab path: 'name' parameter is missing.")
	}

	folder := strings.TrimSpace(v.prefabFolder.OrElse(""))
	if folder == "" {
		folder = v.defaultFolder
	}
	folder = strings.TrimRight(folder, `/\`)
	payload["prefabPath"] = strings.ReplaceAll(folder+"/"+name+prefabExtension, `\`, "/")
	return nil
}

// BuildPayload turns inbound arguments into the editor payload. A
// *ValidationError means nothing may be sent. The result depends only on
// args and defaultFolder.
func BuildPayload(args Arguments, defaultFolder string) (Payload, error) {
	if strings.TrimSpace(string(args.Action)) == "" {
		return nil, invalid("'action' parameter is required.")
	}
	if strings.TrimSpace(defaultFolder) == "" {
		defaultFolder = DefaultPrefabFolder
	}

	payload := prune(&args)
	if err := variantFor(&args, defaultFolder).derive(payload); err != nil {
		return nil, err
	}
	return payload, nil
}
