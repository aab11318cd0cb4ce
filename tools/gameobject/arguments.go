package gameobject

// Action selects the operation the editor performs. Values outside the known
// set are forwarded unchanged and rejected by the editor.
type Action string

const (
	ActionCreate               Action = "create"
	ActionModify               Action = "modify"
	ActionDelete               Action = "delete"
	ActionFind                 Action = "find"
	ActionAddComponent         Action = "add_component"
	ActionRemoveComponent      Action = "remove_component"
	ActionSetComponentProperty Action = "set_component_property"
)

// Search methods understood by the editor when resolving target or search_term.
const (
	SearchByName      = "by_name"
	SearchByID        = "by_id"
	SearchByPath      = "by_path"
	SearchByTag       = "by_tag"
	SearchByLayer     = "by_layer"
	SearchByComponent = "by_component"
)

// Arguments is the flat inbound argument surface of manage_gameobject.
// Every field except Action is optional and keeps its presence.
type Arguments struct {
	Action       Action        `json:"action" jsonschema:"required,enum=create,enum=modify,enum=delete,enum=find,enum=add_component,enum=remove_component,enum=set_component_property" jsonschema_description:"Operation to perform."`
	Target       Opt[NameOrID] `json:"target,omitempty" jsonschema_description:"GameObject identifier (name, path or instance id) for modify, delete and component actions."`
	SearchMethod Opt[string]   `json:"search_method,omitempty" jsonschema:"enum=by_name,enum=by_id,enum=by_path,enum=by_tag,enum=by_layer,enum=by_component" jsonschema_description:"How target or search_term is resolved."`

	// create
	Name            Opt[string]          `json:"name,omitempty" jsonschema_description:"Name of the new GameObject."`
	Tag             Opt[string]          `json:"tag,omitempty"`
	Parent          Opt[NameOrID]        `json:"parent,omitempty" jsonschema_description:"Parent GameObject (name, path or instance id)."`
	Position        Opt[[]float64]       `json:"position,omitempty" jsonschema_description:"Local position as [x, y, z]."`
	Rotation        Opt[[]float64]       `json:"rotation,omitempty" jsonschema_description:"Local euler rotation as [x, y, z]."`
	Scale           Opt[[]float64]       `json:"scale,omitempty" jsonschema_description:"Local scale as [x, y, z]."`
	ComponentsToAdd Opt[[]ComponentSpec] `json:"components_to_add,omitempty" jsonschema_description:"Component type names or {\"typeName\": ..., \"properties\": {...}} objects."`
	PrimitiveType   Opt[string]          `json:"primitive_type,omitempty" jsonschema_description:"Primitive to create (Cube, Sphere, Capsule, Cylinder, Plane, Quad)."`
	SaveAsPrefab    Opt[bool]            `json:"save_as_prefab,omitempty" jsonschema_description:"Save the created object as a prefab asset."`
	PrefabPath      Opt[string]          `json:"prefab_path,omitempty" jsonschema_description:"Asset path of the prefab; must end with .prefab."`
	PrefabFolder    Opt[string]          `json:"prefab_folder,omitempty" jsonschema_description:"Folder used to derive prefab_path from name when prefab_path is omitted."`

	// modify
	NewName            Opt[string]              `json:"new_name,omitempty"`
	NewParent          Opt[NameOrID]            `json:"new_parent,omitempty"`
	SetActive          Opt[bool]                `json:"set_active,omitempty"`
	NewTag             Opt[string]              `json:"new_tag,omitempty"`
	NewLayer           Opt[NameOrID]            `json:"new_layer,omitempty" jsonschema_description:"Layer name or index."`
	ComponentsToRemove Opt[[]string]            `json:"components_to_remove,omitempty"`
	ComponentProps     Opt[ComponentProperties] `json:"component_properties,omitempty" jsonschema_description:"Component type to property map, e.g. {\"Rigidbody\": {\"mass\": 10.0}}."`

	// find
	SearchTerm       Opt[string] `json:"search_term,omitempty"`
	FindAll          Opt[bool]   `json:"find_all,omitempty"`
	SearchInChildren Opt[bool]   `json:"search_in_children,omitempty"`
	SearchInactive   Opt[bool]   `json:"search_inactive,omitempty"`

	// component actions
	ComponentName Opt[string] `json:"component_name,omitempty"`
}
