package gameobject

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/invopop/jsonschema"
)

// NameOrID is a scene object reference given either as a string (name or
// hierarchy path) or as a numeric instance id. How the host interprets it is
// decided by the accompanying search method, never by the value itself.
type NameOrID struct {
	name    string
	id      int64
	numeric bool
}

func NameRef(name string) NameOrID {
	return NameOrID{name: name}
}

func IDRef(id int64) NameOrID {
	return NameOrID{id: id, numeric: true}
}

func (r NameOrID) IsID() bool {
	return r.numeric
}

func (r NameOrID) String() string {
	if r.numeric {
		return strconv.FormatInt(r.id, 10)
	}
	return r.name
}

func (r NameOrID) MarshalJSON() ([]byte, error) {
	if r.numeric {
		return json.Marshal(r.id)
	}
	return json.Marshal(r.name)
}

func (r *NameOrID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		*r = NameRef(name)
		return nil
	}
	var id int64
	if err := json.Unmarshal(data, &id); err != nil {
		return fmt.Errorf("must be a string or an integer, got %s", data)
	}
	*r = IDRef(id)
	return nil
}

func (NameOrID) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		OneOf: []*jsonschema.Schema{
			{Type: "string"},
			{Type: "integer"},
		},
	}
}

// ComponentSpec is one entry of components_to_add: either a component type
// name or an object such as {"typeName": "Rigidbody", "properties": {...}}.
// Objects are forwarded untouched.
type ComponentSpec struct {
	typeName string
	object   json.RawMessage
}

func ComponentByName(typeName string) ComponentSpec {
	return ComponentSpec{typeName: typeName}
}

// TypeName returns the component type, reading typeName from object specs.
func (c ComponentSpec) TypeName() string {
	if c.object == nil {
		return c.typeName
	}
	var obj struct {
		TypeName string `json:"typeName"`
	}
	_ = json.Unmarshal(c.object, &obj)
	return obj.TypeName
}

func (c ComponentSpec) MarshalJSON() ([]byte, error) {
	if c.object != nil {
		return c.object, nil
	}
	return json.Marshal(c.typeName)
}

func (c *ComponentSpec) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return errors.New("empty component entry")
	}
	switch data[0] {
	case '"':
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		*c = ComponentByName(name)
		return nil
	case '{':
		if !json.Valid(data) {
			return errors.New("invalid component object")
		}
		*c = ComponentSpec{object: bytes.Clone(data)}
		return nil
	default:
		return fmt.Errorf("component entry must be a string or an object, got %s", data)
	}
}

func (ComponentSpec) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		OneOf: []*jsonschema.Schema{
			{Type: "string"},
			{Type: "object"},
		},
	}
}

// ComponentProperties maps a component type to the properties to set on it.
type ComponentProperties map[string]map[string]PropertyValue

func (ComponentProperties) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		AdditionalProperties: &jsonschema.Schema{
			Type: "object",
		},
	}
}

// References returns every reference descriptor found in the map, keyed by
// "Component.property".
func (p ComponentProperties) References() map[string]ReferenceDescriptor {
	refs := make(map[string]ReferenceDescriptor)
	for component, props := range p {
		for prop, value := range props {
			if ref, ok := value.Reference(); ok {
				refs[component+"."+prop] = ref
			}
		}
	}
	return refs
}

// PropertyValue is a literal (number, string, bool, number array) or a
// ReferenceDescriptor. It is kept as raw JSON and resolved by the host.
type PropertyValue struct {
	raw json.RawMessage
}

// Literal wraps any JSON-encodable value.
func Literal(v any) (PropertyValue, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return PropertyValue{}, err
	}
	return PropertyValue{raw: raw}, nil
}

func (v PropertyValue) Raw() json.RawMessage {
	return v.raw
}

// Reference decodes the value as a ReferenceDescriptor. Objects without a
// "find" key are plain literals.
func (v PropertyValue) Reference() (ReferenceDescriptor, bool) {
	trimmed := bytes.TrimSpace(v.raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return ReferenceDescriptor{}, false
	}
	var ref ReferenceDescriptor
	if err := json.Unmarshal(trimmed, &ref); err != nil || ref.Find == "" {
		return ReferenceDescriptor{}, false
	}
	return ref, true
}

func (v PropertyValue) MarshalJSON() ([]byte, error) {
	if len(v.raw) == 0 {
		return []byte("null"), nil
	}
	return v.raw, nil
}

func (v *PropertyValue) UnmarshalJSON(data []byte) error {
	v.raw = bytes.Clone(data)
	return nil
}

// ReferenceDescriptor tells the host how to resolve an object or component
// when a property is applied, e.g. {"find": "Player", "method": "by_name"} or
// {"find": "Player", "component": "HealthComponent"}.
type ReferenceDescriptor struct {
	Find      string `json:"find"`
	Method    string `json:"method,omitempty"`
	Component string `json:"component,omitempty"`
}
