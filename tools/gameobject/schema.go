package gameobject

import (
	"encoding/json"

	"github.com/invopop/jsonschema"

	"github.com/slighter12/unity-mcp-go/logger"
	"github.com/slighter12/unity-mcp-go/mcp"
)

const schemaTitle = "Manage GameObject"

// reflectInputSchema derives the tool input schema from Arguments.
func reflectInputSchema() mcp.InputSchema {
	reflector := jsonschema.Reflector{
		DoNotReference:            true,
		ExpandedStruct:            true,
		AllowAdditionalProperties: true,
	}
	schema := reflector.Reflect(&Arguments{})

	raw, err := json.Marshal(schema)
	if err != nil {
		logger.Error("Failed to encode manage_gameobject schema", "error", err)
		return fallbackInputSchema()
	}
	var decoded struct {
		Properties map[string]any `json:"properties"`
		Required   []string       `json:"required"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil || len(decoded.Properties) == 0 {
		logger.Error("Failed to decode manage_gameobject schema", "error", err)
		return fallbackInputSchema()
	}
	if decoded.Required == nil {
		decoded.Required = []string{}
	}

	return mcp.InputSchema{
		Type:       "object",
		Properties: decoded.Properties,
		Required:   decoded.Required,
		Title:      schemaTitle,
	}
}

func fallbackInputSchema() mcp.InputSchema {
	return mcp.InputSchema{
		Type: "object",
		Properties: map[string]any{
			"action": map[string]any{"type": "string"},
		},
		Required: []string{"action"},
		Title:    schemaTitle,
	}
}
