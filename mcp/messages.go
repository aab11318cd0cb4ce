package mcp

// Tool represents a tool definition
type Tool struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	InputSchema InputSchema `json:"inputSchema"`
}

// InputSchema represents the JSON schema for tool input
type InputSchema struct {
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties"`
	Required   []string       `json:"required"`
	Title      string         `json:"title"`
}

// EmptyInputSchema returns the schema of a tool that takes no arguments.
func EmptyInputSchema(title string) InputSchema {
	return InputSchema{Type: "object", Properties: map[string]any{}, Required: []string{}, Title: title}
}

// Resource describes a readable resource advertised through resources/list.
type Resource struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MimeType    string `json:"mimeType"`
}

// Implementation identifies the server in the initialize result.
type Implementation struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}
