package shared

import (
	"fmt"

	"github.com/slighter12/unity-mcp-go/mcp"
	"github.com/slighter12/unity-mcp-go/unitybridge"
)

const (
	// BridgeStatusURI exposes the Unity bridge connection state.
	BridgeStatusURI = "unity://bridge/status"

	mimeTypeJSON = "application/json"
)

// StatusSource reports the bridge state.
type StatusSource interface {
	Status() unitybridge.Status
}

// Resources serves the read-only resources of the server.
type Resources struct {
	bridge StatusSource
}

func NewResources(bridge StatusSource) *Resources {
	return &Resources{bridge: bridge}
}

func (r *Resources) List() []mcp.Resource {
	if r == nil || r.bridge == nil {
		return []mcp.Resource{}
	}
	return []mcp.Resource{
		{
			URI:         BridgeStatusURI,
			Name:        "Unity Bridge Status",
			Description: "Connection state of the Unity editor bridge and its last command",
			MimeType:    mimeTypeJSON,
		},
	}
}

func (r *Resources) Read(uri string) (any, error) {
	if r == nil || r.bridge == nil || uri != BridgeStatusURI {
		return nil, fmt.Errorf("unknown resource: %s", uri)
	}
	return r.bridge.Status(), nil
}
