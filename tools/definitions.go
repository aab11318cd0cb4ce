package tools

import (
	"github.com/slighter12/unity-mcp-go/tools/gameobject"
	"github.com/slighter12/unity-mcp-go/tools/types"
	"github.com/slighter12/unity-mcp-go/tools/utility"
	"github.com/slighter12/unity-mcp-go/unitybridge"
)

// Dependencies are the collaborators shared by the tool implementations.
type Dependencies struct {
	Bridge              unitybridge.Commander
	Pinger              utility.Pinger
	DefaultPrefabFolder string
}

// GetAllTools returns all available tools from all categories
func GetAllTools(deps Dependencies) []types.Tool {
	var all []types.Tool
	all = append(all, gameobject.NewTool(deps.Bridge, gameobject.WithDefaultPrefabFolder(deps.DefaultPrefabFolder)))
	all = append(all, utility.GetAllTools(deps.Pinger)...)
	return all
}
