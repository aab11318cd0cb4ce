package utility

import (
	"context"
	"time"

	"github.com/slighter12/unity-mcp-go/tools/types"
)

// Pinger checks that the Unity editor answers commands.
type Pinger interface {
	Ping(ctx context.Context) (time.Duration, error)
}

func GetAllTools(pinger Pinger) []types.Tool {
	return []types.Tool{
		NewPingUnityHostTool(pinger),
	}
}
