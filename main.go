package main

import "github.com/slighter12/unity-mcp-go/cmd"

func main() {
	cmd.Execute()
}
