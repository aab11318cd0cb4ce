package mcp

// Protocol version
const (
	ProtocolVersion = "2025-11-25"
)

type MessageType string

// Message protocol types
const (
	TypeInit   MessageType = "init"
	TypeResult MessageType = "result"
	TypeError  MessageType = "error"
)

// Content types used in tool results.
const (
	ContentTypeText = "text"
)
