package mcp

import "errors"

// Errors returned when required ports are missing.
var (
	ErrMissingChatService    = errors.New("mcp: chat service is required")
	ErrMissingSessionService = errors.New("mcp: session service is required")
)
