// Package protocol defines the structures and constants for the Model Context Protocol (MCP).
package protocol

const (
	// CurrentProtocolVersion defines the MCP version this implementation targets.
	CurrentProtocolVersion = "2025-03-26"
	// OldProtocolVersion is accepted for compatibility with older clients.
	OldProtocolVersion = "2024-11-05"

	// JSONRPCVersion is the only JSON-RPC version MCP speaks.
	JSONRPCVersion = "2.0"

	// Initialization
	MethodInitialize  = "initialize"
	MethodInitialized = "notifications/initialized" // Notification

	// Tools
	MethodListTools = "tools/list"
	MethodCallTool  = "tools/call"

	// Resources
	MethodListResources = "resources/list"
	MethodReadResource  = "resources/read"

	// Prompts
	MethodListPrompts = "prompts/list"
	MethodGetPrompt   = "prompts/get"

	// Completion
	MethodCompletionComplete = "completion/complete"

	// Logging
	MethodLoggingSetLevel     = "logging/setLevel"
	MethodNotificationMessage = "notifications/message"

	// Ping
	MethodPing = "ping"

	// Cancellation
	MethodCancelled = "notifications/cancelled"
)

// ErrorCode is a JSON-RPC error code.
type ErrorCode int

const (
	// Standard JSON-RPC error codes.
	ErrorCodeParseError     ErrorCode = -32700
	ErrorCodeInvalidRequest ErrorCode = -32600
	ErrorCodeMethodNotFound ErrorCode = -32601
	ErrorCodeInvalidParams  ErrorCode = -32602
	ErrorCodeInternalError  ErrorCode = -32603

	// MCP specific error codes.
	ErrorCodeMCPResourceNotFound           ErrorCode = -32002
	ErrorCodeMCPUnsupportedProtocolVersion ErrorCode = -32003
	ErrorCodeMCPToolNotFound               ErrorCode = -32004
	ErrorCodeMCPPromptNotFound             ErrorCode = -32005
)
