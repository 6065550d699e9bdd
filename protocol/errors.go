package protocol

import "fmt"

// MCPError wraps ErrorPayload to implement the error interface.
// Handlers return it to control the JSON-RPC error sent to the client.
type MCPError struct {
	ErrorPayload
}

// Error implements the error interface for MCPError.
func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP Error: Code=%d, Message=%s", e.Code, e.Message)
}

// NewInvalidParamsError creates an MCPError for invalid params.
func NewInvalidParamsError(message string) *MCPError {
	return &MCPError{
		ErrorPayload: ErrorPayload{
			Code:    ErrorCodeInvalidParams,
			Message: message,
		},
	}
}

// NewMethodNotFoundError creates an MCPError for an unknown method.
func NewMethodNotFoundError(methodName string) *MCPError {
	return &MCPError{
		ErrorPayload: ErrorPayload{
			Code:    ErrorCodeMethodNotFound,
			Message: fmt.Sprintf("Method not found: %s", methodName),
		},
	}
}

// NewNotFoundError creates an MCPError with one of the MCP "not found" codes.
func NewNotFoundError(code ErrorCode, what, name string) *MCPError {
	return &MCPError{
		ErrorPayload: ErrorPayload{
			Code:    code,
			Message: fmt.Sprintf("%s '%s' not found", what, name),
		},
	}
}
