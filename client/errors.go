package client

import (
	"errors"
	"fmt"

	"github.com/localrivet/storefront/protocol"
)

var (
	ErrNotInitialized   = errors.New("client is not initialized")
	ErrInvalidResponse  = errors.New("invalid response from server")
	ErrServerError      = errors.New("server reported error")
	ErrConnectionClosed = errors.New("connection closed before a response arrived")
)

// ServerError is a JSON-RPC error returned for a request.
type ServerError struct {
	Method  string
	Code    protocol.ErrorCode
	Message string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("%s failed (code=%d): %s", e.Method, e.Code, e.Message)
}

// Is lets errors.Is(err, ErrServerError) match any ServerError.
func (e *ServerError) Is(target error) bool {
	return target == ErrServerError
}
