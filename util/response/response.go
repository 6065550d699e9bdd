// Package response provides helpers for building MCP tool results.
package response

import (
	"fmt"

	"github.com/localrivet/storefront/protocol"
)

// Error creates an error result with the given message.
func Error(msg string) ([]protocol.Content, bool) {
	return []protocol.Content{protocol.Text(msg)}, true
}

// Errorf creates an error result from a format string.
func Errorf(format string, args ...interface{}) ([]protocol.Content, bool) {
	return Error(fmt.Sprintf(format, args...))
}

// Text creates a successful text result.
func Text(msg string) ([]protocol.Content, bool) {
	return []protocol.Content{protocol.Text(msg)}, false
}

// FromError turns err into an error result, or msg into a text result when err is nil.
func FromError(msg string, err error) ([]protocol.Content, bool) {
	if err != nil {
		return Error(err.Error())
	}
	return Text(msg)
}
