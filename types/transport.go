package types

import (
	"context"
)

// Transport abstracts the message channel between an MCP client and server.
type Transport interface {
	// Send transmits a message over the transport.
	Send(data []byte) error

	// Receive blocks until a message is received or an error occurs.
	Receive() ([]byte, error)

	// ReceiveWithContext is like Receive but respects the provided context.
	ReceiveWithContext(ctx context.Context) ([]byte, error)

	// Close terminates the transport connection.
	Close() error
}

// TransportOptions contains configuration options for creating a Transport.
type TransportOptions struct {
	// BufferSize specifies the size of the read buffer.
	BufferSize int

	// Logger is used for logging transport-related events.
	Logger Logger
}
