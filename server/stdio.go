package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/localrivet/storefront/transport/stdio"
	"github.com/localrivet/storefront/types"
)

// SessionEndFunc is called when a served session ends.
type SessionEndFunc func(sessionID string)

// Serve runs the message loop for one client connected through transport.
// It returns nil when the input reaches EOF or ctx is cancelled.
func Serve(ctx context.Context, srv *Server, transport types.Transport, onEnd ...SessionEndFunc) error {
	logger := srv.logger

	session := NewTransportSession(transport, logger)
	if err := srv.RegisterSession(session); err != nil {
		return fmt.Errorf("failed to register session: %w", err)
	}
	defer func() {
		srv.UnregisterSession(session.SessionID())
		for _, fn := range onEnd {
			fn(session.SessionID())
		}
	}()

	for {
		rawMsg, err := transport.ReceiveWithContext(ctx)
		if err != nil {
			switch {
			case errors.Is(err, io.EOF):
				logger.Info("Input closed (EOF), shutting down...")
				return nil
			case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
				logger.Info("Context cancelled, shutting down...")
				return nil
			case errors.Is(err, stdio.ErrInvalidJSON):
				continue
			}
			return fmt.Errorf("error receiving message: %w", err)
		}

		responses := srv.HandleMessage(ctx, session.SessionID(), rawMsg)
		if len(responses) == 0 {
			continue
		}
		var out interface{} = responses
		if len(responses) == 1 && !isBatch(rawMsg) {
			out = responses[0]
		}
		respBytes, err := json.Marshal(out)
		if err != nil {
			logger.Error("Error marshaling response: %v", err)
			continue
		}
		if err := transport.Send(respBytes); err != nil {
			return fmt.Errorf("failed to send response: %w", err)
		}
	}
}

// ServeStdio serves a single client over the process's standard input and output.
func ServeStdio(ctx context.Context, srv *Server, onEnd ...SessionEndFunc) error {
	srv.logger.Info("Starting server on stdio...")
	transport := stdio.NewStdioTransport(types.TransportOptions{Logger: srv.logger})
	return Serve(ctx, srv, transport, onEnd...)
}

func isBatch(raw []byte) bool {
	for _, b := range raw {
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		case '[':
			return true
		default:
			return false
		}
	}
	return false
}
