// Package stdio provides a Transport implementation that uses standard input/output.
// Messages are newline-delimited JSON objects.
package stdio

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/localrivet/storefront/logx"
	"github.com/localrivet/storefront/protocol"
	"github.com/localrivet/storefront/types"
)

// ErrInvalidJSON is returned by Receive when a line is not valid JSON.
// A parse error response has already been sent; the stream stays usable.
var ErrInvalidJSON = errors.New("received invalid JSON")

// ErrClosed is returned by operations on a closed transport.
var ErrClosed = errors.New("transport is closed")

// StdioTransport implements types.Transport over a reader/writer pair.
type StdioTransport struct {
	reader     *bufio.Reader
	readMutex  sync.Mutex
	writer     io.Writer
	writeMutex sync.Mutex
	logger     types.Logger
	closed     bool
	closeMutex sync.Mutex

	// Original streams, closed by Close when they implement io.Closer.
	rawReader io.Reader
	rawWriter io.Writer
}

// NewStdioTransport creates a transport bound to os.Stdin and os.Stdout.
func NewStdioTransport(opts types.TransportOptions) *StdioTransport {
	return NewStdioTransportWithReadWriter(os.Stdin, os.Stdout, opts)
}

// NewStdioTransportWithReadWriter creates a StdioTransport using the provided reader/writer.
func NewStdioTransportWithReadWriter(reader io.Reader, writer io.Writer, opts types.TransportOptions) *StdioTransport {
	logger := opts.Logger
	if logger == nil {
		logger = logx.NewNop()
	}
	size := opts.BufferSize
	if size <= 0 {
		size = 64 * 1024
	}
	return &StdioTransport{
		reader:    bufio.NewReaderSize(reader, size),
		writer:    writer,
		logger:    logger,
		rawReader: reader,
		rawWriter: writer,
	}
}

func (t *StdioTransport) isClosed() bool {
	t.closeMutex.Lock()
	defer t.closeMutex.Unlock()
	return t.closed
}

// Send writes one message followed by exactly one newline.
func (t *StdioTransport) Send(data []byte) error {
	if t.isClosed() {
		return ErrClosed
	}
	if len(data) == 0 {
		return fmt.Errorf("cannot send empty message")
	}

	t.writeMutex.Lock()
	defer t.writeMutex.Unlock()

	line := make([]byte, 0, len(data)+1)
	line = append(line, bytes.TrimRight(data, "\n")...)
	line = append(line, '\n')

	t.logger.Debug("StdioTransport Send: %s", bytes.TrimSpace(line))

	if _, err := t.writer.Write(line); err != nil {
		if errors.Is(err, io.ErrClosedPipe) || strings.Contains(err.Error(), "pipe closed") {
			t.logger.Warn("StdioTransport: attempted to write to closed pipe: %v", err)
			_ = t.Close()
			return err
		}
		return fmt.Errorf("failed to write message: %w", err)
	}
	if flusher, ok := t.writer.(interface{ Flush() error }); ok {
		if err := flusher.Flush(); err != nil {
			t.logger.Warn("StdioTransport: failed to flush writer: %v", err)
		}
	}
	return nil
}

// Receive blocks until the next message arrives.
func (t *StdioTransport) Receive() ([]byte, error) {
	return t.ReceiveWithContext(context.Background())
}

// ReceiveWithContext reads the next non-blank line. Cancelling ctx closes the transport
// so the pending read is released.
func (t *StdioTransport) ReceiveWithContext(ctx context.Context) ([]byte, error) {
	if t.isClosed() {
		return nil, ErrClosed
	}

	resultChan := make(chan readResult, 1)

	go func() {
		t.readMutex.Lock()
		defer t.readMutex.Unlock()
		for {
			line, err := t.reader.ReadBytes('\n')
			trimmed := bytes.TrimSpace(line)
			if err != nil {
				if errors.Is(err, io.EOF) && len(trimmed) > 0 {
					t.logger.Warn("StdioTransport: reached EOF with partial line data")
					resultChan <- t.validate(trimmed)
					return
				}
				if errors.Is(err, io.EOF) {
					resultChan <- readResult{err: io.EOF}
					return
				}
				resultChan <- readResult{err: fmt.Errorf("failed to read message line: %w", err)}
				return
			}
			if len(trimmed) == 0 {
				continue
			}
			resultChan <- t.validate(trimmed)
			return
		}
	}()

	select {
	case <-ctx.Done():
		_ = t.Close()
		return nil, ctx.Err()
	case res := <-resultChan:
		return res.data, res.err
	}
}

type readResult struct {
	data []byte
	err  error
}

func (t *StdioTransport) validate(line []byte) readResult {
	t.logger.Debug("StdioTransport received raw line: %s", line)
	if !json.Valid(line) {
		t.logger.Error("StdioTransport: received invalid JSON: %s", line)
		_ = t.sendParseError("Parse error")
		return readResult{err: ErrInvalidJSON}
	}
	return readResult{data: line}
}

// Close closes the underlying streams when they implement io.Closer.
func (t *StdioTransport) Close() error {
	t.closeMutex.Lock()
	defer t.closeMutex.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true

	var firstErr error
	for _, s := range []interface{}{t.rawWriter, t.rawReader} {
		closer, ok := s.(io.Closer)
		if !ok || closer == os.Stdin || closer == os.Stdout {
			continue
		}
		if err := closer.Close(); err != nil && !errors.Is(err, io.ErrClosedPipe) && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (t *StdioTransport) sendParseError(message string) error {
	data, err := json.Marshal(protocol.NewErrorResponse(nil, protocol.ErrorCodeParseError, message, nil))
	if err != nil {
		return err
	}
	return t.Send(data)
}

var _ types.Transport = (*StdioTransport)(nil)
