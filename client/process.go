package client

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"

	"github.com/localrivet/storefront/transport/stdio"
	"github.com/localrivet/storefront/types"
)

// Process is a Client connected to a server running as a child process.
type Process struct {
	*Client
	cmd *exec.Cmd

	closeOnce sync.Once
	closeErr  error
}

// NewStdioClient starts name with args and speaks MCP over its stdin and
// stdout. The child's stderr is passed through to ours.
func NewStdioClient(ctx context.Context, name string, args []string, opts ...Option) (*Process, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open server stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open server stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", name, err)
	}

	c := New(nil, opts...)
	c.transport = stdio.NewStdioTransportWithReadWriter(stdout, stdin, types.TransportOptions{Logger: c.logger})
	return &Process{Client: c, cmd: cmd}, nil
}

// Close closes the pipes, which makes the server see EOF, and waits for it to exit.
func (p *Process) Close() error {
	p.closeOnce.Do(func() {
		err := p.Client.Close()
		waitErr := p.cmd.Wait()
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) && p.cmd.ProcessState != nil && !p.cmd.ProcessState.Exited() {
			// killed by context cancellation
			waitErr = nil
		}
		p.closeErr = errors.Join(err, waitErr)
	})
	return p.closeErr
}
