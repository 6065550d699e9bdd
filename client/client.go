// Package client is a small synchronous MCP client. It sends one request at a
// time and waits for the matching response.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"sync"

	"github.com/localrivet/storefront/logx"
	"github.com/localrivet/storefront/protocol"
	"github.com/localrivet/storefront/transport/stdio"
	"github.com/localrivet/storefront/types"
)

// Client talks to one MCP server over a types.Transport.
type Client struct {
	name      string
	version   string
	transport types.Transport
	logger    types.Logger

	mu          sync.Mutex
	nextID      int64
	initialized bool
	result      protocol.InitializeResult

	// OnNotification, when set, receives notifications that arrive while
	// waiting for a response.
	OnNotification func(method string, params json.RawMessage)
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the client logger.
func WithLogger(logger types.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithClientInfo sets the name and version sent during initialization.
func WithClientInfo(name, version string) Option {
	return func(c *Client) {
		c.name = name
		c.version = version
	}
}

// New creates a client over transport. Call Initialize before anything else.
func New(transport types.Transport, opts ...Option) *Client {
	c := &Client{
		name:      "storefront-client",
		version:   "0.1.0",
		transport: transport,
		logger:    logx.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// envelope is any message the server can send.
type envelope struct {
	ID     json.RawMessage        `json:"id"`
	Method string                 `json:"method"`
	Params json.RawMessage        `json:"params"`
	Result json.RawMessage        `json:"result"`
	Error  *protocol.ErrorPayload `json:"error"`
}

// call sends a request and decodes its result into out, which may be nil.
func (c *Client) call(ctx context.Context, method string, params, out interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.initialized && method != protocol.MethodInitialize {
		return ErrNotInitialized
	}
	return c.callLocked(ctx, method, params, out)
}

func (c *Client) callLocked(ctx context.Context, method string, params, out interface{}) error {
	c.nextID++
	id := c.nextID
	data, err := json.Marshal(protocol.NewRequest(id, method, params))
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", method, err)
	}
	c.logger.Debug("client -> %s", data)
	if err := c.transport.Send(data); err != nil {
		return fmt.Errorf("failed to send %s request: %w", method, err)
	}

	want := strconv.FormatInt(id, 10)
	for {
		raw, err := c.transport.ReceiveWithContext(ctx)
		switch {
		case errors.Is(err, stdio.ErrInvalidJSON):
			continue
		case errors.Is(err, io.EOF), errors.Is(err, stdio.ErrClosed):
			return fmt.Errorf("%s: %w", method, ErrConnectionClosed)
		case err != nil:
			return fmt.Errorf("%s: %w", method, err)
		}
		c.logger.Debug("client <- %s", raw)

		var msg envelope
		if err := json.Unmarshal(raw, &msg); err != nil {
			return fmt.Errorf("%s: %w: %v", method, ErrInvalidResponse, err)
		}
		if msg.Method != "" {
			if len(msg.ID) == 0 && c.OnNotification != nil {
				c.OnNotification(msg.Method, msg.Params)
			}
			continue
		}
		if string(msg.ID) != want {
			c.logger.Warn("client: dropping response for unexpected id %s", msg.ID)
			continue
		}
		if msg.Error != nil {
			return &ServerError{Method: method, Code: msg.Error.Code, Message: msg.Error.Message}
		}
		if out == nil {
			return nil
		}
		if err := json.Unmarshal(msg.Result, out); err != nil {
			return fmt.Errorf("%s: %w: %v", method, ErrInvalidResponse, err)
		}
		return nil
	}
}

func (c *Client) notify(method string, params interface{}) error {
	data, err := json.Marshal(protocol.NewNotification(method, params))
	if err != nil {
		return err
	}
	return c.transport.Send(data)
}

// Initialize performs the MCP handshake.
func (c *Client) Initialize(ctx context.Context) (*protocol.InitializeResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.initialized {
		res := c.result
		return &res, nil
	}
	params := protocol.InitializeRequestParams{
		ProtocolVersion: protocol.CurrentProtocolVersion,
		Capabilities:    protocol.ClientCapabilities{},
		ClientInfo:      protocol.Implementation{Name: c.name, Version: c.version},
	}
	var result protocol.InitializeResult
	if err := c.callLocked(ctx, protocol.MethodInitialize, params, &result); err != nil {
		return nil, err
	}
	if err := c.notify(protocol.MethodInitialized, nil); err != nil {
		return nil, fmt.Errorf("failed to send initialized notification: %w", err)
	}
	c.initialized = true
	c.result = result
	return &result, nil
}

// ServerInfo returns the server's name and version after Initialize.
func (c *Client) ServerInfo() protocol.Implementation {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result.ServerInfo
}

func (c *Client) Ping(ctx context.Context) error {
	return c.call(ctx, protocol.MethodPing, nil, nil)
}

func (c *Client) ListTools(ctx context.Context) ([]protocol.Tool, error) {
	var result protocol.ListToolsResult
	if err := c.call(ctx, protocol.MethodListTools, struct{}{}, &result); err != nil {
		return nil, err
	}
	return result.Tools, nil
}

// CallTool invokes a tool. A tool-level failure is reported through
// CallToolResult.IsError, not as an error.
func (c *Client) CallTool(ctx context.Context, name string, args map[string]interface{}) (*protocol.CallToolResult, error) {
	var result protocol.CallToolResult
	params := protocol.CallToolParams{Name: name, Arguments: args}
	if err := c.call(ctx, protocol.MethodCallTool, params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) ListResources(ctx context.Context) ([]protocol.Resource, error) {
	var result protocol.ListResourcesResult
	if err := c.call(ctx, protocol.MethodListResources, struct{}{}, &result); err != nil {
		return nil, err
	}
	return result.Resources, nil
}

func (c *Client) ReadResource(ctx context.Context, uri string) ([]protocol.TextResourceContents, error) {
	var result protocol.ReadResourceResult
	if err := c.call(ctx, protocol.MethodReadResource, protocol.ReadResourceRequestParams{URI: uri}, &result); err != nil {
		return nil, err
	}
	return result.Contents, nil
}

func (c *Client) ListPrompts(ctx context.Context) ([]protocol.Prompt, error) {
	var result protocol.ListPromptsResult
	if err := c.call(ctx, protocol.MethodListPrompts, struct{}{}, &result); err != nil {
		return nil, err
	}
	return result.Prompts, nil
}

func (c *Client) GetPrompt(ctx context.Context, name string, args map[string]string) (*protocol.GetPromptResult, error) {
	var result protocol.GetPromptResult
	if err := c.call(ctx, protocol.MethodGetPrompt, protocol.GetPromptRequestParams{Name: name, Arguments: args}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CompletePrompt asks for completions of one prompt argument.
func (c *Client) CompletePrompt(ctx context.Context, prompt, argument, value string) (*protocol.Completion, error) {
	req := protocol.CompleteRequest{
		Ref:      protocol.CompletionReference{Type: protocol.RefTypePrompt, Name: prompt},
		Argument: protocol.CompletionArgument{Name: argument, Value: value},
	}
	var result protocol.CompleteResult
	if err := c.call(ctx, protocol.MethodCompletionComplete, req, &result); err != nil {
		return nil, err
	}
	return &result.Completion, nil
}

// SetLevel changes the server's log level.
func (c *Client) SetLevel(ctx context.Context, level protocol.LoggingLevel) error {
	return c.call(ctx, protocol.MethodLoggingSetLevel, protocol.SetLevelRequestParams{Level: level}, nil)
}

// Close closes the transport.
func (c *Client) Close() error {
	return c.transport.Close()
}
