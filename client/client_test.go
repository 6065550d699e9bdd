package client_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/localrivet/storefront/client"
	"github.com/localrivet/storefront/logx"
	"github.com/localrivet/storefront/protocol"
	"github.com/localrivet/storefront/server"
	"github.com/localrivet/storefront/transport/stdio"
	"github.com/localrivet/storefront/types"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// connect serves srv over in-memory pipes and returns a client for it.
func connect(t *testing.T, srv *server.Server) *client.Client {
	t.Helper()
	c2sR, c2sW := io.Pipe()
	s2cR, s2cW := io.Pipe()

	serverSide := stdio.NewStdioTransportWithReadWriter(c2sR, s2cW, types.TransportOptions{})
	done := make(chan error, 1)
	go func() { done <- server.Serve(context.Background(), srv, serverSide) }()

	c := client.New(stdio.NewStdioTransportWithReadWriter(s2cR, c2sW, types.TransportOptions{}),
		client.WithClientInfo("test-client", "1.0"))
	t.Cleanup(func() {
		require.NoError(t, c.Close())
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatal("server did not stop")
		}
		_ = serverSide.Close()
	})
	return c
}

func newServer(t *testing.T) *server.Server {
	t.Helper()
	srv := server.NewServer("client-test", server.WithVersion("1.2.3"), server.WithLogger(logx.NewNop()))
	require.NoError(t, srv.RegisterTool(protocol.Tool{Name: "greet"},
		func(ctx context.Context, _ interface{}, args any) ([]protocol.Content, bool) {
			name, _ := args.(map[string]interface{})["name"].(string)
			if name == "" {
				return []protocol.Content{protocol.Text("name missing")}, true
			}
			return []protocol.Content{protocol.Text("hello " + name)}, false
		}))
	require.NoError(t, srv.RegisterPrompt(protocol.Prompt{Name: "p"},
		func(ctx context.Context, args map[string]string) (*protocol.GetPromptResult, error) {
			return &protocol.GetPromptResult{Messages: []protocol.PromptMessage{{Role: "user", Content: protocol.Text("x=" + args["x"])}}}, nil
		}))
	require.NoError(t, srv.RegisterCompletion(protocol.CompletionReference{Type: protocol.RefTypePrompt, Name: "p"}, "x",
		func(ctx context.Context, value string) ([]string, error) { return []string{value + "1", value + "2"}, nil }))
	require.NoError(t, srv.RegisterResource(protocol.Resource{URI: "mcp://t/r", Name: "r"},
		func(ctx context.Context, uri string) ([]protocol.TextResourceContents, error) {
			return []protocol.TextResourceContents{{URI: uri, Text: "body"}}, nil
		}))
	return srv
}

func TestClientRequiresInitialize(t *testing.T) {
	c := connect(t, newServer(t))
	_, err := c.ListTools(context.Background())
	assert.ErrorIs(t, err, client.ErrNotInitialized)
}

func TestClientRoundTrip(t *testing.T) {
	c := connect(t, newServer(t))
	ctx := context.Background()

	info, err := c.Initialize(ctx)
	require.NoError(t, err)
	assert.Equal(t, protocol.CurrentProtocolVersion, info.ProtocolVersion)
	assert.Equal(t, "1.2.3", c.ServerInfo().Version)

	again, err := c.Initialize(ctx)
	require.NoError(t, err)
	assert.Equal(t, info.ServerInfo, again.ServerInfo)

	require.NoError(t, c.Ping(ctx))

	tools, err := c.ListTools(ctx)
	require.NoError(t, err)
	require.Len(t, tools, 1)
	assert.Equal(t, "greet", tools[0].Name)

	res, err := c.CallTool(ctx, "greet", map[string]interface{}{"name": "Doe"})
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, []protocol.Content{protocol.Text("hello Doe")}, res.Content)

	res, err = c.CallTool(ctx, "greet", nil)
	require.NoError(t, err)
	assert.True(t, res.IsError)

	prompts, err := c.ListPrompts(ctx)
	require.NoError(t, err)
	assert.Len(t, prompts, 1)

	pr, err := c.GetPrompt(ctx, "p", map[string]string{"x": "7"})
	require.NoError(t, err)
	assert.Equal(t, protocol.Text("x=7"), pr.Messages[0].Content)

	comp, err := c.CompletePrompt(ctx, "p", "x", "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"a1", "a2"}, comp.Values)

	resources, err := c.ListResources(ctx)
	require.NoError(t, err)
	assert.Len(t, resources, 1)

	contents, err := c.ReadResource(ctx, "mcp://t/r")
	require.NoError(t, err)
	assert.Equal(t, "body", contents[0].Text)

	require.NoError(t, c.SetLevel(ctx, protocol.LogLevelDebug))
}

func TestClientServerErrors(t *testing.T) {
	c := connect(t, newServer(t))
	ctx := context.Background()
	_, err := c.Initialize(ctx)
	require.NoError(t, err)

	_, err = c.CallTool(ctx, "nope", nil)
	require.ErrorIs(t, err, client.ErrServerError)
	var se *client.ServerError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, protocol.ErrorCodeMCPToolNotFound, se.Code)
	assert.Equal(t, protocol.MethodCallTool, se.Method)

	_, err = c.ReadResource(ctx, "mcp://t/missing")
	assert.ErrorIs(t, err, client.ErrServerError)
}
