package server_test

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/localrivet/storefront/protocol"
	"github.com/localrivet/storefront/server"
	"github.com/localrivet/storefront/transport/stdio"
	"github.com/localrivet/storefront/types"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestServeRoundTrip(t *testing.T) {
	srv := newTestServer(t)

	clientToServerR, clientToServerW := io.Pipe()
	serverToClientR, serverToClientW := io.Pipe()
	transport := stdio.NewStdioTransportWithReadWriter(clientToServerR, serverToClientW, types.TransportOptions{})

	ended := make(chan string, 1)
	done := make(chan error, 1)
	go func() {
		done <- server.Serve(context.Background(), srv, transport, func(id string) { ended <- id })
	}()

	lines := bufio.NewScanner(serverToClientR)
	send := func(msg string) {
		_, err := clientToServerW.Write([]byte(msg + "\n"))
		require.NoError(t, err)
	}
	next := func() protocol.JSONRPCResponse {
		require.True(t, lines.Scan())
		var resp protocol.JSONRPCResponse
		require.NoError(t, json.Unmarshal(lines.Bytes(), &resp))
		return resp
	}

	send(`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-03-26","capabilities":{},"clientInfo":{"name":"t","version":"1"}}}`)
	assert.Nil(t, next().Error)
	send(`{"jsonrpc":"2.0","method":"notifications/initialized"}`)

	send(`this is not json`)
	parseErr := next()
	require.NotNil(t, parseErr.Error)
	assert.Equal(t, protocol.ErrorCodeParseError, parseErr.Error.Code)

	send(`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"echo","arguments":{"text":"over the wire"}}}`)
	resp := next()
	require.Nil(t, resp.Error)
	var result protocol.CallToolResult
	require.NoError(t, protocol.UnmarshalPayload(resp.Result, &result))
	assert.Equal(t, []protocol.Content{protocol.Text("over the wire")}, result.Content)

	require.NoError(t, clientToServerW.Close())
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after EOF")
	}
	assert.NotEmpty(t, <-ended)
	_ = serverToClientR.Close()
}

func TestServeStopsOnCancel(t *testing.T) {
	srv := newTestServer(t)
	r, w := io.Pipe()
	defer w.Close()
	transport := stdio.NewStdioTransportWithReadWriter(r, io.Discard, types.TransportOptions{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Serve(ctx, srv, transport) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
