package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewErrorResponse(t *testing.T) {
	resp := NewErrorResponse(7, ErrorCodeMethodNotFound, "Method not found: nope", nil)
	data, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"jsonrpc":"2.0","id":7,"error":{"code":-32601,"message":"Method not found: nope"}}`, string(data))
}

func TestUnmarshalPayload(t *testing.T) {
	var params CallToolParams
	raw := json.RawMessage(`{"name":"get_items","arguments":{"itemName":"Football"}}`)
	require.NoError(t, UnmarshalPayload(raw, &params))
	assert.Equal(t, "get_items", params.Name)
	assert.Equal(t, "Football", params.Arguments["itemName"])

	var fromMap CallToolParams
	require.NoError(t, UnmarshalPayload(map[string]interface{}{"name": "ping"}, &fromMap))
	assert.Equal(t, "ping", fromMap.Name)

	assert.Error(t, UnmarshalPayload(nil, &fromMap))
}

func TestCallToolResultRoundTrip(t *testing.T) {
	in := CallToolResult{Content: []Content{Text("USD")}, IsError: true}
	data, err := json.Marshal(in)
	require.NoError(t, err)

	var out CallToolResult
	require.NoError(t, json.Unmarshal(data, &out))
	require.Len(t, out.Content, 1)
	assert.True(t, out.IsError)
	assert.Equal(t, TextContent{Type: "text", Text: "USD"}, out.Content[0])
}

func TestPromptMessageUnknownContent(t *testing.T) {
	var pm PromptMessage
	err := json.Unmarshal([]byte(`{"role":"user","content":{"type":"audio"}}`), &pm)
	assert.Error(t, err)
}

func TestNewCompletionCaps(t *testing.T) {
	values := make([]string, MaxCompletionValues+5)
	c := NewCompletion(values)
	assert.Len(t, c.Values, MaxCompletionValues)
	assert.Equal(t, MaxCompletionValues+5, *c.Total)
	assert.True(t, *c.HasMore)

	empty := NewCompletion(nil)
	assert.NotNil(t, empty.Values)
	assert.Equal(t, 0, *empty.Total)
	assert.False(t, *empty.HasMore)
}

func TestMCPError(t *testing.T) {
	err := NewNotFoundError(ErrorCodeMCPPromptNotFound, "prompt", "missing")
	assert.Equal(t, ErrorCodeMCPPromptNotFound, err.Code)
	assert.Contains(t, err.Error(), "missing")
}
