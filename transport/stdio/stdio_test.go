package stdio

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localrivet/storefront/types"
)

func TestSendAppendsSingleNewline(t *testing.T) {
	out := new(bytes.Buffer)
	tr := NewStdioTransportWithReadWriter(strings.NewReader(""), out, types.TransportOptions{})

	require.NoError(t, tr.Send([]byte(`{"a":1}`)))
	require.NoError(t, tr.Send([]byte("{\"b\":2}\n\n")))
	assert.Equal(t, "{\"a\":1}\n{\"b\":2}\n", out.String())

	assert.Error(t, tr.Send(nil))
}

func TestReceiveSkipsBlankLines(t *testing.T) {
	in := strings.NewReader("\n  \n{\"jsonrpc\":\"2.0\",\"method\":\"ping\",\"id\":1}\n{\"x\":true}")
	tr := NewStdioTransportWithReadWriter(in, io.Discard, types.TransportOptions{})

	msg, err := tr.Receive()
	require.NoError(t, err)
	assert.JSONEq(t, `{"jsonrpc":"2.0","method":"ping","id":1}`, string(msg))

	// Final line without a trailing newline is still delivered.
	msg, err = tr.Receive()
	require.NoError(t, err)
	assert.JSONEq(t, `{"x":true}`, string(msg))

	_, err = tr.Receive()
	assert.ErrorIs(t, err, io.EOF)
}

func TestReceiveInvalidJSONSendsParseError(t *testing.T) {
	out := new(bytes.Buffer)
	in := strings.NewReader("not json\n{\"ok\":1}\n")
	tr := NewStdioTransportWithReadWriter(in, out, types.TransportOptions{})

	_, err := tr.Receive()
	assert.ErrorIs(t, err, ErrInvalidJSON)
	assert.Contains(t, out.String(), `"code":-32700`)

	msg, err := tr.Receive()
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":1}`, string(msg))
}

func TestReceiveWithContextCancel(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	tr := NewStdioTransportWithReadWriter(pr, io.Discard, types.TransportOptions{})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := tr.ReceiveWithContext(ctx)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))

	// The transport closes itself on cancellation.
	assert.ErrorIs(t, tr.Send([]byte(`{}`)), ErrClosed)
	_, err = tr.Receive()
	assert.ErrorIs(t, err, ErrClosed)
}

func TestCloseIsIdempotent(t *testing.T) {
	tr := NewStdioTransportWithReadWriter(strings.NewReader(""), io.Discard, types.TransportOptions{})
	require.NoError(t, tr.Close())
	require.NoError(t, tr.Close())
}
