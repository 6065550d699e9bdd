package tee

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaptureRecordsBothDirections(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "capture")
	c, err := Open(dir)
	require.NoError(t, err)

	var stdout bytes.Buffer
	r := c.Reader(strings.NewReader("{\"id\":1}\n"))
	w := c.Writer(&stdout)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "{\"id\":1}\n", string(got))

	_, err = w.Write([]byte("{\"result\":{}}\n"))
	require.NoError(t, err)
	assert.Equal(t, "{\"result\":{}}\n", stdout.String())

	require.NoError(t, c.Close())

	read := func(name string) string {
		b, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err)
		return string(b)
	}
	assert.Equal(t, "{\"id\":1}\n", read(InFile))
	assert.Equal(t, "{\"result\":{}}\n", read(OutFile))
	assert.Equal(t, "{\"id\":1}\n{\"result\":{}}\n", read(CombinedFile))
}

func TestOpenFailsOnFilePath(t *testing.T) {
	file := filepath.Join(t.TempDir(), "plain")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	_, err := Open(file)
	assert.Error(t, err)
}
