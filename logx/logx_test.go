package logx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/localrivet/storefront/protocol"
)

func TestZapLevel(t *testing.T) {
	cases := map[protocol.LoggingLevel]zapcore.Level{
		protocol.LogLevelDebug:     zapcore.DebugLevel,
		protocol.LogLevelNotice:    zapcore.InfoLevel,
		protocol.LogLevelWarn:      zapcore.WarnLevel,
		protocol.LogLevelError:     zapcore.ErrorLevel,
		protocol.LogLevelEmergency: zapcore.DPanicLevel,
		"bogus":                    zapcore.InfoLevel,
	}
	for in, want := range cases {
		assert.Equal(t, want, ZapLevel(in), "level %s", in)
	}
}

func TestSetLevelFiltersMessages(t *testing.T) {
	atom := zap.NewAtomicLevelAt(zapcore.DebugLevel)
	core, logs := observer.New(atom)
	l := Wrap(zap.New(core), &atom)

	l.Debug("cart has %d items", 2)
	l.SetLevel(protocol.LogLevelWarn)
	l.Info("hidden")
	l.Warn("low stock: %s", "Football")

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)
	assert.Equal(t, "cart has 2 items", entries[0].Message)
	assert.Equal(t, "low stock: Football", entries[1].Message)
	assert.Equal(t, zapcore.WarnLevel, l.Level())
}

func TestNewRejectsBadOptions(t *testing.T) {
	_, err := New(Options{Level: "loud"})
	assert.Error(t, err)

	_, err = New(Options{Format: "xml"})
	assert.Error(t, err)

	for _, p := range []string{"stdout", "/dev/stdout", "file:///dev/stdout", "/dev/fd/1", "/proc/self/fd/1"} {
		_, err = New(Options{OutputPaths: []string{"stderr", p}})
		assert.Error(t, err, p)
	}
}

func TestNewDefaults(t *testing.T) {
	l, err := New(Options{})
	require.NoError(t, err)
	assert.Equal(t, zapcore.InfoLevel, l.Level())
}

func TestIsStdout(t *testing.T) {
	for _, p := range []string{"stdout", "/dev/stdout", "/dev//stdout", "file:///dev/stdout", "/dev/fd/1"} {
		assert.True(t, isStdout(p), p)
	}
	for _, p := range []string{"stderr", "/dev/stderr", "/var/log/storefront.log", "stdout.log"} {
		assert.False(t, isStdout(p), p)
	}
}
