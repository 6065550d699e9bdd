// Package logx provides the storefront logger: a printf-style facade over zap.
package logx

import (
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/localrivet/storefront/protocol"
	"github.com/localrivet/storefront/types"
)

// Logger defines the interface for logging with a runtime adjustable level.
type Logger interface {
	types.Logger
	SetLevel(level protocol.LoggingLevel)
}

// Options configures a zap backed logger.
type Options struct {
	Level  string // debug, info, warn, error
	Format string // console or json
	// OutputPaths defaults to stderr. stdout belongs to the protocol and must never be used here.
	OutputPaths []string
}

// ZapLogger adapts a zap.SugaredLogger to the Logger interface.
type ZapLogger struct {
	sugar *zap.SugaredLogger
	level zap.AtomicLevel
}

// New builds a zap logger from opts.
func New(opts Options) (*ZapLogger, error) {
	lvl, err := zapcore.ParseLevel(strings.ToLower(opts.Level))
	if err != nil && opts.Level != "" {
		return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
	}
	if opts.Level == "" {
		lvl = zapcore.InfoLevel
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(lvl)
	config.Sampling = nil
	config.DisableStacktrace = true
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	switch opts.Format {
	case "", "console":
		config.Encoding = "console"
		config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	case "json":
		config.Encoding = "json"
	default:
		return nil, fmt.Errorf("invalid log format %q", opts.Format)
	}

	config.OutputPaths = []string{"stderr"}
	for _, p := range opts.OutputPaths {
		if isStdout(p) {
			return nil, fmt.Errorf("log output %q would corrupt the protocol stream", p)
		}
	}
	if len(opts.OutputPaths) > 0 {
		config.OutputPaths = opts.OutputPaths
	}
	config.ErrorOutputPaths = []string{"stderr"}

	base, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return &ZapLogger{sugar: base.Sugar(), level: config.Level}, nil
}

// isStdout reports whether a zap output path names the process's standard output.
func isStdout(path string) bool {
	if path == "stdout" {
		return true
	}
	switch filepath.Clean(strings.TrimPrefix(path, "file://")) {
	case "/dev/stdout", "/dev/fd/1", "/proc/self/fd/1":
		return true
	}
	return false
}

// Wrap adapts an existing zap.Logger. The level is fixed to whatever the core enforces
// unless level is non-nil.
func Wrap(l *zap.Logger, level *zap.AtomicLevel) *ZapLogger {
	zl := &ZapLogger{sugar: l.Sugar()}
	if level != nil {
		zl.level = *level
	} else {
		zl.level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return zl
}

// NewNop returns a logger that discards everything.
func NewNop() *ZapLogger {
	return Wrap(zap.NewNop(), nil)
}

func (l *ZapLogger) Debug(msg string, args ...interface{}) { l.sugar.Debugf(msg, args...) }
func (l *ZapLogger) Info(msg string, args ...interface{})  { l.sugar.Infof(msg, args...) }
func (l *ZapLogger) Warn(msg string, args ...interface{})  { l.sugar.Warnf(msg, args...) }
func (l *ZapLogger) Error(msg string, args ...interface{}) { l.sugar.Errorf(msg, args...) }

// SetLevel maps an MCP syslog level onto the zap level.
func (l *ZapLogger) SetLevel(level protocol.LoggingLevel) {
	l.level.SetLevel(ZapLevel(level))
}

// Level reports the current zap level.
func (l *ZapLogger) Level() zapcore.Level {
	return l.level.Level()
}

// Sync flushes buffered log entries.
func (l *ZapLogger) Sync() error {
	return l.sugar.Sync()
}

// ZapLevel converts an MCP logging level to its closest zap level.
// Unknown levels map to info.
func ZapLevel(level protocol.LoggingLevel) zapcore.Level {
	switch level {
	case protocol.LogLevelDebug:
		return zapcore.DebugLevel
	case protocol.LogLevelInfo, protocol.LogLevelNotice:
		return zapcore.InfoLevel
	case protocol.LogLevelWarn:
		return zapcore.WarnLevel
	case protocol.LogLevelError:
		return zapcore.ErrorLevel
	case protocol.LogLevelCritical, protocol.LogLevelAlert, protocol.LogLevelEmergency:
		return zapcore.DPanicLevel
	default:
		return zapcore.InfoLevel
	}
}

var _ Logger = (*ZapLogger)(nil)
