// Package hooks lets callers wrap tool execution with extra behavior
// such as logging, timing or argument rewriting.
package hooks

import (
	"context"
	"time"

	"github.com/localrivet/storefront/protocol"
	"github.com/localrivet/storefront/types"
)

// FinalToolHandler defines the signature for the actual tool execution logic.
type FinalToolHandler func(ctx context.Context, progressToken interface{}, arguments any) (content []protocol.Content, isError bool)

// BeforeToolCallHook wraps the next handler in the chain, allowing modification before execution.
// It receives the next handler (which could be another hook wrapper or the final handler)
// and returns a new handler function that incorporates the hook's logic.
type BeforeToolCallHook func(next FinalToolHandler) FinalToolHandler

// Chain applies hooks around final. The first hook is the outermost.
func Chain(final FinalToolHandler, hs ...BeforeToolCallHook) FinalToolHandler {
	h := final
	for i := len(hs) - 1; i >= 0; i-- {
		h = hs[i](h)
	}
	return h
}

type toolNameKey struct{}

// WithToolName returns a copy of ctx naming the tool being called.
func WithToolName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, toolNameKey{}, name)
}

// ToolName returns the name of the tool being called, or "" outside a tool call.
func ToolName(ctx context.Context) string {
	name, _ := ctx.Value(toolNameKey{}).(string)
	return name
}

// LogToolCalls returns a hook that logs each tool invocation and its outcome.
func LogToolCalls(logger types.Logger) BeforeToolCallHook {
	return func(next FinalToolHandler) FinalToolHandler {
		return func(ctx context.Context, progressToken interface{}, arguments any) ([]protocol.Content, bool) {
			toolName := ToolName(ctx)
			start := time.Now()
			logger.Debug("tool %s called with %v", toolName, arguments)
			content, isError := next(ctx, progressToken, arguments)
			if isError {
				logger.Warn("tool %s failed after %s", toolName, time.Since(start))
			} else {
				logger.Debug("tool %s finished in %s", toolName, time.Since(start))
			}
			return content, isError
		}
	}
}
