package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/localrivet/storefront/hooks"
	"github.com/localrivet/storefront/protocol"
)

func (s *Server) handleListTools(id interface{}) *protocol.JSONRPCResponse {
	return protocol.NewSuccessResponse(id, protocol.ListToolsResult{Tools: s.Tools()})
}

func (s *Server) handleCallTool(ctx context.Context, id interface{}, rawParams json.RawMessage) *protocol.JSONRPCResponse {
	var params protocol.CallToolParams
	if err := protocol.UnmarshalPayload(rawParams, &params); err != nil {
		return errorResponse(id, protocol.NewInvalidParamsError(fmt.Sprintf("Failed to parse tools/call params: %v", err)))
	}

	s.registryMu.RLock()
	handler, ok := s.toolHandlers[params.Name]
	s.registryMu.RUnlock()
	if !ok {
		return errorResponse(id, protocol.NewNotFoundError(protocol.ErrorCodeMCPToolNotFound, "tool", params.Name))
	}

	var progressToken interface{}
	if params.Meta != nil {
		progressToken = params.Meta.ProgressToken
	}
	arguments := params.Arguments
	if arguments == nil {
		arguments = map[string]interface{}{}
	}

	ctx = hooks.WithToolName(ctx, params.Name)
	content, isError := s.runTool(ctx, params.Name, handler, progressToken, arguments)
	if content == nil {
		content = []protocol.Content{}
	}
	return protocol.NewSuccessResponse(id, protocol.CallToolResult{Content: content, IsError: isError})
}

// runTool turns a panicking tool into an error result instead of killing the session.
func (s *Server) runTool(ctx context.Context, name string, handler ToolHandlerFunc, progressToken interface{}, arguments map[string]interface{}) (content []protocol.Content, isError bool) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("tool %s panicked: %v", name, r)
			content = []protocol.Content{protocol.Text(fmt.Sprintf("tool %s failed: %v", name, r))}
			isError = true
		}
	}()
	return handler(ctx, progressToken, arguments)
}

func (s *Server) handleListPrompts(id interface{}) *protocol.JSONRPCResponse {
	return protocol.NewSuccessResponse(id, protocol.ListPromptsResult{Prompts: s.Prompts()})
}

func (s *Server) handleGetPrompt(ctx context.Context, id interface{}, rawParams json.RawMessage) *protocol.JSONRPCResponse {
	var params protocol.GetPromptRequestParams
	if err := protocol.UnmarshalPayload(rawParams, &params); err != nil {
		return errorResponse(id, protocol.NewInvalidParamsError(fmt.Sprintf("Failed to parse prompts/get params: %v", err)))
	}

	s.registryMu.RLock()
	handler, ok := s.promptHandlers[params.Name]
	s.registryMu.RUnlock()
	if !ok {
		return errorResponse(id, protocol.NewNotFoundError(protocol.ErrorCodeMCPPromptNotFound, "prompt", params.Name))
	}

	arguments := params.Arguments
	if arguments == nil {
		arguments = map[string]string{}
	}
	result, err := handler(ctx, arguments)
	if err != nil {
		s.logger.Warn("prompt %s failed: %v", params.Name, err)
		return errorResponse(id, err)
	}
	if result == nil {
		result = &protocol.GetPromptResult{}
	}
	if result.Messages == nil {
		result.Messages = []protocol.PromptMessage{}
	}
	return protocol.NewSuccessResponse(id, result)
}

func (s *Server) handleListResources(id interface{}) *protocol.JSONRPCResponse {
	return protocol.NewSuccessResponse(id, protocol.ListResourcesResult{Resources: s.Resources()})
}

func (s *Server) handleReadResource(ctx context.Context, id interface{}, rawParams json.RawMessage) *protocol.JSONRPCResponse {
	var params protocol.ReadResourceRequestParams
	if err := protocol.UnmarshalPayload(rawParams, &params); err != nil {
		return errorResponse(id, protocol.NewInvalidParamsError(fmt.Sprintf("Failed to parse resources/read params: %v", err)))
	}

	s.registryMu.RLock()
	handler, ok := s.resourceHandlers[params.URI]
	s.registryMu.RUnlock()
	if !ok {
		return errorResponse(id, protocol.NewNotFoundError(protocol.ErrorCodeMCPResourceNotFound, "resource", params.URI))
	}

	contents, err := handler(ctx, params.URI)
	if err != nil {
		s.logger.Warn("resource %s failed: %v", params.URI, err)
		return errorResponse(id, err)
	}
	if contents == nil {
		contents = []protocol.TextResourceContents{}
	}
	return protocol.NewSuccessResponse(id, protocol.ReadResourceResult{Contents: contents})
}

// handleComplete answers completion/complete. A known prompt without a provider for the
// requested argument yields an empty completion.
func (s *Server) handleComplete(ctx context.Context, id interface{}, rawParams json.RawMessage) *protocol.JSONRPCResponse {
	var params protocol.CompleteRequest
	if err := protocol.UnmarshalPayload(rawParams, &params); err != nil {
		return errorResponse(id, protocol.NewInvalidParamsError(fmt.Sprintf("Failed to parse completion/complete params: %v", err)))
	}

	key := completionKey{refType: params.Ref.Type, ref: params.Ref.Key(), argument: params.Argument.Name}
	s.registryMu.RLock()
	handler, hasHandler := s.completions[key]
	_, knownPrompt := s.promptRegistry[params.Ref.Name]
	_, knownResource := s.resourceRegistry[params.Ref.URI]
	s.registryMu.RUnlock()

	switch params.Ref.Type {
	case protocol.RefTypePrompt:
		if !knownPrompt {
			return errorResponse(id, protocol.NewNotFoundError(protocol.ErrorCodeMCPPromptNotFound, "prompt", params.Ref.Name))
		}
	case protocol.RefTypeResource:
		if !knownResource && !hasHandler {
			return errorResponse(id, protocol.NewNotFoundError(protocol.ErrorCodeMCPResourceNotFound, "resource", params.Ref.URI))
		}
	default:
		return errorResponse(id, protocol.NewInvalidParamsError(fmt.Sprintf("unsupported reference type '%s'", params.Ref.Type)))
	}

	if !hasHandler {
		return protocol.NewSuccessResponse(id, protocol.CompleteResult{Completion: protocol.NewCompletion(nil)})
	}
	values, err := handler(ctx, params.Argument.Value)
	if err != nil {
		return errorResponse(id, err)
	}
	return protocol.NewSuccessResponse(id, protocol.CompleteResult{Completion: protocol.NewCompletion(values)})
}
