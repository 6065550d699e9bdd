package server

import (
	"fmt"

	"github.com/localrivet/storefront/hooks"
	"github.com/localrivet/storefront/protocol"
)

type completionKey struct {
	refType  protocol.ReferenceType
	ref      string
	argument string
}

// RegisterTool adds a tool. The handler is wrapped with the server's tool hooks.
func (s *Server) RegisterTool(tool protocol.Tool, handler ToolHandlerFunc) error {
	if tool.Name == "" {
		return fmt.Errorf("tool name cannot be empty")
	}
	if handler == nil {
		return fmt.Errorf("handler for tool '%s' cannot be nil", tool.Name)
	}
	if tool.InputSchema.Type == "" {
		tool.InputSchema.Type = "object"
	}

	s.registryMu.Lock()
	defer s.registryMu.Unlock()
	if _, exists := s.toolRegistry[tool.Name]; exists {
		return fmt.Errorf("tool '%s' already registered", tool.Name)
	}
	s.toolOrder = append(s.toolOrder, tool.Name)
	s.toolRegistry[tool.Name] = tool
	s.toolHandlers[tool.Name] = hooks.Chain(handler, s.toolHooks...)
	s.logger.Info("Registered tool: %s", tool.Name)
	return nil
}

// RegisterPrompt adds a prompt and the handler that renders it.
func (s *Server) RegisterPrompt(prompt protocol.Prompt, handler PromptHandlerFunc) error {
	if prompt.Name == "" {
		return fmt.Errorf("prompt name cannot be empty")
	}
	if handler == nil {
		return fmt.Errorf("handler for prompt '%s' cannot be nil", prompt.Name)
	}

	s.registryMu.Lock()
	defer s.registryMu.Unlock()
	if _, exists := s.promptRegistry[prompt.Name]; exists {
		return fmt.Errorf("prompt '%s' already registered", prompt.Name)
	}
	s.promptOrder = append(s.promptOrder, prompt.Name)
	s.promptRegistry[prompt.Name] = prompt
	s.promptHandlers[prompt.Name] = handler
	s.logger.Info("Registered prompt: %s", prompt.Name)
	return nil
}

// RegisterResource adds a resource and the handler that reads it.
func (s *Server) RegisterResource(resource protocol.Resource, handler ResourceHandlerFunc) error {
	if resource.URI == "" {
		return fmt.Errorf("resource URI cannot be empty")
	}
	if handler == nil {
		return fmt.Errorf("handler for resource '%s' cannot be nil", resource.URI)
	}

	s.registryMu.Lock()
	defer s.registryMu.Unlock()
	if _, exists := s.resourceRegistry[resource.URI]; exists {
		return fmt.Errorf("resource '%s' already registered", resource.URI)
	}
	s.resourceOrder = append(s.resourceOrder, resource.URI)
	s.resourceRegistry[resource.URI] = resource
	s.resourceHandlers[resource.URI] = handler
	s.logger.Info("Registered resource: %s", resource.URI)
	return nil
}

// RegisterCompletion adds a completion provider for one argument of a prompt or resource.
// For prompt references the target must already be registered.
func (s *Server) RegisterCompletion(ref protocol.CompletionReference, argument string, handler CompletionHandlerFunc) error {
	if handler == nil {
		return fmt.Errorf("completion handler cannot be nil")
	}
	key := completionKey{refType: ref.Type, ref: ref.Key(), argument: argument}

	s.registryMu.Lock()
	defer s.registryMu.Unlock()
	switch ref.Type {
	case protocol.RefTypePrompt:
		if _, ok := s.promptRegistry[ref.Name]; !ok {
			return fmt.Errorf("cannot register completion for unknown prompt '%s'", ref.Name)
		}
	case protocol.RefTypeResource:
		if ref.URI == "" {
			return fmt.Errorf("resource completion needs a uri")
		}
	default:
		return fmt.Errorf("unsupported completion reference type '%s'", ref.Type)
	}
	if _, exists := s.completions[key]; exists {
		return fmt.Errorf("completion for %s '%s' argument '%s' already registered", ref.Type, ref.Key(), argument)
	}
	s.completions[key] = handler
	return nil
}

// Tools returns the registered tools in registration order.
func (s *Server) Tools() []protocol.Tool {
	s.registryMu.RLock()
	defer s.registryMu.RUnlock()
	tools := make([]protocol.Tool, 0, len(s.toolOrder))
	for _, name := range s.toolOrder {
		tools = append(tools, s.toolRegistry[name])
	}
	return tools
}

// Prompts returns the registered prompts in registration order.
func (s *Server) Prompts() []protocol.Prompt {
	s.registryMu.RLock()
	defer s.registryMu.RUnlock()
	prompts := make([]protocol.Prompt, 0, len(s.promptOrder))
	for _, name := range s.promptOrder {
		prompts = append(prompts, s.promptRegistry[name])
	}
	return prompts
}

// Resources returns the registered resources in registration order.
func (s *Server) Resources() []protocol.Resource {
	s.registryMu.RLock()
	defer s.registryMu.RUnlock()
	resources := make([]protocol.Resource, 0, len(s.resourceOrder))
	for _, uri := range s.resourceOrder {
		resources = append(resources, s.resourceRegistry[uri])
	}
	return resources
}
