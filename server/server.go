// Package server provides the MCP server implementation.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/localrivet/storefront/hooks"
	"github.com/localrivet/storefront/logx"
	"github.com/localrivet/storefront/protocol"
	"github.com/localrivet/storefront/types"
)

// ToolHandlerFunc defines the signature for functions that handle tool execution.
type ToolHandlerFunc = hooks.FinalToolHandler

// PromptHandlerFunc renders a prompt for the given arguments.
type PromptHandlerFunc func(ctx context.Context, arguments map[string]string) (*protocol.GetPromptResult, error)

// ResourceHandlerFunc returns the contents of the resource at uri.
type ResourceHandlerFunc func(ctx context.Context, uri string) ([]protocol.TextResourceContents, error)

// CompletionHandlerFunc returns completion candidates for the current argument value.
type CompletionHandlerFunc func(ctx context.Context, value string) ([]string, error)

// NotificationHandlerFunc defines the signature for functions that handle client-to-server notifications.
type NotificationHandlerFunc func(ctx context.Context, params json.RawMessage) error

// LevelSetter is implemented by loggers whose level can change at runtime.
type LevelSetter interface {
	SetLevel(level protocol.LoggingLevel)
}

// Server represents the core MCP server logic, independent of transport.
type Server struct {
	serverName         string
	serverVersion      string
	serverInstructions string
	logger             types.Logger

	// Registries keep registration order so list responses are stable.
	registryMu       sync.RWMutex
	toolOrder        []string
	toolRegistry     map[string]protocol.Tool
	toolHandlers     map[string]ToolHandlerFunc
	promptOrder      []string
	promptRegistry   map[string]protocol.Prompt
	promptHandlers   map[string]PromptHandlerFunc
	resourceOrder    []string
	resourceRegistry map[string]protocol.Resource
	resourceHandlers map[string]ResourceHandlerFunc
	completions      map[completionKey]CompletionHandlerFunc
	toolHooks        []hooks.BeforeToolCallHook

	serverCapabilities protocol.ServerCapabilities

	notificationHandlers map[string]NotificationHandlerFunc
	notificationMu       sync.RWMutex

	sessions sync.Map
}

// ServerOption defines a function signature for configuring a Server.
type ServerOption func(*Server)

// WithLogger provides an option to set a custom logger.
// If the logger implements LevelSetter, logging/setLevel requests adjust it.
func WithLogger(logger types.Logger) ServerOption {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithVersion sets the version reported in serverInfo.
func WithVersion(version string) ServerOption {
	return func(s *Server) {
		s.serverVersion = version
	}
}

// WithInstructions sets the server instructions string returned during initialization.
func WithInstructions(instructions string) ServerOption {
	return func(s *Server) {
		s.serverInstructions = instructions
	}
}

// WithToolHooks installs hooks that wrap every tool registered afterwards.
// The first hook is the outermost.
func WithToolHooks(hs ...hooks.BeforeToolCallHook) ServerOption {
	return func(s *Server) {
		s.toolHooks = append(s.toolHooks, hs...)
	}
}

// NewServer creates a new core MCP Server logic instance with the provided options.
func NewServer(serverName string, opts ...ServerOption) *Server {
	srv := &Server{
		serverName:    serverName,
		serverVersion: "0.1.0",
		logger:        logx.NewNop(),
		serverCapabilities: protocol.ServerCapabilities{
			Tools: &struct {
				ListChanged bool `json:"listChanged,omitempty"`
			}{},
			Resources: &struct {
				Subscribe   bool `json:"subscribe,omitempty"`
				ListChanged bool `json:"listChanged,omitempty"`
			}{},
			Prompts: &struct {
				ListChanged bool `json:"listChanged,omitempty"`
			}{},
			Logging:     &struct{}{},
			Completions: &struct{}{},
		},
		toolRegistry:         make(map[string]protocol.Tool),
		toolHandlers:         make(map[string]ToolHandlerFunc),
		promptRegistry:       make(map[string]protocol.Prompt),
		promptHandlers:       make(map[string]PromptHandlerFunc),
		resourceRegistry:     make(map[string]protocol.Resource),
		resourceHandlers:     make(map[string]ResourceHandlerFunc),
		completions:          make(map[completionKey]CompletionHandlerFunc),
		notificationHandlers: make(map[string]NotificationHandlerFunc),
	}

	for _, opt := range opts {
		opt(srv)
	}

	_ = srv.RegisterNotificationHandler(protocol.MethodCancelled, srv.handleCancellationNotification)

	srv.logger.Info("MCP server '%s' created.", serverName)
	return srv
}

// Logger returns the server's logger.
func (s *Server) Logger() types.Logger {
	return s.logger
}

// --- Session Management ---

// RegisterSession makes session addressable by HandleMessage.
func (s *Server) RegisterSession(session types.ClientSession) error {
	if session == nil {
		return fmt.Errorf("cannot register nil session")
	}
	sessionID := session.SessionID()
	if _, loaded := s.sessions.LoadOrStore(sessionID, session); loaded {
		return fmt.Errorf("session with ID '%s' already registered", sessionID)
	}
	s.logger.Info("Registered session: %s", sessionID)
	return nil
}

// UnregisterSession forgets the session with the given id.
func (s *Server) UnregisterSession(sessionID string) {
	if _, loaded := s.sessions.LoadAndDelete(sessionID); loaded {
		s.logger.Info("Unregistered session: %s", sessionID)
	}
}

// --- Message Handling (Called by Transport Layer) ---

// HandleMessage processes an incoming raw JSON message, which can be a single JSON-RPC object
// or a JSON array representing a batch of requests/notifications.
// Notifications produce no response, so the result may be nil.
func (s *Server) HandleMessage(ctx context.Context, sessionID string, rawMessage json.RawMessage) []*protocol.JSONRPCResponse {
	sessionI, ok := s.sessions.Load(sessionID)
	if !ok {
		s.logger.Error("Received message for unknown session ID: %s", sessionID)
		return nil
	}
	session := sessionI.(types.ClientSession)
	ctx = WithSession(ctx, session)

	trimmedMsg := bytes.TrimSpace(rawMessage)
	if len(trimmedMsg) > 0 && trimmedMsg[0] == '[' {
		if session.GetNegotiatedVersion() != protocol.CurrentProtocolVersion {
			s.logger.Error("Session %s: batch request on protocol version %q", sessionID, session.GetNegotiatedVersion())
			return []*protocol.JSONRPCResponse{protocol.NewErrorResponse(nil, protocol.ErrorCodeInvalidRequest, "Batch requests not supported for negotiated protocol version", nil)}
		}
		var batch []json.RawMessage
		if err := json.Unmarshal(trimmedMsg, &batch); err != nil {
			return []*protocol.JSONRPCResponse{protocol.NewErrorResponse(nil, protocol.ErrorCodeParseError, fmt.Sprintf("Failed to parse batch JSON: %v", err), nil)}
		}
		if len(batch) == 0 {
			return []*protocol.JSONRPCResponse{protocol.NewErrorResponse(nil, protocol.ErrorCodeInvalidRequest, "Received empty batch request", nil)}
		}
		responses := make([]*protocol.JSONRPCResponse, 0, len(batch))
		for _, single := range batch {
			if response := s.handleSingleMessage(ctx, session, single); response != nil {
				responses = append(responses, response)
			}
		}
		if len(responses) == 0 {
			return nil
		}
		return responses
	}

	if response := s.handleSingleMessage(ctx, session, trimmedMsg); response != nil {
		return []*protocol.JSONRPCResponse{response}
	}
	return nil
}

// handleSingleMessage processes a single JSON-RPC request or notification object.
func (s *Server) handleSingleMessage(ctx context.Context, session types.ClientSession, rawMessage json.RawMessage) *protocol.JSONRPCResponse {
	sessionID := session.SessionID()

	var baseMessage struct {
		JSONRPC string          `json:"jsonrpc"`
		ID      interface{}     `json:"id"`
		Method  string          `json:"method"`
		Params  json.RawMessage `json:"params"`
	}
	if err := json.Unmarshal(rawMessage, &baseMessage); err != nil {
		s.logger.Error("Session %s: failed to parse message: %v", sessionID, err)
		return protocol.NewErrorResponse(nil, protocol.ErrorCodeParseError, fmt.Sprintf("Failed to parse JSON: %v", err), nil)
	}
	if baseMessage.JSONRPC != protocol.JSONRPCVersion {
		return protocol.NewErrorResponse(baseMessage.ID, protocol.ErrorCodeInvalidRequest, "Invalid jsonrpc version", nil)
	}

	isRequest := baseMessage.ID != nil
	if baseMessage.Method == "" {
		if isRequest {
			// A response from the client; the server never sends requests so it is dropped.
			s.logger.Debug("Session %s: ignoring client response for id %v", sessionID, baseMessage.ID)
			return nil
		}
		return protocol.NewErrorResponse(nil, protocol.ErrorCodeInvalidRequest, "Invalid message: must be request (with id) or notification (with method)", nil)
	}

	if !session.Initialized() {
		switch {
		case baseMessage.Method == protocol.MethodInitialize && isRequest:
			return s.handleInitializeRequest(session, baseMessage.ID, baseMessage.Params)
		case baseMessage.Method == protocol.MethodInitialized && !isRequest:
			if session.GetNegotiatedVersion() == "" {
				s.logger.Warn("Session %s: initialized notification before initialize request", sessionID)
				return nil
			}
			session.Initialize()
			s.logger.Info("Session %s initialized.", sessionID)
			return nil
		case baseMessage.Method == protocol.MethodPing && isRequest:
			return protocol.NewSuccessResponse(baseMessage.ID, map[string]interface{}{})
		case !isRequest:
			s.logger.Debug("Session %s: dropping notification %s during handshake", sessionID, baseMessage.Method)
			return nil
		default:
			s.logger.Warn("Session %s: %s received before initialization", sessionID, baseMessage.Method)
			return protocol.NewErrorResponse(baseMessage.ID, protocol.ErrorCodeInvalidRequest, "Expected 'initialize' request or 'initialized' notification during handshake", nil)
		}
	}

	if isRequest {
		return s.handleRequest(ctx, session, baseMessage.ID, baseMessage.Method, baseMessage.Params)
	}
	if err := s.handleNotification(ctx, session, baseMessage.Method, baseMessage.Params); err != nil {
		s.logger.Error("Error handling notification '%s' for session %s: %v", baseMessage.Method, sessionID, err)
	}
	return nil
}

// --- Initialization Handling ---

func (s *Server) handleInitializeRequest(session types.ClientSession, requestID interface{}, rawParams json.RawMessage) *protocol.JSONRPCResponse {
	var initParams protocol.InitializeRequestParams
	if err := protocol.UnmarshalPayload(rawParams, &initParams); err != nil {
		return protocol.NewErrorResponse(requestID, protocol.ErrorCodeInvalidParams, fmt.Sprintf("Failed to parse initialize params: %v", err), nil)
	}

	var negotiatedVersion string
	switch initParams.ProtocolVersion {
	case protocol.CurrentProtocolVersion, protocol.OldProtocolVersion:
		negotiatedVersion = initParams.ProtocolVersion
	default:
		errMsg := fmt.Sprintf("Unsupported protocol version '%s'. Server supports '%s' and '%s'.",
			initParams.ProtocolVersion, protocol.CurrentProtocolVersion, protocol.OldProtocolVersion)
		return protocol.NewErrorResponse(requestID, protocol.ErrorCodeMCPUnsupportedProtocolVersion, errMsg, nil)
	}

	session.SetNegotiatedVersion(negotiatedVersion)
	session.StoreClientCapabilities(initParams.Capabilities)
	s.logger.Info("Session %s: initialize from %s %s (protocol %s)", session.SessionID(),
		initParams.ClientInfo.Name, initParams.ClientInfo.Version, negotiatedVersion)

	advertisedCaps := s.serverCapabilities
	if negotiatedVersion == protocol.OldProtocolVersion {
		advertisedCaps.Completions = nil // added in 2025-03-26
	}

	return protocol.NewSuccessResponse(requestID, protocol.InitializeResult{
		ProtocolVersion: negotiatedVersion,
		Capabilities:    advertisedCaps,
		ServerInfo:      protocol.Implementation{Name: s.serverName, Version: s.serverVersion},
		Instructions:    s.serverInstructions,
	})
}

// --- Request/Notification Routing (Post-Initialization) ---

func (s *Server) handleRequest(ctx context.Context, session types.ClientSession, id interface{}, method string, rawParams json.RawMessage) *protocol.JSONRPCResponse {
	s.logger.Debug("Session %s: request %s (id %v)", session.SessionID(), method, id)

	switch method {
	case protocol.MethodInitialize:
		return protocol.NewErrorResponse(id, protocol.ErrorCodeInvalidRequest, "Session already initialized", nil)
	case protocol.MethodPing:
		return protocol.NewSuccessResponse(id, map[string]interface{}{})
	case protocol.MethodListTools:
		return s.handleListTools(id)
	case protocol.MethodCallTool:
		return s.handleCallTool(ctx, id, rawParams)
	case protocol.MethodListPrompts:
		return s.handleListPrompts(id)
	case protocol.MethodGetPrompt:
		return s.handleGetPrompt(ctx, id, rawParams)
	case protocol.MethodListResources:
		return s.handleListResources(id)
	case protocol.MethodReadResource:
		return s.handleReadResource(ctx, id, rawParams)
	case protocol.MethodCompletionComplete:
		return s.handleComplete(ctx, id, rawParams)
	case protocol.MethodLoggingSetLevel:
		return s.handleSetLevel(id, rawParams)
	default:
		s.logger.Warn("Method not found for session %s: %s", session.SessionID(), method)
		return errorResponse(id, protocol.NewMethodNotFoundError(method))
	}
}

func (s *Server) handleNotification(ctx context.Context, session types.ClientSession, method string, rawParams json.RawMessage) error {
	s.notificationMu.RLock()
	handler, ok := s.notificationHandlers[method]
	s.notificationMu.RUnlock()
	if !ok {
		s.logger.Debug("No handler registered for notification method '%s' from session %s", method, session.SessionID())
		return nil
	}
	return handler(ctx, rawParams)
}

// RegisterNotificationHandler installs handler for a client notification method.
func (s *Server) RegisterNotificationHandler(method string, handler NotificationHandlerFunc) error {
	s.notificationMu.Lock()
	defer s.notificationMu.Unlock()
	if _, exists := s.notificationHandlers[method]; exists {
		return fmt.Errorf("notification handler already registered for method: %s", method)
	}
	s.notificationHandlers[method] = handler
	return nil
}

// Requests run to completion synchronously, so cancellation is only logged.
func (s *Server) handleCancellationNotification(ctx context.Context, params json.RawMessage) error {
	var p protocol.CancelledParams
	if len(params) > 0 {
		if err := json.Unmarshal(params, &p); err != nil {
			return fmt.Errorf("failed to parse cancelled params: %w", err)
		}
	}
	s.logger.Debug("Client cancelled request %v: %s", p.RequestID, p.Reason)
	return nil
}

func (s *Server) handleSetLevel(id interface{}, rawParams json.RawMessage) *protocol.JSONRPCResponse {
	var params protocol.SetLevelRequestParams
	if err := protocol.UnmarshalPayload(rawParams, &params); err != nil {
		return errorResponse(id, protocol.NewInvalidParamsError(err.Error()))
	}
	switch params.Level {
	case protocol.LogLevelDebug, protocol.LogLevelInfo, protocol.LogLevelNotice, protocol.LogLevelWarn,
		protocol.LogLevelError, protocol.LogLevelCritical, protocol.LogLevelAlert, protocol.LogLevelEmergency:
	default:
		return errorResponse(id, protocol.NewInvalidParamsError(fmt.Sprintf("unknown logging level '%s'", params.Level)))
	}
	if setter, ok := s.logger.(LevelSetter); ok {
		setter.SetLevel(params.Level)
	}
	s.logger.Info("Log level set to %s", params.Level)
	return protocol.NewSuccessResponse(id, map[string]interface{}{})
}

// errorResponse converts a handler error into a JSON-RPC error response.
// *protocol.MCPError keeps its code; anything else becomes an internal error.
func errorResponse(id interface{}, err error) *protocol.JSONRPCResponse {
	var mcpErr *protocol.MCPError
	if errors.As(err, &mcpErr) {
		return protocol.NewErrorResponse(id, mcpErr.Code, mcpErr.Message, mcpErr.Data)
	}
	return protocol.NewErrorResponse(id, protocol.ErrorCodeInternalError, err.Error(), nil)
}
