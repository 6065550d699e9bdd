package protocol

import (
	"encoding/json"
	"fmt"
)

// Implementation describes the name and version of an MCP implementation (client or server).
type Implementation struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// ClientCapabilities describes features the client supports.
type ClientCapabilities struct {
	Experimental map[string]interface{} `json:"experimental,omitempty"`
	Roots        *struct {
		ListChanged bool `json:"listChanged,omitempty"`
	} `json:"roots,omitempty"`
	Sampling *struct{} `json:"sampling,omitempty"`
}

// ServerCapabilities describes features the server supports.
type ServerCapabilities struct {
	Experimental map[string]interface{} `json:"experimental,omitempty"`
	Logging      *struct{}              `json:"logging,omitempty"`
	Prompts      *struct {
		ListChanged bool `json:"listChanged,omitempty"`
	} `json:"prompts,omitempty"`
	Resources *struct {
		Subscribe   bool `json:"subscribe,omitempty"`
		ListChanged bool `json:"listChanged,omitempty"`
	} `json:"resources,omitempty"`
	Tools *struct {
		ListChanged bool `json:"listChanged,omitempty"`
	} `json:"tools,omitempty"`
	Completions *struct{} `json:"completions,omitempty"` // Added in 2025-03-26
}

// InitializeRequestParams defines the parameters for the 'initialize' request.
type InitializeRequestParams struct {
	ProtocolVersion string             `json:"protocolVersion"`
	Capabilities    ClientCapabilities `json:"capabilities"`
	ClientInfo      Implementation     `json:"clientInfo"`
}

// InitializeResult defines the result payload for a successful 'initialize' response.
type InitializeResult struct {
	ProtocolVersion string             `json:"protocolVersion"`
	Capabilities    ServerCapabilities `json:"capabilities"`
	ServerInfo      Implementation     `json:"serverInfo"`
	Instructions    string             `json:"instructions,omitempty"`
}

// --- Content Structures ---

// Content defines the interface for different types of content in results/prompts.
type Content interface {
	GetType() string
}

// TextContent represents textual content.
type TextContent struct {
	Type string `json:"type"` // Always "text"
	Text string `json:"text"`
}

func (tc TextContent) GetType() string { return tc.Type }

// ImageContent represents base64 encoded image content.
type ImageContent struct {
	Type     string `json:"type"` // Always "image"
	Data     string `json:"data"`
	MimeType string `json:"mimeType"`
}

func (ic ImageContent) GetType() string { return ic.Type }

// Text is a shorthand for a TextContent value.
func Text(s string) TextContent {
	return TextContent{Type: "text", Text: s}
}

// UnmarshalContent decodes one content object, dispatching on its "type" field.
func UnmarshalContent(raw json.RawMessage) (Content, error) {
	var typeDetect struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &typeDetect); err != nil {
		return nil, fmt.Errorf("failed to detect content type: %w", err)
	}
	switch typeDetect.Type {
	case "text":
		var tc TextContent
		if err := json.Unmarshal(raw, &tc); err != nil {
			return nil, fmt.Errorf("failed to unmarshal TextContent: %w", err)
		}
		return tc, nil
	case "image":
		var ic ImageContent
		if err := json.Unmarshal(raw, &ic); err != nil {
			return nil, fmt.Errorf("failed to unmarshal ImageContent: %w", err)
		}
		return ic, nil
	default:
		return nil, fmt.Errorf("unknown content type '%s'", typeDetect.Type)
	}
}

// --- Logging Structures ---

// LoggingLevel defines the possible logging levels (RFC 5424 syslog names).
type LoggingLevel string

const (
	LogLevelEmergency LoggingLevel = "emergency"
	LogLevelAlert     LoggingLevel = "alert"
	LogLevelCritical  LoggingLevel = "critical"
	LogLevelError     LoggingLevel = "error"
	LogLevelWarn      LoggingLevel = "warning"
	LogLevelNotice    LoggingLevel = "notice"
	LogLevelInfo      LoggingLevel = "info"
	LogLevelDebug     LoggingLevel = "debug"
)

// SetLevelRequestParams defines parameters for 'logging/setLevel'.
type SetLevelRequestParams struct {
	Level LoggingLevel `json:"level"`
}

// CancelledParams defines parameters for 'notifications/cancelled'.
type CancelledParams struct {
	RequestID interface{} `json:"requestId"`
	Reason    string      `json:"reason,omitempty"`
}
