package server

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"

	"github.com/localrivet/storefront/protocol"
	"github.com/localrivet/storefront/types"
)

// transportSession implements types.ClientSession on top of a types.Transport.
type transportSession struct {
	id        string
	transport types.Transport
	logger    types.Logger

	mu                 sync.RWMutex
	initialized        bool
	negotiatedVersion  string
	clientCapabilities protocol.ClientCapabilities
}

// NewTransportSession creates a session with a fresh random id that writes to transport.
func NewTransportSession(transport types.Transport, logger types.Logger) types.ClientSession {
	return &transportSession{
		id:        uuid.NewString(),
		transport: transport,
		logger:    logger,
	}
}

func (s *transportSession) SessionID() string { return s.id }

func (s *transportSession) SendNotification(notification protocol.JSONRPCNotification) error {
	msg, err := json.Marshal(notification)
	if err != nil {
		s.logger.Error("Session %s: error marshaling notification: %v", s.id, err)
		return err
	}
	return s.transport.Send(msg)
}

func (s *transportSession) SendResponse(response protocol.JSONRPCResponse) error {
	msg, err := json.Marshal(response)
	if err != nil {
		s.logger.Error("Session %s: error marshaling response: %v", s.id, err)
		return err
	}
	return s.transport.Send(msg)
}

func (s *transportSession) Close() error { return s.transport.Close() }

func (s *transportSession) Initialize() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.initialized = true
}

func (s *transportSession) Initialized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initialized
}

func (s *transportSession) SetNegotiatedVersion(version string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.negotiatedVersion = version
}

func (s *transportSession) GetNegotiatedVersion() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.negotiatedVersion
}

func (s *transportSession) StoreClientCapabilities(caps protocol.ClientCapabilities) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clientCapabilities = caps
}

func (s *transportSession) GetClientCapabilities() protocol.ClientCapabilities {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.clientCapabilities
}

var _ types.ClientSession = (*transportSession)(nil)
