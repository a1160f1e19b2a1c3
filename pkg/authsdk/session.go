package authsdk

import (
	"context"
	"net/http"
	"sync"
)

// Session is an authenticated session backed by a session token.
type Session struct {
	client *SDKClient

	mu       sync.RWMutex
	token    string
	identity Identity
}

// Token returns the raw session token.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Identity returns the identity last seen by this session. It is empty for
// sessions built with NewSession until Me has been called.
func (s *Session) Identity() Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity
}

// Me fetches the identity behind the session token.
func (s *Session) Me(ctx context.Context) (*Identity, error) {
	resp, err := s.client.doRequest(ctx, http.MethodGet, "/v1/me", nil, s.Token())
	if err != nil {
		return nil, err
	}

	var out MeResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.identity = out.Identity
	s.mu.Unlock()

	return &out.Identity, nil
}
