package client

import (
	"sync"

	"pamoja-backend/internal/domain"
)

// Session holds the credential and the signed-in user. It is cleared whenever the server answers 401.
type Session struct {
	mu      sync.RWMutex
	access  string
	refresh string
	user    *domain.User
}

func (s *Session) Set(access, refresh string, user *domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = access
	s.refresh = refresh
	s.user = user
}

func (s *Session) SetUser(user *domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.access
}

func (s *Session) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refresh
}

func (s *Session) User() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

func (s *Session) Clear() {
	s.Set("", "", nil)
}
