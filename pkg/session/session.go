package session

import (
	"os"
	"sync"

	"github.com/splinxplanet/go-backoffice/pkg/resource"
)

// Session holds the process-wide bearer token: written once at login, cleared
// at logout, read by every resource client call. It is handed to clients
// explicitly at construction instead of living in ambient global state, so
// tests inject fakes without touching the process.
type Session struct {
	mu    sync.RWMutex
	token string
	admin resource.Record
}

// New creates a session with an existing token, empty for logged-out.
func New(token string) *Session {
	return &Session{token: token}
}

// FromEnv restores the persisted token from an environment variable.
func FromEnv(key string) *Session {
	return New(os.Getenv(key))
}

// Token returns the current bearer token, empty when logged out.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Admin returns the logged-in admin record, nil when unknown.
func (s *Session) Admin() resource.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.admin.Clone()
}

// SetToken installs a fresh token, as after login.
func (s *Session) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

func (s *Session) setIdentity(token string, admin resource.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.admin = admin
}

// Clear logs the session out.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.admin = nil
}
