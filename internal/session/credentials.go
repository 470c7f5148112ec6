package session

import (
	"sync"

	"github.com/DanyGuerra/business-manager-frontend-sub001/pkg/auth"
)

// CredentialStore holds the session's bearer credential. It is shared
// between the backend client (which reads the token per request) and the
// session service (which rotates it).
type CredentialStore struct {
	mu         sync.Mutex
	credential *auth.Credential
}

// NewCredentialStore starts empty; the credential arrives via the local API.
func NewCredentialStore() *CredentialStore {
	return &CredentialStore{}
}

// Set swaps the held credential. Nil clears it.
func (s *CredentialStore) Set(credential *auth.Credential) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credential = credential
}

// Current returns the held credential, nil when logged out.
func (s *CredentialStore) Current() *auth.Credential {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.credential
}

// Token implements the backend credential source.
func (s *CredentialStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.credential == nil {
		return ""
	}
	return s.credential.Token
}
