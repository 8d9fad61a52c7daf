package client

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// CredentialStore persists the session (token, user, role, logged-in flag)
// to a single JSON file so a restarted client resumes where it left off.
type CredentialStore struct {
	mu   sync.Mutex
	path string
}

type credentials struct {
	Token      string          `json:"token"`
	User       json.RawMessage `json:"user,omitempty"`
	Role       string          `json:"role,omitempty"`
	IsLoggedIn bool            `json:"is_logged_in"`
}

func NewCredentialStore(path string) *CredentialStore {
	return &CredentialStore{path: path}
}

func (s *CredentialStore) load() credentials {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return credentials{}
	}
	var creds credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return credentials{}
	}
	return creds
}

// save writes via a temp file and rename so a crash mid-write never leaves
// a torn credentials file.
func (s *CredentialStore) save(creds credentials) error {
	data, err := json.Marshal(creds)
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// SaveSession records a successful login.
func (s *CredentialStore) SaveSession(token string, user json.RawMessage, role string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(credentials{
		Token:      token,
		User:       user,
		Role:       role,
		IsLoggedIn: true,
	})
}

// Token returns the stored bearer token, empty when logged out.
func (s *CredentialStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load().Token
}

// Role returns the stored user role, empty when logged out.
func (s *CredentialStore) Role() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load().Role
}

// User returns the stored user document, nil when logged out.
func (s *CredentialStore) User() json.RawMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load().User
}

// IsLoggedIn reports whether a session is stored.
func (s *CredentialStore) IsLoggedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load().IsLoggedIn
}

// Clear wipes the session.
func (s *CredentialStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(credentials{})
}
