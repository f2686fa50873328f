package credstore

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/adityasawant2/idcarddetection/internal/cli/api"
)

// Memory is an in-memory Store for tests and non-keychain environments. It
// mirrors the keyring layout (separate token and user entries) so torn-pair
// behavior can be exercised, and supports fault injection per operation.
type Memory struct {
	mu     sync.Mutex
	tokens map[string]string
	users  map[string]string

	FailGet   error
	FailSet   error
	FailClear error
}

// NewMemory returns an empty in-memory store
func NewMemory() *Memory {
	return &Memory{
		tokens: make(map[string]string),
		users:  make(map[string]string),
	}
}

func (m *Memory) Get(serverURL string) (*Record, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailGet != nil {
		return nil, false, m.FailGet
	}

	token, haveToken := m.tokens[serverURL]
	userJSON, haveUser := m.users[serverURL]
	if !haveToken || !haveUser || token == "" {
		return nil, false, nil
	}

	var user api.User
	if err := json.Unmarshal([]byte(userJSON), &user); err != nil {
		return nil, false, nil
	}

	return &Record{User: user, Token: token}, true, nil
}

func (m *Memory) Set(serverURL string, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailSet != nil {
		return m.FailSet
	}

	userJSON, err := json.Marshal(rec.User)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}

	m.tokens[serverURL] = rec.Token
	m.users[serverURL] = string(userJSON)
	return nil
}

func (m *Memory) Clear(serverURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailClear != nil {
		return m.FailClear
	}

	delete(m.tokens, serverURL)
	delete(m.users, serverURL)
	return nil
}

func (m *Memory) Token(serverURL string) (string, error) {
	return storeToken(m, serverURL)
}

// PutRawToken writes only the token half of a pair, simulating a torn write
func (m *Memory) PutRawToken(serverURL, token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[serverURL] = token
}

// PutRawUser writes only the user half of a pair, simulating a torn write
func (m *Memory) PutRawUser(serverURL, userJSON string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[serverURL] = userJSON
}

// Empty reports whether no entries exist for the server
func (m *Memory) Empty(serverURL string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, haveToken := m.tokens[serverURL]
	_, haveUser := m.users[serverURL]
	return !haveToken && !haveUser
}
