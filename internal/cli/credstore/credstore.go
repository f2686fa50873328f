// Package credstore persists the authenticated session as a two-key pair in
// the OS keychain/credential manager: the bearer token and the user profile
// it belongs to, keyed per server. The pair is written and removed together;
// a half-present pair is treated as absent so a torn write can never restore
// a session.
package credstore

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/adityasawant2/idcarddetection/internal/cli/api"
)

const service = "idverify-cli"

// Record is the durable projection of an authenticated session
type Record struct {
	User  api.User
	Token string
}

// Store is the credential persistence contract. Token makes every Store
// usable as the api package's CredentialSource.
type Store interface {
	// Get returns the stored pair, or ok=false when absent or half-written.
	Get(serverURL string) (*Record, bool, error)
	// Set writes both keys; the record overwrites any previous pair.
	Set(serverURL string, rec Record) error
	// Clear removes both keys. Clearing an absent pair is not an error.
	Clear(serverURL string) error
	// Token returns the stored bearer token, or "" when the pair is absent.
	Token(serverURL string) (string, error)
}

func tokenKey(serverURL string) string {
	return fmt.Sprintf("token-%s", serverURL)
}

func userKey(serverURL string) string {
	return fmt.Sprintf("user-%s", serverURL)
}

// Keyring stores credentials in the OS keychain/credential manager
type Keyring struct{}

// NewKeyring returns the OS-backed store
func NewKeyring() *Keyring {
	return &Keyring{}
}

func (k *Keyring) Get(serverURL string) (*Record, bool, error) {
	token, err := keyring.Get(service, tokenKey(serverURL))
	if errors.Is(err, keyring.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load token: %w", err)
	}

	userJSON, err := keyring.Get(service, userKey(serverURL))
	if errors.Is(err, keyring.ErrNotFound) {
		// Token without user: a torn pair reads as absent
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load user: %w", err)
	}

	var user api.User
	if err := json.Unmarshal([]byte(userJSON), &user); err != nil {
		// Unparseable user record reads as absent
		return nil, false, nil
	}

	if token == "" {
		return nil, false, nil
	}

	return &Record{User: user, Token: token}, true, nil
}

func (k *Keyring) Set(serverURL string, rec Record) error {
	userJSON, err := json.Marshal(rec.User)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}

	if err := keyring.Set(service, tokenKey(serverURL), rec.Token); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	if err := keyring.Set(service, userKey(serverURL), string(userJSON)); err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}

	return nil
}

func (k *Keyring) Clear(serverURL string) error {
	var firstErr error

	if err := keyring.Delete(service, tokenKey(serverURL)); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		firstErr = fmt.Errorf("failed to delete token: %w", err)
	}
	if err := keyring.Delete(service, userKey(serverURL)); err != nil && !errors.Is(err, keyring.ErrNotFound) && firstErr == nil {
		firstErr = fmt.Errorf("failed to delete user: %w", err)
	}

	return firstErr
}

func (k *Keyring) Token(serverURL string) (string, error) {
	return storeToken(k, serverURL)
}

// storeToken derives the pipeline's token view from the pair semantics of Get
func storeToken(s Store, serverURL string) (string, error) {
	rec, ok, err := s.Get(serverURL)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", nil
	}
	return rec.Token, nil
}
