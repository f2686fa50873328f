package commands

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/adityasawant2/idcarddetection/internal/cli/config"
	"github.com/adityasawant2/idcarddetection/internal/cli/credstore"
	"github.com/adityasawant2/idcarddetection/internal/mockapi"
)

func startBackend(t *testing.T) (*mockapi.Server, *httptest.Server) {
	t.Helper()
	backend := mockapi.New("test-secret")
	ts := httptest.NewServer(backend.Handler())
	t.Cleanup(ts.Close)
	return backend, ts
}

// TestLoginCommand_Success tests a full login against the mock backend
func TestLoginCommand_Success(t *testing.T) {
	backend, ts := startBackend(t)
	if _, err := backend.SeedOfficer("rao@example.com", "password123", "Officer Rao", true); err != nil {
		t.Fatalf("failed to seed officer: %v", err)
	}

	store := credstore.NewMemory()
	server := &config.Server{URL: ts.URL, Alias: "test-server"}

	err := runLogin("rao@example.com", "password123", WithServer(server), WithStore(store))
	if err != nil {
		t.Fatalf("expected login to succeed, got: %v", err)
	}

	// Credentials must be persisted for the next invocation
	rec, found, err := store.Get(ts.URL)
	if err != nil {
		t.Fatalf("store read failed: %v", err)
	}
	if !found {
		t.Fatal("expected credentials in the store after login")
	}
	if rec.User.Email != "rao@example.com" {
		t.Errorf("expected stored user 'rao@example.com', got '%s'", rec.User.Email)
	}
	if rec.Token == "" {
		t.Error("expected a stored token")
	}
}

// TestLoginCommand_BadCredentials tests the wrong-password path
func TestLoginCommand_BadCredentials(t *testing.T) {
	backend, ts := startBackend(t)
	if _, err := backend.SeedOfficer("rao@example.com", "password123", "Officer Rao", true); err != nil {
		t.Fatalf("failed to seed officer: %v", err)
	}

	store := credstore.NewMemory()
	server := &config.Server{URL: ts.URL, Alias: "test-server"}

	err := runLogin("rao@example.com", "wrong-pass", WithServer(server), WithStore(store))
	if err == nil {
		t.Fatal("expected login to fail")
	}

	if !store.Empty(ts.URL) {
		t.Error("expected no credentials stored after a failed login")
	}
}

// TestLoginCommand_UnapprovedAccount tests that a pending account cannot log in
func TestLoginCommand_UnapprovedAccount(t *testing.T) {
	backend, ts := startBackend(t)
	if _, err := backend.SeedOfficer("new@example.com", "password123", "New Officer", false); err != nil {
		t.Fatalf("failed to seed officer: %v", err)
	}

	store := credstore.NewMemory()
	server := &config.Server{URL: ts.URL, Alias: "test-server"}

	err := runLogin("new@example.com", "password123", WithServer(server), WithStore(store))
	if err == nil {
		t.Fatal("expected login to fail for an unapproved account")
	}
	if !strings.Contains(err.Error(), "approv") {
		t.Errorf("expected an approval-related error, got: %v", err)
	}

	if !store.Empty(ts.URL) {
		t.Error("expected no credentials stored for an unapproved account")
	}
}

// TestLoginCommand_MissingEmail tests the required-flag check
func TestLoginCommand_MissingEmail(t *testing.T) {
	t.Setenv("IDVERIFY_EMAIL", "")
	t.Setenv("IDVERIFY_PASSWORD", "")

	err := runLogin("", "", WithServer(&config.Server{URL: "http://localhost:1", Alias: "x"}))
	if err == nil {
		t.Fatal("expected error for missing email")
	}
	if !strings.Contains(err.Error(), "email is required") {
		t.Errorf("expected missing-email error, got: %v", err)
	}
}
