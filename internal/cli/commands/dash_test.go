package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/adityasawant2/idcarddetection/internal/cli/api"
	"github.com/adityasawant2/idcarddetection/internal/cli/session"
)

// TestDashCommand_Anonymous tests the unauthenticated screen listing
func TestDashCommand_Anonymous(t *testing.T) {
	var output bytes.Buffer
	err := runDash(
		WithDashSession(session.Session{Status: session.StatusAnonymous}),
		WithDashOutput(&output),
	)
	if err != nil {
		t.Fatalf("expected success, got error: %v", err)
	}

	outputStr := output.String()
	if !strings.Contains(outputStr, "Not logged in") {
		t.Errorf("expected anonymous banner, got: %s", outputStr)
	}
	if !strings.Contains(outputStr, "idverify login") {
		t.Errorf("expected login screen, got: %s", outputStr)
	}
	if strings.Contains(outputStr, "idverify verify") {
		t.Errorf("anonymous graph should not reach document submission, got: %s", outputStr)
	}
}

// TestDashCommand_Officer tests the police screen listing
func TestDashCommand_Officer(t *testing.T) {
	var output bytes.Buffer
	err := runDash(
		WithDashSession(session.Session{
			Status: session.StatusAuthenticated,
			User:   &api.User{Name: "Officer Rao", Role: api.RolePolice, IsApproved: true},
			Token:  "tok",
		}),
		WithDashOutput(&output),
	)
	if err != nil {
		t.Fatalf("expected success, got error: %v", err)
	}

	outputStr := output.String()
	if !strings.Contains(outputStr, "Officer Rao") {
		t.Errorf("expected user name, got: %s", outputStr)
	}
	if !strings.Contains(outputStr, "idverify verify") {
		t.Errorf("expected document submission screen, got: %s", outputStr)
	}
	if strings.Contains(outputStr, "idverify pending") {
		t.Errorf("officer graph should not reach approvals, got: %s", outputStr)
	}
}

// TestDashCommand_Admin tests the administrator screen listing
func TestDashCommand_Admin(t *testing.T) {
	var output bytes.Buffer
	err := runDash(
		WithDashSession(session.Session{
			Status: session.StatusAuthenticated,
			User:   &api.User{Name: "Root Admin", Role: api.RoleAdmin, IsApproved: true},
			Token:  "tok",
		}),
		WithDashOutput(&output),
	)
	if err != nil {
		t.Fatalf("expected success, got error: %v", err)
	}

	outputStr := output.String()
	if !strings.Contains(outputStr, "idverify pending") {
		t.Errorf("expected approvals screen, got: %s", outputStr)
	}
	if !strings.Contains(outputStr, "idverify logs --all") {
		t.Errorf("expected audit screen, got: %s", outputStr)
	}
}
