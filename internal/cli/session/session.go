// Package session owns the client's authentication state. The Controller is
// the only writer of session state and the only component that touches the
// credential store during transitions; everything else reads snapshots via
// Current or invokes the Controller's operations.
package session

import (
	"github.com/adityasawant2/idcarddetection/internal/cli/api"
)

// Status is the authentication state of the client
type Status string

const (
	// StatusUnknown means the stored session has not been restored yet.
	// It is the initial state and is never re-entered once left.
	StatusUnknown Status = "unknown"
	// StatusAnonymous means no valid credential is held
	StatusAnonymous Status = "anonymous"
	// StatusAuthenticated means a user profile and bearer token are held
	StatusAuthenticated Status = "authenticated"
)

// Session is a snapshot of the authentication state. User and Token are
// both set when Status is StatusAuthenticated and both empty otherwise.
type Session struct {
	Status Status
	User   *api.User
	Token  string
}

// Authenticated reports whether the session holds a live credential
func (s Session) Authenticated() bool {
	return s.Status == StatusAuthenticated
}

// Role returns the authenticated user's role, or "" when anonymous
func (s Session) Role() api.Role {
	if s.User == nil {
		return ""
	}
	return s.User.Role
}
