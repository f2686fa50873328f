// Package router maps session state to the reachable screen graph. It is a
// pure function of (status, role); it never consults the approval flag,
// since approval gating already happened at login.
package router

import (
	"github.com/adityasawant2/idcarddetection/internal/cli/api"
	"github.com/adityasawant2/idcarddetection/internal/cli/session"
)

// Graph identifies one of the four reachable screen graphs
type Graph int

const (
	// GraphLoading is shown while the stored session is being restored
	GraphLoading Graph = iota
	// GraphAnonymous is the unauthenticated flow
	GraphAnonymous
	// GraphOfficer is the police flow
	GraphOfficer
	// GraphAdmin is the administrator flow
	GraphAdmin
)

func (g Graph) String() string {
	switch g {
	case GraphLoading:
		return "loading"
	case GraphAnonymous:
		return "anonymous"
	case GraphOfficer:
		return "officer"
	case GraphAdmin:
		return "admin"
	default:
		return "unknown"
	}
}

// Screen is a navigable destination and the CLI command that opens it
type Screen struct {
	Name    string
	Command string
}

// Route selects the screen graph for a session. The mapping is total: every
// (status, role) combination yields exactly one graph. An authenticated
// session with an unrecognized role gets the unauthenticated graph rather
// than guessing at privileges.
func Route(s session.Session) Graph {
	switch s.Status {
	case session.StatusUnknown:
		return GraphLoading
	case session.StatusAuthenticated:
		switch s.Role() {
		case api.RoleAdmin:
			return GraphAdmin
		case api.RolePolice:
			return GraphOfficer
		default:
			return GraphAnonymous
		}
	default:
		return GraphAnonymous
	}
}

// Screens returns the navigable screens of a graph. The loading graph has
// none; nothing is reachable until restore resolves.
func (g Graph) Screens() []Screen {
	switch g {
	case GraphAnonymous:
		return []Screen{
			{Name: "Login", Command: "idverify login"},
			{Name: "Register", Command: "idverify register"},
			{Name: "Pending approval info", Command: "idverify register --help"},
		}
	case GraphOfficer:
		return []Screen{
			{Name: "Dashboard", Command: "idverify whoami"},
			{Name: "Submit document", Command: "idverify verify <image>"},
			{Name: "My verification history", Command: "idverify logs"},
		}
	case GraphAdmin:
		return []Screen{
			{Name: "Dashboard", Command: "idverify whoami"},
			{Name: "Pending approvals", Command: "idverify pending"},
			{Name: "All verification logs", Command: "idverify logs --all"},
			{Name: "User roster", Command: "idverify users"},
		}
	default:
		return nil
	}
}
