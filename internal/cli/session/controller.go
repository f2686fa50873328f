package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/adityasawant2/idcarddetection/internal/cli/api"
	"github.com/adityasawant2/idcarddetection/internal/cli/credstore"
	"github.com/adityasawant2/idcarddetection/internal/cli/validate"
)

// ErrNotApproved is returned by Login when the account exists but has not
// been approved by an administrator yet.
var ErrNotApproved = errors.New("account not approved yet, contact your administrator")

// AuthAPI is the slice of the API client the controller needs. It is an
// interface so tests can drive the state machine without a server.
type AuthAPI interface {
	Login(email, password string) (*api.TokenResponse, error)
	Me(token string) (*api.User, error)
	Register(reg api.RegisterRequest) (*api.User, error)
}

// Controller is the session state machine. All transitions go through its
// methods; readers get consistent snapshots from Current.
type Controller struct {
	mu        sync.RWMutex
	current   Session
	store     credstore.Store
	client    AuthAPI
	serverURL string
	log       zerolog.Logger
}

// NewController returns a controller in the StatusUnknown state
func NewController(store credstore.Store, client AuthAPI, serverURL string) *Controller {
	return &Controller{
		current:   Session{Status: StatusUnknown},
		store:     store,
		client:    client,
		serverURL: serverURL,
		log:       log.With().Str("component", "session").Logger(),
	}
}

// Current returns a snapshot of the session. The snapshot is a copy; a
// reader can never observe state from before a completed transition.
func (c *Controller) Current() Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Session {
	s := Session{Status: c.current.Status, Token: c.current.Token}
	if c.current.User != nil {
		user := *c.current.User
		s.User = &user
	}
	return s
}

// set replaces the session in one step, after all preceding I/O resolved
func (c *Controller) set(s Session) {
	c.mu.Lock()
	c.current = s
	c.mu.Unlock()
}

// Restore loads the persisted session, once. A missing, half-written, or
// unreadable credential pair falls back to anonymous; StatusUnknown is
// never re-entered afterwards.
func (c *Controller) Restore() Session {
	c.mu.RLock()
	started := c.current.Status != StatusUnknown
	c.mu.RUnlock()
	if started {
		return c.Current()
	}

	rec, ok, err := c.store.Get(c.serverURL)
	if err != nil {
		c.log.Warn().Err(err).Msg("credential store unreadable, starting anonymous")
		ok = false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// Another task may have finished restoring while we read the store
	if c.current.Status != StatusUnknown {
		return c.snapshotLocked()
	}

	if ok {
		user := rec.User
		c.current = Session{Status: StatusAuthenticated, User: &user, Token: rec.Token}
		c.log.Debug().Str("email", user.Email).Msg("session restored")
	} else {
		c.current = Session{Status: StatusAnonymous}
		c.log.Debug().Msg("no stored session")
	}

	return c.snapshotLocked()
}

// Login exchanges credentials for a bearer token and fetches the profile it
// belongs to. Both calls must succeed; the pair is persisted before the
// in-memory session is updated, so a reader of the store is never ahead of
// a reader of memory. On any failure the session is left untouched and
// nothing is persisted.
func (c *Controller) Login(email, password string) error {
	if err := validate.Login(email, password); err != nil {
		return err
	}

	c.Restore()

	tok, err := c.client.Login(email, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	user, err := c.client.Me(tok.AccessToken)
	if err != nil {
		// The token just obtained is discarded with the failure
		return fmt.Errorf("failed to fetch profile: %w", err)
	}

	if !user.IsApproved {
		return ErrNotApproved
	}

	rec := credstore.Record{User: *user, Token: tok.AccessToken}
	if err := c.store.Set(c.serverURL, rec); err != nil {
		// Remove any half-written pair; the transition is aborted whole
		_ = c.store.Clear(c.serverURL)
		return fmt.Errorf("failed to save session: %w", err)
	}

	c.set(Session{Status: StatusAuthenticated, User: user, Token: tok.AccessToken})
	c.log.Info().Str("email", user.Email).Str("role", string(user.Role)).Msg("logged in")

	return nil
}

// Register submits a new police account request. It never mutates the
// session; the account needs separate admin approval before it can log in.
func (c *Controller) Register(email, password, name, phone string) (*api.User, error) {
	reg := validate.Registration{
		Email:    email,
		Password: password,
		Name:     name,
		Phone:    phone,
	}
	if err := validate.Register(reg); err != nil {
		return nil, err
	}

	user, err := c.client.Register(api.RegisterRequest{
		Email:    email,
		Password: password,
		Name:     name,
		Phone:    phone,
	})
	if err != nil {
		return nil, fmt.Errorf("registration failed: %w", err)
	}

	return user, nil
}

// Logout clears the stored credential pair and drops the in-memory session.
// The in-memory transition happens even if clearing fails; logout fails
// open toward the less privileged state. The clear error, if any, is
// returned for reporting.
func (c *Controller) Logout() error {
	err := c.store.Clear(c.serverURL)

	c.set(Session{Status: StatusAnonymous})
	c.log.Info().Msg("logged out")

	if err != nil {
		return fmt.Errorf("failed to clear stored credentials: %w", err)
	}
	return nil
}

// Invalidate transitions to anonymous after the request pipeline saw the
// credential rejected. The pipeline has already cleared the store; this is
// the single documented edge from the pipeline into session state.
func (c *Controller) Invalidate() {
	c.mu.Lock()
	wasAuthenticated := c.current.Status == StatusAuthenticated
	c.current = Session{Status: StatusAnonymous}
	c.mu.Unlock()

	if wasAuthenticated {
		c.log.Warn().Msg("session invalidated by server, credentials discarded")
	}
}
