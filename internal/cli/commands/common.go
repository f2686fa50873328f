package commands

import (
	"fmt"

	"github.com/adityasawant2/idcarddetection/internal/cli/api"
	"github.com/adityasawant2/idcarddetection/internal/cli/config"
	"github.com/adityasawant2/idcarddetection/internal/cli/credstore"
	"github.com/adityasawant2/idcarddetection/internal/cli/router"
	"github.com/adityasawant2/idcarddetection/internal/cli/serverselect"
	"github.com/adityasawant2/idcarddetection/internal/cli/session"
)

// env bundles the per-server wiring shared by every command: credential
// store, API client, and session controller, with the pipeline's
// invalidation callback connected to the controller.
type env struct {
	Server  *config.Server
	Store   credstore.Store
	Client  *api.Client
	Session *session.Controller
}

type envOptions struct {
	serverAlias string
	server      *config.Server
	store       credstore.Store
}

// EnvOption customizes env construction; tests inject servers and stores
type EnvOption func(*envOptions)

// WithServerAlias picks a server from the project config by alias
func WithServerAlias(alias string) EnvOption {
	return func(o *envOptions) {
		o.serverAlias = alias
	}
}

// WithServer bypasses config loading entirely
func WithServer(server *config.Server) EnvOption {
	return func(o *envOptions) {
		o.server = server
	}
}

// WithStore replaces the OS keyring store
func WithStore(store credstore.Store) EnvOption {
	return func(o *envOptions) {
		o.store = store
	}
}

func newEnv(opts ...EnvOption) (*env, error) {
	var o envOptions
	for _, opt := range opts {
		opt(&o)
	}

	server := o.server
	if server == nil {
		cfg, err := config.LoadFromCurrentDir()
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w\nRun 'idverify init' to create a configuration file", err)
		}

		server, err = serverselect.ResolveServer(cfg, o.serverAlias)
		if err != nil {
			return nil, err
		}
	}

	if server.URL == "" {
		return nil, fmt.Errorf("server URL is empty. Please edit %s and add a valid URL", config.ConfigFileName)
	}

	store := o.store
	if store == nil {
		store = credstore.NewKeyring()
	}

	client := api.New(server.URL, store)
	if server.Insecure {
		client.SetInsecure()
	}

	ctrl := session.NewController(store, client, server.URL)
	// The one edge from the request pipeline back into session state
	client.OnUnauthorized(ctrl.Invalidate)

	return &env{
		Server:  server,
		Store:   store,
		Client:  client,
		Session: ctrl,
	}, nil
}

// requireGraph restores the session and checks that the requested screen
// graph is the one routing selects; commands gate themselves the same way
// the dashboard renders.
func (e *env) requireGraph(want router.Graph) (session.Session, error) {
	s := e.Session.Restore()
	got := router.Route(s)
	if got == want {
		return s, nil
	}

	switch got {
	case router.GraphAnonymous:
		return s, fmt.Errorf("not logged in. Run 'idverify login' first")
	default:
		return s, fmt.Errorf("this command requires %s access (current: %s)", want, got)
	}
}

// requireAuthenticated restores the session and accepts either
// authenticated graph
func (e *env) requireAuthenticated() (session.Session, router.Graph, error) {
	s := e.Session.Restore()
	g := router.Route(s)
	if g != router.GraphOfficer && g != router.GraphAdmin {
		return s, g, fmt.Errorf("not logged in. Run 'idverify login' first")
	}
	return s, g, nil
}
