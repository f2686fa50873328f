package commands

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/adityasawant2/idcarddetection/internal/cli/router"
	"github.com/adityasawant2/idcarddetection/internal/cli/session"
)

type dashOptions struct {
	session *session.Session
	out     io.Writer
	envOpts []EnvOption
}

// DashOption customizes runDash; tests inject a session
type DashOption func(*dashOptions)

// WithDashSession injects the session instead of restoring one
func WithDashSession(s session.Session) DashOption {
	return func(o *dashOptions) {
		o.session = &s
	}
}

// WithDashOutput redirects output
func WithDashOutput(out io.Writer) DashOption {
	return func(o *dashOptions) {
		o.out = out
	}
}

// WithDashEnv forwards env options when the session is restored internally
func WithDashEnv(opts ...EnvOption) DashOption {
	return func(o *dashOptions) {
		o.envOpts = opts
	}
}

// NewDashCmd creates the dash command
func NewDashCmd() *cobra.Command {
	var serverAlias string

	cmd := &cobra.Command{
		Use:   "dash",
		Short: "Show the screens available to the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDash(WithDashEnv(WithServerAlias(serverAlias)))
		},
	}

	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias (uses selected server if not specified)")

	return cmd
}

func runDash(opts ...DashOption) error {
	o := dashOptions{out: os.Stdout}
	for _, opt := range opts {
		opt(&o)
	}

	s := session.Session{}
	if o.session != nil {
		s = *o.session
	} else {
		e, err := newEnv(o.envOpts...)
		if err != nil {
			return err
		}
		s = e.Session.Restore()
	}

	graph := router.Route(s)

	switch graph {
	case router.GraphAnonymous:
		fmt.Fprintln(o.out, "Not logged in.")
	case router.GraphOfficer, router.GraphAdmin:
		fmt.Fprintf(o.out, "Logged in as %s (%s)\n", s.User.Name, s.User.Role)
	}
	fmt.Fprintf(o.out, "Access level: %s\n\n", graph)

	screens := graph.Screens()
	if len(screens) == 0 {
		fmt.Fprintln(o.out, "No screens available.")
		return nil
	}

	w := tabwriter.NewWriter(o.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCREEN\tCOMMAND")
	fmt.Fprintln(w, "──────\t───────")
	for _, screen := range screens {
		fmt.Fprintf(w, "%s\t%s\n", screen.Name, screen.Command)
	}
	return w.Flush()
}
