package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewLogoutCmd creates the logout command
func NewLogoutCmd() *cobra.Command {
	var serverAlias string

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Discard the stored session for the selected server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogout(WithServerAlias(serverAlias))
		},
	}

	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias (uses selected server if not specified)")

	return cmd
}

func runLogout(opts ...EnvOption) error {
	e, err := newEnv(opts...)
	if err != nil {
		return err
	}

	e.Session.Restore()

	// Logout fails open: the in-memory session drops even if the store
	// cannot be cleared, so a clear failure is only a warning.
	if err := e.Session.Logout(); err != nil {
		fmt.Printf("Warning: %v\n", err)
	}

	fmt.Printf("✓ Logged out of %s (%s)\n", e.Server.Alias, e.Server.URL)
	return nil
}
