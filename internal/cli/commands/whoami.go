package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewWhoamiCmd creates the whoami command
func NewWhoamiCmd() *cobra.Command {
	var serverAlias string

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWhoami(WithServerAlias(serverAlias))
		},
	}

	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias (uses selected server if not specified)")

	return cmd
}

func runWhoami(opts ...EnvOption) error {
	e, err := newEnv(opts...)
	if err != nil {
		return err
	}

	s, _, err := e.requireAuthenticated()
	if err != nil {
		return err
	}

	fmt.Printf("Logged in to %s (%s)\n", e.Server.Alias, e.Server.URL)
	fmt.Printf("  User:  %s (%s)\n", s.User.Name, s.User.Email)
	fmt.Printf("  Role:  %s\n", s.User.Role)
	if s.User.Phone != "" {
		fmt.Printf("  Phone: %s\n", s.User.Phone)
	}
	fmt.Printf("  Since: %s\n", s.User.CreatedAt.Format("2006-01-02"))

	return nil
}
