package commands

import (
	"errors"
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/adityasawant2/idcarddetection/internal/cli/api"
	"github.com/adityasawant2/idcarddetection/internal/cli/session"
)

// NewLoginCmd creates the login command
func NewLoginCmd() *cobra.Command {
	var email, password, serverAlias string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate with a verification backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(email, password, WithServerAlias(serverAlias))
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address (or set IDVERIFY_EMAIL)")
	cmd.Flags().StringVar(&password, "password", "", "Password (or set IDVERIFY_PASSWORD, will prompt if not provided)")
	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias (uses selected server if not specified)")

	return cmd
}

func runLogin(email, password string, opts ...EnvOption) error {
	// Check for environment variables (useful for CI/CD)
	if email == "" {
		email = os.Getenv("IDVERIFY_EMAIL")
	}
	if password == "" {
		password = os.Getenv("IDVERIFY_PASSWORD")
	}

	if email == "" {
		return fmt.Errorf("email is required (use --email flag or IDVERIFY_EMAIL env var)")
	}

	e, err := newEnv(opts...)
	if err != nil {
		return err
	}

	// Prompt for password if not provided via flag or env var
	if password == "" {
		if term.IsTerminal(int(syscall.Stdin)) {
			fmt.Print("Password: ")
			bytePassword, err := term.ReadPassword(int(syscall.Stdin))
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}
			password = string(bytePassword)
			fmt.Println()
		} else {
			return fmt.Errorf("password is required in non-interactive mode (use --password flag or IDVERIFY_PASSWORD env var)")
		}
	}

	fmt.Printf("Logging in to %s (%s)...\n", e.Server.Alias, e.Server.URL)

	if err := e.Session.Login(email, password); err != nil {
		if errors.Is(err, session.ErrNotApproved) {
			return fmt.Errorf("login failed: your account is awaiting administrator approval")
		}
		if apiErr, ok := api.AsAPIError(err); ok && apiErr.Forbidden() {
			return fmt.Errorf("login failed: %s", apiErr.Detail)
		}
		return err
	}

	s := e.Session.Current()
	fmt.Println("✓ Login successful!")
	fmt.Printf("  User: %s (%s)\n", s.User.Name, s.User.Email)
	if s.User.Role == api.RoleAdmin {
		fmt.Println("  Role: Admin")
	}

	return nil
}
