package commands

import (
	"fmt"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/adityasawant2/idcarddetection/internal/cli/validate"
)

// NewRegisterCmd creates the register command
func NewRegisterCmd() *cobra.Command {
	var email, password, name, phone, serverAlias string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Request a new police account",
		Long: `Request a new police account on the selected server.

The account must be approved by an administrator before it can log in.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegister(email, password, name, phone, WithServerAlias(serverAlias))
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&name, "name", "", "Full name")
	cmd.Flags().StringVar(&phone, "phone", "", "Phone number (optional)")
	cmd.Flags().StringVar(&password, "password", "", "Password (will prompt if not provided)")
	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias (uses selected server if not specified)")

	return cmd
}

func runRegister(email, password, name, phone string, opts ...EnvOption) error {
	if email == "" {
		return fmt.Errorf("email is required (use --email)")
	}
	if name == "" {
		return fmt.Errorf("name is required (use --name)")
	}

	e, err := newEnv(opts...)
	if err != nil {
		return err
	}

	// Prompt for the password twice when not given on the command line
	if password == "" {
		if !term.IsTerminal(int(syscall.Stdin)) {
			return fmt.Errorf("password is required in non-interactive mode (use --password)")
		}

		fmt.Print("Password: ")
		first, err := term.ReadPassword(int(syscall.Stdin))
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Println()

		fmt.Print("Confirm password: ")
		second, err := term.ReadPassword(int(syscall.Stdin))
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Println()

		if err := validate.PasswordsMatch(string(first), string(second)); err != nil {
			return err
		}
		password = string(first)
	}

	user, err := e.Session.Register(email, password, name, phone)
	if err != nil {
		return err
	}

	fmt.Println("✓ Registration submitted!")
	fmt.Printf("  Account: %s (%s)\n", user.Name, user.Email)
	fmt.Println("\nAn administrator must approve the account before you can log in.")

	return nil
}
