package commands

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/adityasawant2/idcarddetection/internal/cli/api"
	"github.com/adityasawant2/idcarddetection/internal/cli/router"
)

// adminAPI is the slice of the API client the admin commands use
type adminAPI interface {
	UnapprovedPolice() ([]api.User, error)
	Users() ([]api.User, error)
	ApprovePolice(userID string) (*api.User, error)
	RejectPolice(userID string) error
}

type adminOptions struct {
	client  adminAPI
	out     io.Writer
	envOpts []EnvOption
}

// AdminOption customizes the admin commands; tests inject a client
type AdminOption func(*adminOptions)

// WithAdminClient injects the API client
func WithAdminClient(client adminAPI) AdminOption {
	return func(o *adminOptions) {
		o.client = client
	}
}

// WithAdminOutput redirects output
func WithAdminOutput(out io.Writer) AdminOption {
	return func(o *adminOptions) {
		o.out = out
	}
}

// WithAdminEnv forwards env options when the client is built internally
func WithAdminEnv(opts ...EnvOption) AdminOption {
	return func(o *adminOptions) {
		o.envOpts = opts
	}
}

func resolveAdmin(opts []AdminOption) (*adminOptions, error) {
	o := adminOptions{out: os.Stdout}
	for _, opt := range opts {
		opt(&o)
	}

	if o.client == nil {
		e, err := newEnv(o.envOpts...)
		if err != nil {
			return nil, err
		}
		if _, err := e.requireGraph(router.GraphAdmin); err != nil {
			return nil, err
		}
		o.client = e.Client
	}

	return &o, nil
}

// NewPendingCmd creates the pending command
func NewPendingCmd() *cobra.Command {
	var serverAlias string

	cmd := &cobra.Command{
		Use:   "pending",
		Short: "List police accounts waiting for approval",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPending(WithAdminEnv(WithServerAlias(serverAlias)))
		},
	}

	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias (uses selected server if not specified)")

	return cmd
}

func runPending(opts ...AdminOption) error {
	o, err := resolveAdmin(opts)
	if err != nil {
		return err
	}

	users, err := o.client.UnapprovedPolice()
	if err != nil {
		return err
	}

	if len(users) == 0 {
		fmt.Fprintln(o.out, "No accounts waiting for approval.")
		return nil
	}

	w := tabwriter.NewWriter(o.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tREQUESTED")
	fmt.Fprintln(w, "──\t────\t─────\t─────────")
	for _, u := range users {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", u.ID, u.Name, u.Email, u.CreatedAt.Format("2006-01-02"))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(o.out, "\nUse 'idverify approve <id>' or 'idverify reject <id>'.")
	return nil
}

// NewApproveCmd creates the approve command
func NewApproveCmd() *cobra.Command {
	var serverAlias string

	cmd := &cobra.Command{
		Use:   "approve <user-id>",
		Short: "Approve a pending police account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApprove(args[0], WithAdminEnv(WithServerAlias(serverAlias)))
		},
	}

	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias (uses selected server if not specified)")

	return cmd
}

func runApprove(userID string, opts ...AdminOption) error {
	o, err := resolveAdmin(opts)
	if err != nil {
		return err
	}

	user, err := o.client.ApprovePolice(userID)
	if err != nil {
		return err
	}

	fmt.Fprintf(o.out, "✓ Approved %s (%s)\n", user.Name, user.Email)
	return nil
}

// NewRejectCmd creates the reject command
func NewRejectCmd() *cobra.Command {
	var serverAlias string

	cmd := &cobra.Command{
		Use:   "reject <user-id>",
		Short: "Reject and remove a pending police account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReject(args[0], WithAdminEnv(WithServerAlias(serverAlias)))
		},
	}

	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias (uses selected server if not specified)")

	return cmd
}

func runReject(userID string, opts ...AdminOption) error {
	o, err := resolveAdmin(opts)
	if err != nil {
		return err
	}

	if err := o.client.RejectPolice(userID); err != nil {
		return err
	}

	fmt.Fprintf(o.out, "✓ Rejected account %s\n", userID)
	return nil
}

// NewUsersCmd creates the users command
func NewUsersCmd() *cobra.Command {
	var serverAlias string

	cmd := &cobra.Command{
		Use:   "users",
		Short: "List all accounts on the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUsers(WithAdminEnv(WithServerAlias(serverAlias)))
		},
	}

	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias (uses selected server if not specified)")

	return cmd
}

func runUsers(opts ...AdminOption) error {
	o, err := resolveAdmin(opts)
	if err != nil {
		return err
	}

	users, err := o.client.Users()
	if err != nil {
		return err
	}

	if len(users) == 0 {
		fmt.Fprintln(o.out, "No accounts found.")
		return nil
	}

	w := tabwriter.NewWriter(o.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tROLE\tAPPROVED\tCREATED")
	fmt.Fprintln(w, "──\t────\t─────\t────\t────────\t───────")
	for _, u := range users {
		approved := "yes"
		if !u.IsApproved {
			approved = "no"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			u.ID, u.Name, u.Email, u.Role, approved, u.CreatedAt.Format("2006-01-02"))
	}
	return w.Flush()
}
