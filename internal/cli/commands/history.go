package commands

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/adityasawant2/idcarddetection/internal/cli/history"
)

type historyOptions struct {
	dbPath  string
	out     io.Writer
	envOpts []EnvOption
}

// HistoryOption customizes runHistory; tests point it at a temp database
type HistoryOption func(*historyOptions)

// WithHistoryPath overrides the history database location
func WithHistoryPath(path string) HistoryOption {
	return func(o *historyOptions) {
		o.dbPath = path
	}
}

// WithHistoryOutput redirects output
func WithHistoryOutput(out io.Writer) HistoryOption {
	return func(o *historyOptions) {
		o.out = out
	}
}

// WithHistoryEnv forwards env options for server resolution
func WithHistoryEnv(opts ...EnvOption) HistoryOption {
	return func(o *historyOptions) {
		o.envOpts = opts
	}
}

// NewHistoryCmd creates the history command
func NewHistoryCmd() *cobra.Command {
	var limit int
	var serverAlias string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show locally recorded verification results",
		Long: `Show locally recorded verification results.

This reads the local cache written by 'idverify verify'; it never
contacts the server. Use 'idverify logs' for the server-side record.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(limit, WithHistoryEnv(WithServerAlias(serverAlias)))
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Number of entries to show")
	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias (uses selected server if not specified)")

	return cmd
}

func runHistory(limit int, opts ...HistoryOption) error {
	o := historyOptions{out: os.Stdout}
	for _, opt := range opts {
		opt(&o)
	}

	e, err := newEnv(o.envOpts...)
	if err != nil {
		return err
	}

	path := o.dbPath
	if path == "" {
		path, err = history.DefaultPath()
		if err != nil {
			return err
		}
	}

	db, err := history.Open(path)
	if err != nil {
		return err
	}

	entries, err := db.Recent(e.Server.URL, limit)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Fprintf(o.out, "No local history for %s.\n", e.Server.URL)
		return nil
	}

	w := tabwriter.NewWriter(o.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tID NUMBER\tRESULT\tCONFIDENCE\tIMAGE")
	fmt.Fprintln(w, "────\t─────────\t──────\t──────────\t─────")
	for _, entry := range entries {
		id := entry.IDNumber
		if id == "" {
			id = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%.1f%%\t%s\n",
			entry.CreatedAt.Format("2006-01-02 15:04"),
			id,
			entry.Result,
			entry.Confidence,
			entry.ImagePath,
		)
	}
	return w.Flush()
}
