package commands

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/adityasawant2/idcarddetection/internal/cli/api"
	"github.com/adityasawant2/idcarddetection/internal/cli/router"
)

// logsAPI is the slice of the API client the logs command uses
type logsAPI interface {
	Logs(limit, offset int) ([]api.LogRecord, error)
	AdminLogs(filter api.LogFilter) ([]api.LogRecord, error)
}

type logsOptions struct {
	client  logsAPI
	graph   router.Graph
	out     io.Writer
	envOpts []EnvOption
}

// LogsOption customizes runLogs; tests inject a client and graph
type LogsOption func(*logsOptions)

// WithLogsClient injects the API client
func WithLogsClient(client logsAPI, graph router.Graph) LogsOption {
	return func(o *logsOptions) {
		o.client = client
		o.graph = graph
	}
}

// WithLogsOutput redirects output
func WithLogsOutput(out io.Writer) LogsOption {
	return func(o *logsOptions) {
		o.out = out
	}
}

// WithLogsEnv forwards env options when the client is built internally
func WithLogsEnv(opts ...EnvOption) LogsOption {
	return func(o *logsOptions) {
		o.envOpts = opts
	}
}

// NewLogsCmd creates the logs command
func NewLogsCmd() *cobra.Command {
	var all bool
	var result, userID, since, until, serverAlias string
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show verification history",
		Long: `Show verification history.

Officers see their own checks. Administrators can pass --all to see every
officer's checks, with optional filters.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := api.LogFilter{
				UserID:             userID,
				VerificationResult: result,
				Limit:              limit,
				Offset:             offset,
			}

			var err error
			if filter.StartDate, err = parseLogDate(since); err != nil {
				return fmt.Errorf("invalid --since date: %w", err)
			}
			if filter.EndDate, err = parseLogDate(until); err != nil {
				return fmt.Errorf("invalid --until date: %w", err)
			}

			return runLogs(all, filter, WithLogsEnv(WithServerAlias(serverAlias)))
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Show all officers' logs (admin only)")
	cmd.Flags().StringVar(&result, "result", "", "Filter by verification result: legit, fake, unknown (admin only)")
	cmd.Flags().StringVar(&userID, "user", "", "Filter by officer user ID (admin only)")
	cmd.Flags().StringVar(&since, "since", "", "Only logs on or after this date (YYYY-MM-DD, admin only)")
	cmd.Flags().StringVar(&until, "until", "", "Only logs on or before this date (YYYY-MM-DD, admin only)")
	cmd.Flags().IntVar(&limit, "limit", 50, "Number of logs to return")
	cmd.Flags().IntVar(&offset, "offset", 0, "Number of logs to skip")
	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias (uses selected server if not specified)")

	return cmd
}

func parseLogDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func runLogs(all bool, filter api.LogFilter, opts ...LogsOption) error {
	o := logsOptions{out: os.Stdout}
	for _, opt := range opts {
		opt(&o)
	}

	if o.client == nil {
		e, err := newEnv(o.envOpts...)
		if err != nil {
			return err
		}

		_, graph, err := e.requireAuthenticated()
		if err != nil {
			return err
		}
		o.client = e.Client
		o.graph = graph
	}

	admin := all || filter.UserID != "" || filter.VerificationResult != "" ||
		!filter.StartDate.IsZero() || !filter.EndDate.IsZero()
	if admin && o.graph != router.GraphAdmin {
		return fmt.Errorf("--all and the log filters require admin access")
	}

	var logs []api.LogRecord
	var err error
	if admin {
		logs, err = o.client.AdminLogs(filter)
	} else {
		logs, err = o.client.Logs(filter.Limit, filter.Offset)
	}
	if err != nil {
		return err
	}

	if len(logs) == 0 {
		fmt.Fprintln(o.out, "No verification logs found.")
		return nil
	}

	w := tabwriter.NewWriter(o.out, 0, 0, 2, ' ', 0)
	if admin {
		fmt.Fprintln(w, "TIME\tID CHECKED\tRESULT\tCONFIDENCE\tOFFICER")
		fmt.Fprintln(w, "────\t──────────\t──────\t──────────\t───────")
	} else {
		fmt.Fprintln(w, "TIME\tID CHECKED\tRESULT\tCONFIDENCE")
		fmt.Fprintln(w, "────\t──────────\t──────\t──────────")
	}

	for _, record := range logs {
		confidence := "-"
		if record.Confidence != nil {
			confidence = fmt.Sprintf("%.1f%%", *record.Confidence)
		}
		idChecked := record.DLCodeChecked
		if idChecked == "" {
			idChecked = "-"
		}

		if admin {
			officer := record.PoliceUserID
			if record.PoliceUser != nil {
				officer = record.PoliceUser.Name
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				record.CreatedAt.Format("2006-01-02 15:04"),
				idChecked,
				record.VerificationResult,
				confidence,
				officer,
			)
		} else {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				record.CreatedAt.Format("2006-01-02 15:04"),
				idChecked,
				record.VerificationResult,
				confidence,
			)
		}
	}

	return w.Flush()
}
