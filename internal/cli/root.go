package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/adityasawant2/idcarddetection/internal/cli/commands"
	"github.com/adityasawant2/idcarddetection/internal/cli/config"
	"github.com/adityasawant2/idcarddetection/internal/logger"
)

var version = "dev" // Will be set during build

var rootCmd = &cobra.Command{
	Use:   "idverify",
	Short: "idverify - Police ID verification client",
	Long: `idverify CLI - Check identity documents against the verification service.

Officers submit document images for OCR verification; administrators
approve accounts and audit the verification record.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.LoadEnv()
		logger.Init(os.Getenv("IDVERIFY_LOG_LEVEL"), os.Getenv("IDVERIFY_LOG_FORMAT"))
	},
}

func init() {
	// Add version command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("idverify version %s\n", version)
		},
	})

	// Add all subcommands
	rootCmd.AddCommand(commands.NewInitCmd())
	rootCmd.AddCommand(commands.NewSelectServerCmd())
	rootCmd.AddCommand(commands.NewLoginCmd())
	rootCmd.AddCommand(commands.NewLogoutCmd())
	rootCmd.AddCommand(commands.NewRegisterCmd())
	rootCmd.AddCommand(commands.NewWhoamiCmd())
	rootCmd.AddCommand(commands.NewDashCmd())
	rootCmd.AddCommand(commands.NewVerifyCmd())
	rootCmd.AddCommand(commands.NewLogsCmd())
	rootCmd.AddCommand(commands.NewHistoryCmd())
	rootCmd.AddCommand(commands.NewPendingCmd())
	rootCmd.AddCommand(commands.NewApproveCmd())
	rootCmd.AddCommand(commands.NewRejectCmd())
	rootCmd.AddCommand(commands.NewUsersCmd())
}

// Execute runs the root command
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
