package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/adityasawant2/idcarddetection/internal/cli/api"
	"github.com/adityasawant2/idcarddetection/internal/cli/history"
	"github.com/adityasawant2/idcarddetection/internal/cli/router"
)

// NewVerifyCmd creates the verify command
func NewVerifyCmd() *cobra.Command {
	var psm, oem int
	var metadata, serverAlias string
	var noHistory bool

	cmd := &cobra.Command{
		Use:   "verify <image>",
		Short: "Submit an ID document image for verification",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(args[0], psm, oem, metadata, noHistory, WithServerAlias(serverAlias))
		},
	}

	cmd.Flags().IntVar(&psm, "psm", 6, "Tesseract page segmentation mode")
	cmd.Flags().IntVar(&oem, "oem", 3, "Tesseract OCR engine mode")
	cmd.Flags().StringVar(&metadata, "metadata", "", "Extra request metadata as JSON")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "Skip recording the result locally")
	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias (uses selected server if not specified)")

	return cmd
}

func runVerify(imagePath string, psm, oem int, metadata string, noHistory bool, opts ...EnvOption) error {
	e, err := newEnv(opts...)
	if err != nil {
		return err
	}

	// Document submission lives in the officer graph only
	if _, err := e.requireGraph(router.GraphOfficer); err != nil {
		return err
	}

	var meta map[string]any
	if metadata != "" {
		if err := json.Unmarshal([]byte(metadata), &meta); err != nil {
			return fmt.Errorf("invalid --metadata JSON: %w", err)
		}
	}

	file, err := os.Open(imagePath)
	if err != nil {
		return fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	result, err := e.Client.Verify(filepath.Base(imagePath), file, api.VerifyOptions{
		PSM:      psm,
		OEM:      oem,
		Metadata: meta,
	})
	if err != nil {
		return err
	}

	printVerification(result)

	if !noHistory {
		recordHistory(e.Server.URL, imagePath, result)
	}

	return nil
}

func printVerification(result *api.VerificationResponse) {
	fmt.Printf("ID number:  %s\n", result.IDNumber)
	fmt.Printf("Result:     %s\n", result.Verification)
	fmt.Printf("Confidence: %.1f%%\n", result.Confidence)
	if result.ImageSimilarity != nil {
		fmt.Printf("Face match: %.1f%%\n", *result.ImageSimilarity)
	}
	for field, value := range result.ParsedFields {
		fmt.Printf("  %s: %v\n", field, value)
	}
	for _, e := range result.Errors {
		fmt.Printf("⚠ %s\n", e)
	}
}

// recordHistory is best effort; a broken local cache never fails a check
func recordHistory(serverURL, imagePath string, result *api.VerificationResponse) {
	path, err := history.DefaultPath()
	if err != nil {
		fmt.Printf("Warning: failed to record history: %v\n", err)
		return
	}

	db, err := history.Open(path)
	if err != nil {
		fmt.Printf("Warning: failed to record history: %v\n", err)
		return
	}

	entry := &history.Entry{
		ServerURL:       serverURL,
		IDNumber:        result.IDNumber,
		Result:          result.Verification,
		Confidence:      result.Confidence,
		ImageSimilarity: result.ImageSimilarity,
		ImagePath:       imagePath,
	}
	if err := db.Record(entry); err != nil {
		fmt.Printf("Warning: failed to record history: %v\n", err)
	}
}
