package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/committee-minutes/internal/infrastructure"
	"github.com/jonathan/committee-minutes/internal/meetings"
	"github.com/jonathan/committee-minutes/internal/observability"
)

var importMinutesCmd = &cobra.Command{
	Use:   "import-minutes FILE",
	Short: "Store a minutes document and merge it into a meeting",
	Long: "Upload a minutes document to the blob store, parse it and merge the result into an existing meeting " +
		"(--meeting) or create a new meeting from it.",
	Args: cobra.ExactArgs(1),
	RunE: runImportMinutes,
}

var (
	importMeetingID  string
	importOutputFile string
)

func init() {
	importMinutesCmd.Flags().StringVar(&importMeetingID, "meeting", "", "Meeting ID to merge into (default: create a new meeting)")
	importMinutesCmd.Flags().StringVarP(&importOutputFile, "out", "o", "", "Path to output JSON file (default stdout)")

	rootCmd.AddCommand(importMinutesCmd)
}

func runImportMinutes(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	raw, err := readRawDocument(args[0], "")
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	infra, err := infrastructure.New(ctx, cfg, newLogger(cfg))
	if err != nil {
		return err
	}
	defer infra.Close()

	var result *meetings.ImportResult
	if importMeetingID != "" {
		result, err = infra.Meetings.ImportMinutes(ctx, importMeetingID, raw)
	} else {
		result, err = infra.Meetings.CreateFromMinutes(ctx, raw)
	}
	if err != nil {
		return fmt.Errorf("failed to import minutes: %w", err)
	}

	if cfg.Verbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintMergeSummary(result.Meeting.ID, result.Summary)
	}
	return writeJSON(cmd.OutOrStdout(), importOutputFile, result)
}
