package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/committee-minutes/internal/observability"
	"github.com/jonathan/committee-minutes/internal/parsing"
	"github.com/jonathan/committee-minutes/internal/schemas"
	"github.com/jonathan/committee-minutes/internal/types"
)

var matchAgendaCmd = &cobra.Command{
	Use:   "match-agenda",
	Short: "Match parsed minutes against an existing agenda by title",
	Long:  "Bind the agenda items of a parse-minutes output to the items of an existing agenda whose titles describe the same topic.",
	RunE:  runMatchAgenda,
}

var (
	matchParsedFile string
	matchAgendaFile string
	matchOutputFile string
	matchValidate   bool
)

func init() {
	matchAgendaCmd.Flags().StringVar(&matchParsedFile, "parsed", "", "Path to parse-minutes JSON output (required)")
	matchAgendaCmd.Flags().StringVar(&matchAgendaFile, "agenda", "", "Path to agenda JSON: an array of agenda items or a meeting (required)")
	matchAgendaCmd.Flags().BoolVar(&matchValidate, "validate", false, "Validate both input files against their schemas before matching")
	matchAgendaCmd.Flags().StringVarP(&matchOutputFile, "out", "o", "", "Path to output JSON file (default stdout)")

	_ = matchAgendaCmd.MarkFlagRequired("parsed")
	_ = matchAgendaCmd.MarkFlagRequired("agenda")

	rootCmd.AddCommand(matchAgendaCmd)
}

func runMatchAgenda(cmd *cobra.Command, _ []string) error {
	if matchValidate {
		if err := validateJSONFile(matchParsedFile, schemas.ParsedMeeting); err != nil {
			return err
		}
	}
	var parsed types.ParsedMeetingData
	if err := readJSONFile(matchParsedFile, &parsed); err != nil {
		return err
	}
	existing, err := readAgenda(matchAgendaFile)
	if err != nil {
		return err
	}
	if matchValidate {
		if err := schemas.Validate(schemas.Agenda, existing); err != nil {
			return fmt.Errorf("%s does not validate against schema: %w", matchAgendaFile, err)
		}
	}

	req := types.MatchRequest{Parsed: parsed.AgendaItems, Existing: existing}
	if err := req.Validate(); err != nil {
		return fmt.Errorf("nothing to match: %w", err)
	}

	matches := parsing.MatchPVToAgenda(req.Parsed, req.Existing)
	if verbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintMatches(existing, matches, len(req.Parsed))
	}

	return writeJSON(cmd.OutOrStdout(), matchOutputFile, types.MatchResponse{
		Matches:   matches,
		Unmatched: len(req.Parsed) - len(matches),
	})
}
