package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/committee-minutes/internal/infrastructure"
	"github.com/jonathan/committee-minutes/internal/observability"
	"github.com/jonathan/committee-minutes/internal/parsing"
	"github.com/jonathan/committee-minutes/internal/schemas"
	"github.com/jonathan/committee-minutes/internal/types"
)

var parseMinutesCmd = &cobra.Command{
	Use:   "parse-minutes FILE [FILE...]",
	Short: "Parse one or more minutes documents (.docx) into JSON",
	Long: "Parse committee minutes into agenda items, minute entries and attendees. " +
		"Several files are parsed concurrently; every file is reported even when some fail.",
	Args: cobra.MinimumNArgs(1),
	RunE: runParseMinutes,
}

var (
	parseOutputFile string
	parseValidate   bool
	parseAgendaFile string
	parseJobs       int
)

func init() {
	parseMinutesCmd.Flags().StringVarP(&parseOutputFile, "out", "o", "", "Path to output JSON file (default stdout)")
	parseMinutesCmd.Flags().BoolVar(&parseValidate, "validate", false, "Validate the output against the parsed meeting schema")
	parseMinutesCmd.Flags().StringVar(&parseAgendaFile, "agenda", "", "Agenda JSON to match the parsed items against (single file only)")
	parseMinutesCmd.Flags().IntVar(&parseJobs, "jobs", parsing.DefaultBatchLimit, "Number of files parsed concurrently")

	rootCmd.AddCommand(parseMinutesCmd)
}

// parsedFile is one entry of a batch parse.
type parsedFile struct {
	File   string                   `json:"file"`
	Parsed *types.ParsedMeetingData `json:"parsed,omitempty"`
	Error  string                   `json:"error,omitempty"`
}

// agendaMatch is the output of a parse with --agenda.
type agendaMatch struct {
	Parsed  *types.ParsedMeetingData `json:"parsed"`
	Matches types.MatchResponse      `json:"matches"`
}

func runParseMinutes(cmd *cobra.Command, args []string) error {
	if parseAgendaFile != "" && len(args) != 1 {
		return fmt.Errorf("--agenda requires exactly one minutes file")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)
	parser := infrastructure.NewParser(cfg, log)

	results := parseFiles(cmd.Context(), parser, args, parseJobs, parseValidate)

	failed := 0
	for _, r := range results {
		if r.Error != "" {
			failed++
			log.Error("failed to parse minutes", "file", r.File, "error", r.Error)
			continue
		}
		if cfg.Verbose {
			observability.NewPrinter(cmd.ErrOrStderr()).PrintParsedMeeting(r.File, r.Parsed)
		}
	}

	switch {
	case len(results) > 1:
		if err := writeJSON(cmd.OutOrStdout(), parseOutputFile, results); err != nil {
			return err
		}
	case failed > 0:
		return fmt.Errorf("%s: %s", results[0].File, results[0].Error)
	case parseAgendaFile != "":
		existing, err := readAgenda(parseAgendaFile)
		if err != nil {
			return err
		}
		parsed := results[0].Parsed
		matches := parsing.MatchPVToAgenda(parsed.AgendaItems, existing)
		if cfg.Verbose {
			observability.NewPrinter(cmd.ErrOrStderr()).PrintMatches(existing, matches, len(parsed.AgendaItems))
		}
		out := agendaMatch{
			Parsed:  parsed,
			Matches: types.MatchResponse{Matches: matches, Unmatched: len(parsed.AgendaItems) - len(matches)},
		}
		if err := writeJSON(cmd.OutOrStdout(), parseOutputFile, out); err != nil {
			return err
		}
	default:
		if err := writeJSON(cmd.OutOrStdout(), parseOutputFile, results[0].Parsed); err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed to parse", failed, len(results))
	}
	return nil
}

// parseFiles parses every path with at most jobs workers. Results keep the
// order of paths; a failure is recorded on its entry and does not stop the
// others.
func parseFiles(ctx context.Context, parser *parsing.Parser, paths []string, jobs int, validate bool) []parsedFile {
	if ctx == nil {
		ctx = context.Background()
	}
	results := make([]parsedFile, len(paths))

	raws := make([]types.RawDocument, 0, len(paths))
	readable := make([]int, 0, len(paths))
	for i, path := range paths {
		results[i].File = path
		raw, err := readRawDocument(path, "")
		if err != nil {
			results[i].Error = err.Error()
			continue
		}
		raws = append(raws, raw)
		readable = append(readable, i)
	}

	for j, r := range parser.ParseBatch(ctx, raws, jobs) {
		entry := &results[readable[j]]
		switch {
		case r.Err != nil:
			entry.Error = r.Err.Error()
		case validate:
			if err := schemas.ValidateParsedMeeting(r.Parsed); err != nil {
				entry.Error = fmt.Sprintf("output does not validate against schema: %v", err)
				continue
			}
			entry.Parsed = r.Parsed
		default:
			entry.Parsed = r.Parsed
		}
	}
	return results
}
