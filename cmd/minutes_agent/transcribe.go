package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/committee-minutes/internal/config"
	"github.com/jonathan/committee-minutes/internal/infrastructure"
	"github.com/jonathan/committee-minutes/internal/llm"
	"github.com/jonathan/committee-minutes/internal/observability"
	"github.com/jonathan/committee-minutes/internal/transcription"
	"github.com/jonathan/committee-minutes/internal/types"
)

var transcribeCmd = &cobra.Command{
	Use:   "transcribe AUDIO",
	Short: "Transcribe a meeting recording",
	Long: "Transcribe a recording with Gemini. With --meeting the recording and transcript are stored on that meeting " +
		"and its agenda is given to the model as context; otherwise only the transcript is printed.",
	Args: cobra.ExactArgs(1),
	RunE: runTranscribe,
}

var (
	transcribeMeetingID  string
	transcribeTitle      string
	transcribeAgendaFile string
	transcribeMIMEType   string
	transcribeAPIKey     string
	transcribeOutputFile string
)

func init() {
	transcribeCmd.Flags().StringVar(&transcribeMeetingID, "meeting", "", "Meeting ID to attach the recording and transcript to")
	transcribeCmd.Flags().StringVar(&transcribeTitle, "title", "", "Meeting title given to the model (without --meeting)")
	transcribeCmd.Flags().StringVar(&transcribeAgendaFile, "agenda", "", "Agenda JSON given to the model (without --meeting)")
	transcribeCmd.Flags().StringVar(&transcribeMIMEType, "mime-type", "", "Audio media type (default: from the file extension)")
	transcribeCmd.Flags().StringVar(&transcribeAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	transcribeCmd.Flags().StringVarP(&transcribeOutputFile, "out", "o", "", "Path to output JSON file (default stdout)")

	rootCmd.AddCommand(transcribeCmd)
}

func runTranscribe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if transcribeAPIKey != "" {
		cfg.APIKey = transcribeAPIKey
	}
	if cfg.APIKey == "" {
		return fmt.Errorf("API key is required (set %s environment variable or use --api-key flag)", config.EnvAPIKey)
	}

	raw, err := readRawDocument(args[0], transcribeMIMEType)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	log := newLogger(cfg)

	var transcript *types.Transcript
	if transcribeMeetingID != "" {
		infra, err := infrastructure.New(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer infra.Close()

		transcript, err = infra.Meetings.TranscribeRecording(ctx, transcribeMeetingID, raw)
		if err != nil {
			return fmt.Errorf("failed to transcribe recording: %w", err)
		}
	} else {
		req := transcription.Request{
			Audio: llm.Media{MIMEType: raw.MIMEType, Data: raw.Content},
			Title: transcribeTitle,
		}
		if transcribeAgendaFile != "" {
			items, err := readAgenda(transcribeAgendaFile)
			if err != nil {
				return err
			}
			for _, item := range items {
				req.Agenda = append(req.Agenda, item.Title)
			}
		}

		client, err := llm.NewClient(ctx, llm.DefaultConfig(), cfg.APIKey)
		if err != nil {
			return fmt.Errorf("failed to create LLM client: %w", err)
		}
		defer func() {
			if err := client.Close(); err != nil {
				log.Warn("failed to close llm client", "error", err)
			}
		}()

		transcript, err = transcription.New(client, llm.ParseTier(cfg.Transcription.Tier)).Transcribe(ctx, req)
		if err != nil {
			return fmt.Errorf("failed to transcribe recording: %w", err)
		}
	}

	if cfg.Verbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintTranscript(transcript)
	}
	return writeJSON(cmd.OutOrStdout(), transcribeOutputFile, transcript)
}
