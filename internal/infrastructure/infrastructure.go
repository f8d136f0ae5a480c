// Package infrastructure assembles the database, blob store, parser and
// model client that the meeting service needs.
package infrastructure

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jonathan/committee-minutes/internal/config"
	"github.com/jonathan/committee-minutes/internal/db"
	"github.com/jonathan/committee-minutes/internal/llm"
	"github.com/jonathan/committee-minutes/internal/meetings"
	"github.com/jonathan/committee-minutes/internal/parsing"
	"github.com/jonathan/committee-minutes/internal/storage"
	"github.com/jonathan/committee-minutes/internal/transcription"
)

// Infrastructure holds the systems shared by the CLI and the server.
type Infrastructure struct {
	Logger   *slog.Logger
	Database *db.DB
	Storage  *storage.Filesystem
	Parser   *parsing.Parser
	LLM      llm.Client // nil when no API key is configured
	Meetings *meetings.Service
}

// NewParser builds the minutes parser from configuration.
func NewParser(cfg *config.Config, logger *slog.Logger) *parsing.Parser {
	return parsing.NewParser(
		parsing.WithSignatureNames(cfg.Parser.SignatureNames...),
		parsing.WithLogger(logger),
	)
}

// New connects to the database, opens the blob store and, when an API key
// is set, creates the model client. Call Close when done.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Infrastructure, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("database URL is required (set %s)", config.EnvDatabaseURL)
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	store, err := storage.NewFilesystem(cfg.Storage.BasePath, logger)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	infra := &Infrastructure{
		Logger:   logger,
		Database: database,
		Storage:  store,
		Parser:   NewParser(cfg, logger),
	}

	opts := []meetings.Option{meetings.WithLogger(logger)}
	if cfg.APIKey != "" {
		client, err := llm.NewClient(ctx, llm.DefaultConfig(), cfg.APIKey)
		if err != nil {
			database.Close()
			return nil, fmt.Errorf("llm init failed: %w", err)
		}
		infra.LLM = client
		opts = append(opts, meetings.WithTranscriber(
			transcription.New(client, llm.ParseTier(cfg.Transcription.Tier)),
		))
	} else {
		logger.Info("no API key configured, transcription disabled")
	}

	infra.Meetings = meetings.NewService(database, store, infra.Parser, opts...)
	return infra, nil
}

// Close releases the model client and database pool.
func (i *Infrastructure) Close() {
	if i.LLM != nil {
		if err := i.LLM.Close(); err != nil {
			i.Logger.Warn("failed to close llm client", "error", err)
		}
	}
	if i.Database != nil {
		i.Database.Close()
	}
}
