package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/committee-minutes/internal/db"
	"github.com/jonathan/committee-minutes/internal/infrastructure"
	"github.com/jonathan/committee-minutes/internal/server"
	"github.com/jonathan/committee-minutes/internal/server/ratelimit"
)

var (
	servePort    int
	serveMigrate bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for parsing minutes and managing meetings.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default from config, 8080)")
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", false, "Apply pending database migrations before starting")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Server.Port = servePort
	}

	log := newLogger(cfg)
	ctx := cmd.Context()

	infra, err := infrastructure.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	if serveMigrate {
		if err := db.MigrateUp(cfg.DatabaseURL); err != nil {
			infra.Close()
			return err
		}
		log.Info("database migrations applied")
	}

	srv := server.New(server.Config{
		Port:           cfg.Server.Port,
		MaxUploadBytes: cfg.Storage.MaxUploadSizeBytes(),
		AllowedOrigins: cfg.Server.AllowedOrigins,
		RateLimit:      ratelimit.LoadConfig(),
	}, infra.Meetings, infra.Parser, log)
	srv.OnShutdown(infra.Close)

	return srv.Start(ctx)
}
