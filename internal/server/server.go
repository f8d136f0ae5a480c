// Package server provides the HTTP REST API for committee meetings and their minutes.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jonathan/committee-minutes/internal/meetings"
	"github.com/jonathan/committee-minutes/internal/server/ratelimit"
	"github.com/jonathan/committee-minutes/internal/types"
)

// DefaultMaxUploadBytes is used when Config.MaxUploadBytes is not set.
const DefaultMaxUploadBytes = 25 << 20

// MeetingService is the meeting workflow the API exposes.
type MeetingService interface {
	CreateMeeting(ctx context.Context, req *types.CreateMeetingRequest) (*types.Meeting, error)
	GetMeeting(ctx context.Context, id string) (*types.Meeting, error)
	ListMeetings(ctx context.Context, limit, offset int) ([]types.Meeting, error)
	DeleteMeeting(ctx context.Context, id string) error
	ImportMinutes(ctx context.Context, meetingID string, raw types.RawDocument) (*meetings.ImportResult, error)
	CreateFromMinutes(ctx context.Context, raw types.RawDocument) (*meetings.ImportResult, error)
	UploadDocument(ctx context.Context, meetingID, kind string, raw types.RawDocument) (*types.Document, error)
	ListDocuments(ctx context.Context, meetingID string) ([]types.Document, error)
	DocumentContent(ctx context.Context, id string) (*types.Document, []byte, error)
	TranscribeRecording(ctx context.Context, meetingID string, raw types.RawDocument) (*types.Transcript, error)
	ListTranscripts(ctx context.Context, meetingID string) ([]types.Transcript, error)
}

// MinutesParser parses an uploaded minutes document without storing it.
type MinutesParser interface {
	Parse(raw types.RawDocument) (*types.ParsedMeetingData, error)
}

// Server represents the HTTP server
type Server struct {
	httpServer     *http.Server
	meetings       MeetingService
	parser         MinutesParser
	rateLimiter    *ratelimit.Limiter
	logger         *slog.Logger
	maxUploadBytes int64
	allowedOrigins []string
	onShutdown     []func()
}

// Config holds server configuration
type Config struct {
	Port           int
	MaxUploadBytes int64
	AllowedOrigins []string
	RateLimit      *ratelimit.Config
}

// New creates a new server instance
func New(cfg Config, svc MeetingService, parser MinutesParser, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = DefaultMaxUploadBytes
	}

	s := &Server{
		meetings:       svc,
		parser:         parser,
		rateLimiter:    ratelimit.NewLimiter(cfg.RateLimit),
		logger:         logger.With("component", "server"),
		maxUploadBytes: cfg.MaxUploadBytes,
		allowedOrigins: cfg.AllowedOrigins,
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.Handler(),
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 300 * time.Second, // transcription can take minutes
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the routed handler wrapped in middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	// Stateless minutes tools
	mux.HandleFunc("POST /minutes/parse", s.handleParseMinutes)
	mux.HandleFunc("POST /minutes/match", s.handleMatchMinutes)

	// Meetings
	mux.HandleFunc("POST /meetings", s.handleCreateMeeting)
	mux.HandleFunc("POST /meetings/import", s.handleImportMeeting)
	mux.HandleFunc("GET /meetings", s.handleListMeetings)
	mux.HandleFunc("GET /meetings/{id}", s.handleGetMeeting)
	mux.HandleFunc("DELETE /meetings/{id}", s.handleDeleteMeeting)
	mux.HandleFunc("POST /meetings/{id}/minutes", s.handleImportMinutes)

	// Documents
	mux.HandleFunc("GET /meetings/{id}/documents", s.handleListDocuments)
	mux.HandleFunc("POST /meetings/{id}/documents", s.handleUploadDocument)
	mux.HandleFunc("GET /documents/{id}/content", s.handleDocumentContent)

	// Transcription
	mux.HandleFunc("POST /meetings/{id}/transcriptions", s.handleTranscribe)
	mux.HandleFunc("GET /meetings/{id}/transcriptions", s.handleListTranscripts)

	return s.withRateLimit(s.withLogging(s.withCORS(mux)))
}

// OnShutdown registers a function run after the HTTP server stops.
func (s *Server) OnShutdown(fn func()) {
	s.onShutdown = append(s.onShutdown, fn)
}

// Start begins listening for requests and blocks until ctx is cancelled or
// the process receives SIGINT or SIGTERM.
func (s *Server) Start(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			s.cleanup()
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err := s.httpServer.Shutdown(shutdownCtx)
	s.cleanup()
	if err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) cleanup() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	for _, fn := range s.onShutdown {
		fn()
	}
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := s.allowOrigin(r.Header.Get("Origin")); origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			if origin != "*" {
				w.Header().Add("Vary", "Origin")
			}
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// allowOrigin returns the Access-Control-Allow-Origin value for origin.
// With no configured origins every origin is allowed.
func (s *Server) allowOrigin(origin string) string {
	if len(s.allowedOrigins) == 0 {
		return "*"
	}
	for _, allowed := range s.allowedOrigins {
		if allowed == "*" {
			return "*"
		}
		if origin != "" && strings.EqualFold(allowed, origin) {
			return origin
		}
	}
	return ""
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(s.extractClientID(r), r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for request logs.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)

		status := rec.status
		if status == 0 {
			status = http.StatusOK
		}
		level := slog.LevelInfo
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		s.logger.Log(r.Context(), level, "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", rec.bytes,
			"duration", time.Since(start),
			"remote", r.RemoteAddr,
		)
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode JSON response", "error", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// serviceError maps err to a status code and writes it. Server errors are
// logged and their details withheld from the client.
func (s *Server) serviceError(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError && status != http.StatusBadGateway && status != http.StatusServiceUnavailable {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		s.errorResponse(w, status, "internal server error")
		return
	}
	s.errorResponse(w, status, err.Error())
}

// extractClientID uses the IP address from RemoteAddr.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
	}
	if !info.ResetTime.IsZero() {
		response["reset_at"] = info.ResetTime.Format(time.RFC3339)
	}
	if info.RetryAfter > 0 {
		response["retry_after"] = int(info.RetryAfter.Seconds())
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
	}

	s.logger.Warn("rate limit exceeded", "limit", info.Limit, "reset_at", info.ResetTime)
	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
