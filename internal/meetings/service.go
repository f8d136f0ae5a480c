package meetings

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/committee-minutes/internal/llm"
	"github.com/jonathan/committee-minutes/internal/printing"
	"github.com/jonathan/committee-minutes/internal/storage"
	"github.com/jonathan/committee-minutes/internal/transcription"
	"github.com/jonathan/committee-minutes/internal/types"
)

// List bounds for ListMeetings.
const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

// maxMergeAttempts bounds how often ImportMinutes re-reads a meeting that
// changed between its read and its write.
const maxMergeAttempts = 3

// Repository persists meetings and their documents. UpdateMeeting only
// writes when the stored meeting still carries m.UpdatedAt and reports false
// when the meeting is gone or was changed since it was read.
type Repository interface {
	CreateMeeting(ctx context.Context, m *types.Meeting) error
	GetMeeting(ctx context.Context, id string) (*types.Meeting, error)
	ListMeetings(ctx context.Context, limit, offset int) ([]types.Meeting, error)
	UpdateMeeting(ctx context.Context, m *types.Meeting) (bool, error)
	DeleteMeeting(ctx context.Context, id string) (bool, error)
	CreateDocument(ctx context.Context, d *types.Document) error
	GetDocument(ctx context.Context, id string) (*types.Document, error)
	ListDocuments(ctx context.Context, meetingID string) ([]types.Document, error)
	CreateTranscript(ctx context.Context, t *types.Transcript) error
	ListTranscripts(ctx context.Context, meetingID string) ([]types.Transcript, error)
}

// Parser turns a minutes document into agenda items and attendees.
type Parser interface {
	Parse(raw types.RawDocument) (*types.ParsedMeetingData, error)
}

// Transcriber turns a recording into text.
type Transcriber interface {
	Transcribe(ctx context.Context, req transcription.Request) (*types.Transcript, error)
}

// ImportResult is the outcome of importing a minutes document.
type ImportResult struct {
	Meeting  *types.Meeting  `json:"meeting"`
	Document *types.Document `json:"document"`
	Summary  MergeSummary    `json:"summary"`
}

// Service coordinates parsing, storage and persistence of meetings.
type Service struct {
	repo        Repository
	blobs       storage.Store
	parser      Parser
	transcriber Transcriber
	logger      *slog.Logger
	newID       func() string
}

// Option configures a Service.
type Option func(*Service)

// WithTranscriber enables recording transcription.
func WithTranscriber(t Transcriber) Option {
	return func(s *Service) { s.transcriber = t }
}

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithIDFunc replaces the UUID generator used for agenda items and documents.
func WithIDFunc(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

// NewService creates a meeting service.
func NewService(repo Repository, blobs storage.Store, parser Parser, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		blobs:  blobs,
		parser: parser,
		logger: slog.New(slog.DiscardHandler),
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "meetings")
	return s
}

// CreateMeeting validates the request and stores a new meeting with its agenda.
func (s *Service) CreateMeeting(ctx context.Context, req *types.CreateMeetingRequest) (*types.Meeting, error) {
	if err := req.Validate(); err != nil {
		return nil, &ValidationError{Message: "meeting request", Cause: err}
	}

	m := &types.Meeting{
		Title:         req.Title,
		Date:          req.Date,
		MeetingNumber: req.MeetingNumber,
		AgendaItems:   req.ToAgendaItems(s.newID),
		Attendees:     []types.Attendee{},
	}
	if err := s.repo.CreateMeeting(ctx, m); err != nil {
		return nil, err
	}
	s.logger.Info("meeting created", "meeting_id", m.ID, "agenda_items", len(m.AgendaItems))
	return m, nil
}

// GetMeeting returns a meeting or ErrMeetingNotFound.
func (s *Service) GetMeeting(ctx context.Context, id string) (*types.Meeting, error) {
	if !validID(id) {
		return nil, ErrMeetingNotFound
	}
	m, err := s.repo.GetMeeting(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrMeetingNotFound
	}
	return m, nil
}

// ListMeetings returns a page of meetings. Out of range limits are clamped.
func (s *Service) ListMeetings(ctx context.Context, limit, offset int) ([]types.Meeting, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListMeetings(ctx, limit, offset)
}

// DeleteMeeting removes a meeting, its records and its stored blobs.
func (s *Service) DeleteMeeting(ctx context.Context, id string) error {
	if !validID(id) {
		return ErrMeetingNotFound
	}
	docs, err := s.repo.ListDocuments(ctx, id)
	if err != nil {
		return err
	}

	deleted, err := s.repo.DeleteMeeting(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrMeetingNotFound
	}

	for _, d := range docs {
		if err := s.blobs.Delete(ctx, d.StorageKey); err != nil {
			s.logger.Warn("failed to delete document blob", "document_id", d.ID, "key", d.StorageKey, "error", err)
		}
	}
	s.logger.Info("meeting deleted", "meeting_id", id, "documents", len(docs))
	return nil
}

// UploadDocument stores a document of the given kind on a meeting.
func (s *Service) UploadDocument(ctx context.Context, meetingID, kind string, raw types.RawDocument) (*types.Document, error) {
	if !validKind(kind) {
		return nil, &ValidationError{Message: fmt.Sprintf("unknown document kind %q", kind)}
	}
	if _, err := s.GetMeeting(ctx, meetingID); err != nil {
		return nil, err
	}
	return s.storeDocument(ctx, meetingID, kind, raw)
}

// ListDocuments returns the documents attached to a meeting.
func (s *Service) ListDocuments(ctx context.Context, meetingID string) ([]types.Document, error) {
	if _, err := s.GetMeeting(ctx, meetingID); err != nil {
		return nil, err
	}
	return s.repo.ListDocuments(ctx, meetingID)
}

// DocumentContent returns a document record and its stored bytes.
func (s *Service) DocumentContent(ctx context.Context, id string) (*types.Document, []byte, error) {
	if !validID(id) {
		return nil, nil, ErrDocumentNotFound
	}
	doc, err := s.repo.GetDocument(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if doc == nil {
		return nil, nil, ErrDocumentNotFound
	}
	data, err := s.blobs.Get(ctx, doc.StorageKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read document %s: %w", id, err)
	}
	return doc, data, nil
}

// ImportMinutes stores a minutes document on a meeting and merges its parsed
// content into the agenda. When parsing fails the meeting is left untouched.
// A meeting changed by someone else during the merge is re-read and merged
// again, up to maxMergeAttempts times.
func (s *Service) ImportMinutes(ctx context.Context, meetingID string, raw types.RawDocument) (*ImportResult, error) {
	meeting, err := s.GetMeeting(ctx, meetingID)
	if err != nil {
		return nil, err
	}

	doc, err := s.storeDocument(ctx, meetingID, types.DocumentMinutes, raw)
	if err != nil {
		return nil, err
	}

	parsed, err := s.parser.Parse(raw)
	if err != nil {
		s.logger.Warn("minutes parse failed", "meeting_id", meetingID, "document_id", doc.ID, "error", err)
		return nil, err
	}

	var summary MergeSummary
	for attempt := 1; ; attempt++ {
		summary = ApplyMinutes(meeting, parsed)
		updated, err := s.repo.UpdateMeeting(ctx, meeting)
		if err != nil {
			return nil, err
		}
		if updated {
			break
		}
		if attempt == maxMergeAttempts {
			return nil, ErrMeetingConflict
		}
		s.logger.Debug("meeting changed during import, merging again", "meeting_id", meetingID, "attempt", attempt)
		if meeting, err = s.GetMeeting(ctx, meetingID); err != nil {
			return nil, err
		}
	}

	s.logger.Info("minutes imported",
		"meeting_id", meetingID,
		"document_id", doc.ID,
		"matched", summary.Matched,
		"added", summary.Added,
		"attendees_updated", summary.AttendeesUpdated,
	)
	return &ImportResult{Meeting: meeting, Document: doc, Summary: summary}, nil
}

// CreateFromMinutes creates a new meeting from a minutes document.
func (s *Service) CreateFromMinutes(ctx context.Context, raw types.RawDocument) (*ImportResult, error) {
	parsed, err := s.parser.Parse(raw)
	if err != nil {
		return nil, err
	}

	meeting := NewMeetingFromMinutes(parsed)
	if err := s.repo.CreateMeeting(ctx, meeting); err != nil {
		return nil, err
	}

	doc, err := s.storeDocument(ctx, meeting.ID, types.DocumentMinutes, raw)
	if err != nil {
		if _, delErr := s.repo.DeleteMeeting(ctx, meeting.ID); delErr != nil {
			s.logger.Warn("failed to remove meeting without source document", "meeting_id", meeting.ID, "error", delErr)
		}
		return nil, err
	}

	s.logger.Info("meeting created from minutes", "meeting_id", meeting.ID, "agenda_items", len(meeting.AgendaItems))
	return &ImportResult{
		Meeting:  meeting,
		Document: doc,
		Summary:  MergeSummary{Added: len(meeting.AgendaItems), AttendeesUpdated: len(meeting.Attendees) > 0},
	}, nil
}

// TranscribeRecording stores a recording on a meeting, transcribes it and
// saves the transcript.
func (s *Service) TranscribeRecording(ctx context.Context, meetingID string, raw types.RawDocument) (*types.Transcript, error) {
	if s.transcriber == nil {
		return nil, ErrTranscriptionDisabled
	}
	meeting, err := s.GetMeeting(ctx, meetingID)
	if err != nil {
		return nil, err
	}

	doc, err := s.storeDocument(ctx, meetingID, types.DocumentRecording, raw)
	if err != nil {
		return nil, err
	}

	agenda := make([]string, 0, len(meeting.AgendaItems))
	for _, item := range meeting.AgendaItems {
		agenda = append(agenda, item.Title)
	}

	transcript, err := s.transcriber.Transcribe(ctx, transcription.Request{
		MeetingID:  meetingID,
		DocumentID: doc.ID,
		Audio:      llm.Media{MIMEType: raw.MIMEType, Data: raw.Content},
		Title:      meeting.Title,
		Agenda:     agenda,
	})
	if err != nil {
		return nil, err
	}

	if err := s.repo.CreateTranscript(ctx, transcript); err != nil {
		return nil, err
	}
	s.logger.Info("recording transcribed", "meeting_id", meetingID, "document_id", doc.ID, "model", transcript.Model)
	return transcript, nil
}

// ListTranscripts returns the transcripts of a meeting.
func (s *Service) ListTranscripts(ctx context.Context, meetingID string) ([]types.Transcript, error) {
	if _, err := s.GetMeeting(ctx, meetingID); err != nil {
		return nil, err
	}
	return s.repo.ListTranscripts(ctx, meetingID)
}

// storeDocument writes the blob first and removes it again if the record
// cannot be created.
func (s *Service) storeDocument(ctx context.Context, meetingID, kind string, raw types.RawDocument) (*types.Document, error) {
	doc := &types.Document{
		ID:        s.newID(),
		MeetingID: meetingID,
		Kind:      kind,
		Filename:  raw.Filename,
		MIMEType:  raw.MIMEType,
		SizeBytes: int64(len(raw.Content)),
	}
	doc.StorageKey = storage.DocumentKey(meetingID, doc.ID, raw.Filename)

	if isPDF(raw) {
		if count, err := printing.PageCount(raw.Content); err != nil {
			s.logger.Warn("failed to extract pdf page count", "filename", raw.Filename, "error", err)
		} else {
			doc.PageCount = &count
		}
	}

	if err := s.blobs.Put(ctx, doc.StorageKey, raw.Content); err != nil {
		return nil, fmt.Errorf("failed to store document: %w", err)
	}
	if err := s.repo.CreateDocument(ctx, doc); err != nil {
		if delErr := s.blobs.Delete(ctx, doc.StorageKey); delErr != nil {
			s.logger.Warn("failed to remove orphaned blob", "key", doc.StorageKey, "error", delErr)
		}
		return nil, err
	}
	return doc, nil
}

func isPDF(raw types.RawDocument) bool {
	if mediaType, _, err := mime.ParseMediaType(raw.MIMEType); err == nil && mediaType == printing.PDFMIMEType {
		return true
	}
	return strings.HasSuffix(strings.ToLower(raw.Filename), ".pdf")
}

func validKind(kind string) bool {
	switch kind {
	case types.DocumentMinutes, types.DocumentAgenda, types.DocumentRecording, types.DocumentOther:
		return true
	}
	return false
}

func validID(id string) bool {
	return uuid.Validate(id) == nil
}
