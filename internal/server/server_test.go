package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/committee-minutes/internal/logger"
	"github.com/jonathan/committee-minutes/internal/meetings"
	"github.com/jonathan/committee-minutes/internal/parsing"
	"github.com/jonathan/committee-minutes/internal/server/ratelimit"
	"github.com/jonathan/committee-minutes/internal/types"
)

// fakeMeetings records calls and returns canned results.
type fakeMeetings struct {
	meetings    map[string]*types.Meeting
	documents   map[string]*types.Document
	content     map[string][]byte
	lastRaw     types.RawDocument
	lastKind    string
	importErr   error
	transcriber error
}

func newFakeMeetings() *fakeMeetings {
	return &fakeMeetings{
		meetings:  map[string]*types.Meeting{},
		documents: map[string]*types.Document{},
		content:   map[string][]byte{},
	}
}

func (f *fakeMeetings) add(m *types.Meeting) *types.Meeting {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	f.meetings[m.ID] = m
	return m
}

func (f *fakeMeetings) CreateMeeting(_ context.Context, req *types.CreateMeetingRequest) (*types.Meeting, error) {
	if err := req.Validate(); err != nil {
		return nil, &meetings.ValidationError{Message: "meeting request", Cause: err}
	}
	return f.add(&types.Meeting{Title: req.Title, AgendaItems: req.ToAgendaItems(uuid.NewString)}), nil
}

func (f *fakeMeetings) GetMeeting(_ context.Context, id string) (*types.Meeting, error) {
	m, ok := f.meetings[id]
	if !ok {
		return nil, meetings.ErrMeetingNotFound
	}
	return m, nil
}

func (f *fakeMeetings) ListMeetings(_ context.Context, limit, offset int) ([]types.Meeting, error) {
	out := []types.Meeting{}
	for _, m := range f.meetings {
		out = append(out, *m)
	}
	return out, nil
}

func (f *fakeMeetings) DeleteMeeting(_ context.Context, id string) error {
	if _, ok := f.meetings[id]; !ok {
		return meetings.ErrMeetingNotFound
	}
	delete(f.meetings, id)
	return nil
}

func (f *fakeMeetings) ImportMinutes(ctx context.Context, id string, raw types.RawDocument) (*meetings.ImportResult, error) {
	f.lastRaw = raw
	m, err := f.GetMeeting(ctx, id)
	if err != nil {
		return nil, err
	}
	if f.importErr != nil {
		return nil, f.importErr
	}
	return &meetings.ImportResult{Meeting: m, Summary: meetings.MergeSummary{Matched: 1}}, nil
}

func (f *fakeMeetings) CreateFromMinutes(_ context.Context, raw types.RawDocument) (*meetings.ImportResult, error) {
	f.lastRaw = raw
	parsed, err := parsing.NewParser().Parse(raw)
	if err != nil {
		return nil, err
	}
	m := f.add(meetings.NewMeetingFromMinutes(parsed))
	return &meetings.ImportResult{Meeting: m}, nil
}

func (f *fakeMeetings) UploadDocument(ctx context.Context, id, kind string, raw types.RawDocument) (*types.Document, error) {
	f.lastRaw, f.lastKind = raw, kind
	if _, err := f.GetMeeting(ctx, id); err != nil {
		return nil, err
	}
	doc := &types.Document{ID: uuid.NewString(), MeetingID: id, Kind: kind, Filename: raw.Filename, MIMEType: raw.MIMEType}
	f.documents[doc.ID] = doc
	f.content[doc.ID] = raw.Content
	return doc, nil
}

func (f *fakeMeetings) ListDocuments(ctx context.Context, id string) ([]types.Document, error) {
	if _, err := f.GetMeeting(ctx, id); err != nil {
		return nil, err
	}
	out := []types.Document{}
	for _, d := range f.documents {
		if d.MeetingID == id {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (f *fakeMeetings) DocumentContent(_ context.Context, id string) (*types.Document, []byte, error) {
	d, ok := f.documents[id]
	if !ok {
		return nil, nil, meetings.ErrDocumentNotFound
	}
	return d, f.content[id], nil
}

func (f *fakeMeetings) TranscribeRecording(ctx context.Context, id string, raw types.RawDocument) (*types.Transcript, error) {
	f.lastRaw = raw
	if f.transcriber != nil {
		return nil, f.transcriber
	}
	if _, err := f.GetMeeting(ctx, id); err != nil {
		return nil, err
	}
	return &types.Transcript{ID: uuid.NewString(), MeetingID: id, Text: "Bonsoir.", CreatedAt: time.Now()}, nil
}

func (f *fakeMeetings) ListTranscripts(ctx context.Context, id string) ([]types.Transcript, error) {
	if _, err := f.GetMeeting(ctx, id); err != nil {
		return nil, err
	}
	return []types.Transcript{}, nil
}

func newTestServer(t *testing.T, svc *fakeMeetings, cfg Config) http.Handler {
	t.Helper()
	if cfg.RateLimit == nil {
		cfg.RateLimit = &ratelimit.Config{Enabled: false}
	}
	s := New(cfg, svc, parsing.NewParser(), logger.Discard())
	t.Cleanup(s.rateLimiter.Stop)
	return s.Handler()
}

// multipartBody builds a single-file multipart form.
func multipartBody(t *testing.T, field, filename, contentType string, data []byte, extra map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range extra {
		require.NoError(t, mw.WriteField(k, v))
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func do(t *testing.T, h http.Handler, method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHealthEndpoint(t *testing.T) {
	h := newTestServer(t, newFakeMeetings(), Config{})

	w := do(t, h, http.MethodGet, "/health", nil, "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, "ok", decode[map[string]string](t, w)["status"])
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name    string
		allowed []string
		origin  string
		want    string
	}{
		{name: "any origin by default", origin: "https://example.org", want: "*"},
		{name: "listed origin", allowed: []string{"https://mairie.example"}, origin: "https://mairie.example", want: "https://mairie.example"},
		{name: "unlisted origin", allowed: []string{"https://mairie.example"}, origin: "https://evil.example", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestServer(t, newFakeMeetings(), Config{AllowedOrigins: tt.allowed})
			req := httptest.NewRequest(http.MethodOptions, "/meetings", nil)
			req.Header.Set("Origin", tt.origin)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.want, w.Header().Get("Access-Control-Allow-Origin"))
			assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "DELETE")
		})
	}
}

func TestRateLimit(t *testing.T) {
	h := newTestServer(t, newFakeMeetings(), Config{RateLimit: &ratelimit.Config{
		Enabled:       true,
		DefaultLimit:  2,
		DefaultWindow: time.Minute,
	}})

	for i := 0; i < 2; i++ {
		w := do(t, h, http.MethodGet, "/meetings", nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	}

	w := do(t, h, http.MethodGet, "/meetings", nil, "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Equal(t, "rate_limit_exceeded", decode[map[string]any](t, w)["error"])

	// Health checks are never limited.
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/health", nil, "").Code)
}

func TestUnknownRoute(t *testing.T) {
	h := newTestServer(t, newFakeMeetings(), Config{})

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/nope", nil, "").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, do(t, h, http.MethodPut, "/meetings", nil, "").Code)
}
