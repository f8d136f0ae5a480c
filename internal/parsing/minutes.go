// Package parsing turns signed committee minutes into structured agenda items.
package parsing

import (
	"log/slog"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/jonathan/committee-minutes/internal/docx"
	"github.com/jonathan/committee-minutes/internal/types"
)

// Parser reads DOCX minutes. It keeps no state between calls and is safe for
// concurrent use.
type Parser struct {
	now       func() time.Time
	newID     IDFunc
	segmenter *Segmenter
	logger    *slog.Logger
}

// Option configures a Parser.
type Option func(*Parser)

// WithClock sets the clock used to derive agenda item ids.
func WithClock(now func() time.Time) Option {
	return func(p *Parser) { p.now = now }
}

// WithIDFunc sets the attendee id generator.
func WithIDFunc(newID IDFunc) Option {
	return func(p *Parser) { p.newID = newID }
}

// WithSignatureNames adds names whose lines are dropped from resolution
// bodies, typically the officers signing the minutes.
func WithSignatureNames(names ...string) Option {
	return func(p *Parser) { p.segmenter = NewSegmenter(names...) }
}

// WithLogger sets the logger used for conversion warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Parser) { p.logger = logger }
}

// NewParser creates a parser.
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		now:       time.Now,
		segmenter: NewSegmenter(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseAgendaDOCX parses a minutes document with default settings.
func ParseAgendaDOCX(raw types.RawDocument) (*types.ParsedMeetingData, error) {
	return NewParser().Parse(raw)
}

// Parse converts the document and extracts metadata, attendance and agenda
// items. The only error returned is *DocumentConversionError; anything the
// document does not state is left empty in the result.
func (p *Parser) Parse(raw types.RawDocument) (*types.ParsedMeetingData, error) {
	if !isWordDocument(raw) {
		return nil, &DocumentConversionError{
			Filename: raw.Filename,
			Message:  "unsupported media type " + raw.MIMEType,
		}
	}

	converted, err := docx.Convert(raw.Content)
	if err != nil {
		return nil, &DocumentConversionError{Filename: raw.Filename, Message: "invalid word document", Cause: err}
	}
	for _, w := range converted.Warnings {
		p.logger.Debug("docx conversion warning", "file", raw.Filename, "warning", w)
	}

	doc, err := Normalize(converted.HTML)
	if err != nil {
		return nil, &DocumentConversionError{Filename: raw.Filename, Message: "unreadable HTML", Cause: err}
	}

	meta := ExtractMetadata(doc.Text)
	items := p.segmenter.Segment(doc.Blocks)

	result := &types.ParsedMeetingData{
		Title:         meta.Title,
		Date:          meta.Date,
		MeetingNumber: meta.MeetingNumber,
		AgendaItems:   BuildAgendaItems(items, doc.OrderedLists, p.now()),
		Attendees:     ExtractAttendees(doc.Text, p.newID),
	}

	p.logger.Debug("parsed minutes",
		"file", raw.Filename,
		"blocks", len(doc.Blocks),
		"minute_items", len(items),
		"agenda_items", len(result.AgendaItems),
		"attendees", len(result.Attendees),
	)
	return result, nil
}

// isWordDocument accepts the DOCX media type, a generic binary type or an
// empty one; anything else is rejected before conversion.
func isWordDocument(raw types.RawDocument) bool {
	mediaType := raw.MIMEType
	if mediaType != "" {
		if parsed, _, err := mime.ParseMediaType(mediaType); err == nil {
			mediaType = parsed
		}
	}
	switch strings.ToLower(mediaType) {
	case docx.MIMEType:
		return true
	case "", "application/octet-stream", "application/zip":
		ext := strings.ToLower(filepath.Ext(raw.Filename))
		return ext == "" || ext == ".docx"
	default:
		return false
	}
}
