// Package types provides type definitions for structured data used throughout the committee-minutes system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "time"

// MinuteType identifies the kind of record attached to an agenda item
type MinuteType string

const (
	// MinuteResolution is a formally voted committee decision (number "NN-NN")
	MinuteResolution MinuteType = "resolution"
	// MinuteComment is a recorded remark without a vote (number "NN-A")
	MinuteComment MinuteType = "comment"
)

// Objective values for agenda items
const (
	ObjectiveDecision    = "Decision"
	ObjectiveInformation = "Information"
)

// Defaults applied to agenda items built from minutes
const (
	DefaultItemDuration  = 15
	DefaultItemPresenter = "Coordinator"
	UntitledItem         = "Untitled"
)

// Attendee roles
const (
	RolePresident             = "Président(e)"
	RoleVicePresident         = "Vice-président(e)"
	RoleSecretary             = "Secrétaire"
	RoleResponsibleCouncillor = "Conseiller responsable"
	RoleCouncillor            = "Conseiller"
	RoleMember                = "Membre"
)

// RawDocument is an uploaded document waiting to be parsed
type RawDocument struct {
	Filename string
	MIMEType string
	Content  []byte
}

// BlockKind classifies a text block extracted from a document
type BlockKind string

const (
	BlockHeading   BlockKind = "heading"
	BlockParagraph BlockKind = "paragraph"
	BlockListItem  BlockKind = "list-item"
)

// TextBlock is one paragraph-like element of a document, in reading order
type TextBlock struct {
	Kind       BlockKind
	Tag        string
	Text       string
	Emphasized bool
}

// ParsedMeetingMetadata holds the header fields found in a minutes document
type ParsedMeetingMetadata struct {
	Title         string
	Date          string // ISO date with default time, e.g. 2022-06-09T19:00
	MeetingNumber string // zero-padded, e.g. "09"
}

// Attendee is a person listed in the attendance section of the minutes
type Attendee struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	IsPresent bool   `json:"isPresent"`
}

// MinuteEntry is a resolution or comment recorded under an agenda item
type MinuteEntry struct {
	Type     MinuteType `json:"type"`
	Number   string     `json:"number"`
	Content  string     `json:"content"`
	Proposer string     `json:"proposer,omitempty"`
	Seconder string     `json:"seconder,omitempty"`
}

// AgendaItem is one discussion topic of a meeting.
// The scalar minute fields mirror the first entry for older records.
type AgendaItem struct {
	ID            string        `json:"id"`
	Order         int           `json:"order"`
	Title         string        `json:"title"`
	Duration      int           `json:"duration"`
	Presenter     string        `json:"presenter"`
	Objective     string        `json:"objective"`
	Description   string        `json:"description"`
	MinuteEntries []MinuteEntry `json:"minuteEntries"`
	MinuteType    MinuteType    `json:"minuteType,omitempty"`
	MinuteNumber  string        `json:"minuteNumber,omitempty"`
	Decision      string        `json:"decision,omitempty"`
	Proposer      string        `json:"proposer,omitempty"`
	Seconder      string        `json:"seconder,omitempty"`
}

// HasResolution reports whether any entry of the item is a resolution
func (a AgendaItem) HasResolution() bool {
	for _, e := range a.MinuteEntries {
		if e.Type == MinuteResolution {
			return true
		}
	}
	return false
}

// ParsedMeetingData is the result of parsing one minutes document
type ParsedMeetingData struct {
	Title         string       `json:"title,omitempty"`
	Date          string       `json:"date,omitempty"`
	MeetingNumber string       `json:"meetingNumber,omitempty"`
	AgendaItems   []AgendaItem `json:"agendaItems"`
	Attendees     []Attendee   `json:"attendees"`
}

// Meeting is a persisted committee meeting with its agenda
type Meeting struct {
	ID            string       `json:"id"`
	Title         string       `json:"title"`
	Date          string       `json:"date,omitempty"`
	MeetingNumber string       `json:"meetingNumber,omitempty"`
	AgendaItems   []AgendaItem `json:"agendaItems"`
	Attendees     []Attendee   `json:"attendees"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}

// Document kinds stored alongside a meeting
const (
	DocumentMinutes   = "minutes"
	DocumentAgenda    = "agenda"
	DocumentRecording = "recording"
	DocumentOther     = "other"
)

// Document is an uploaded file attached to a meeting
type Document struct {
	ID         string    `json:"id"`
	MeetingID  string    `json:"meetingId"`
	Kind       string    `json:"kind"`
	Filename   string    `json:"filename"`
	MIMEType   string    `json:"mimeType"`
	StorageKey string    `json:"storageKey"`
	SizeBytes  int64     `json:"sizeBytes"`
	PageCount  *int      `json:"pageCount,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// TranscriptSegment is one speaker turn of a transcript
type TranscriptSegment struct {
	Speaker string `json:"speaker,omitempty"`
	Start   string `json:"start,omitempty"`
	Text    string `json:"text"`
}

// Transcript is the text produced from a meeting recording
type Transcript struct {
	ID         string              `json:"id"`
	MeetingID  string              `json:"meetingId"`
	DocumentID string              `json:"documentId,omitempty"`
	Model      string              `json:"model"`
	Text       string              `json:"text"`
	Segments   []TranscriptSegment `json:"segments,omitempty"`
	CreatedAt  time.Time           `json:"createdAt"`
}
