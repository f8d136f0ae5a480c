package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/committee-minutes/internal/meetings"
	"github.com/jonathan/committee-minutes/internal/types"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"court", 10, "court"},
		{"Présidente", 10, "Présidente"},
		{"Procès-verbal de l'assemblée", 10, "Procès-..."},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, truncate(tt.in, tt.n))
	}
}

func TestPrintBox_LinesAreAligned(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("TITLE", "Ligne accentuée : é à è\n"+strings.Repeat("é", 100))

	for _, line := range strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n") {
		assert.Equal(t, boxWidth, len([]rune(line)), line)
	}
}

func TestPrintParsedMeeting(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintParsedMeeting("pv.docx", &types.ParsedMeetingData{
		Date:          "2022-06-09T19:00",
		MeetingNumber: "09",
		AgendaItems: []types.AgendaItem{
			{
				Order:     0,
				Title:     "Apiculture urbaine",
				Objective: types.ObjectiveDecision,
				MinuteEntries: []types.MinuteEntry{
					{Type: types.MinuteResolution, Number: "22-01"},
					{Type: types.MinuteComment, Number: "22-A"},
				},
			},
		},
		Attendees: []types.Attendee{
			{Name: "Mme Marie Gagnon", IsPresent: true},
			{Name: "M. Luc Côté", IsPresent: false},
		},
	})

	out := buf.String()
	assert.Contains(t, out, "PARSED MINUTES")
	assert.Contains(t, out, "File:     pv.docx")
	assert.Contains(t, out, "Title:    -")
	assert.Contains(t, out, "Attendees: 1 present, 1 absent")
	assert.Contains(t, out, "1. Apiculture urbaine [Decision]")
	assert.Contains(t, out, "Résolution 22-01")
	assert.Contains(t, out, "Commentaire 22-A")
}

func TestPrintParsedMeeting_ManyItems(t *testing.T) {
	var buf bytes.Buffer
	items := make([]types.AgendaItem, 8)
	for i := range items {
		items[i] = types.AgendaItem{Order: i, Title: "Point", Objective: types.ObjectiveInformation}
	}

	NewPrinter(&buf).PrintParsedMeeting("", &types.ParsedMeetingData{AgendaItems: items})

	assert.Contains(t, buf.String(), "... and 3 more items")
	assert.NotContains(t, buf.String(), "File:")
}

func TestPrintNil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintParsedMeeting("x", nil)
	p.PrintAttendees(nil)
	p.PrintTranscript(nil)

	assert.Empty(t, buf.String())
}

func TestPrintAttendees(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintAttendees([]types.Attendee{
		{Name: "Mme Marie Gagnon", Role: types.RolePresident, IsPresent: true},
		{Name: "M. Luc Côté", Role: types.RoleMember, IsPresent: false},
	})

	assert.Contains(t, buf.String(), "✓ Mme Marie Gagnon, Président(e)")
	assert.Contains(t, buf.String(), "✗ M. Luc Côté, Membre")
}

func TestPrintMatches(t *testing.T) {
	var buf bytes.Buffer
	existing := []types.AgendaItem{
		{ID: "e1", Title: "Apiculture urbaine"},
		{ID: "e2", Title: "Parc canin"},
	}
	matches := map[string]types.AgendaItem{"e1": {Title: "Apiculture urbaine : projet pilote"}}

	NewPrinter(&buf).PrintMatches(existing, matches, 3)

	out := buf.String()
	assert.Contains(t, out, "Matched 1 of 3 parsed items")
	assert.Contains(t, out, "✓ Apiculture urbaine")
	assert.Contains(t, out, "(no minutes)")
}

func TestPrintMergeSummary(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintMergeSummary("m1", meetings.MergeSummary{Matched: 2, Added: 1, AttendeesUpdated: true})

	out := buf.String()
	assert.Contains(t, out, "Matched:   2")
	assert.Contains(t, out, "Added:     1")
	assert.Contains(t, out, "Attendees: replaced")
}

func TestPrintTranscript(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintTranscript(&types.Transcript{
		Model: "gemini-2.5-flash",
		Text:  "Bonsoir.",
		Segments: []types.TranscriptSegment{
			{Speaker: "Présidente", Start: "00:01", Text: "Bonsoir."},
			{Text: "Merci."},
		},
	})

	out := buf.String()
	assert.Contains(t, out, "Turns:    2")
	assert.Contains(t, out, "00:01 Présidente: Bonsoir.")
	assert.Contains(t, out, "?: Merci.")
}
