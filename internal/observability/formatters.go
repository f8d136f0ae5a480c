// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/committee-minutes/internal/meetings"
	"github.com/jonathan/committee-minutes/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintParsedMeeting outputs a summary of parsed minutes: header fields,
// agenda items with their entries, and attendance counts.
func (p *Printer) PrintParsedMeeting(source string, parsed *types.ParsedMeetingData) {
	if parsed == nil {
		return
	}

	var sb strings.Builder
	if source != "" {
		sb.WriteString(fmt.Sprintf("File:     %s\n", source))
	}
	sb.WriteString(fmt.Sprintf("Title:    %s\n", orDash(parsed.Title)))
	sb.WriteString(fmt.Sprintf("Date:     %s\n", orDash(parsed.Date)))
	sb.WriteString(fmt.Sprintf("Meeting:  %s\n", orDash(parsed.MeetingNumber)))

	present := 0
	for _, a := range parsed.Attendees {
		if a.IsPresent {
			present++
		}
	}
	sb.WriteString(fmt.Sprintf("Attendees: %d present, %d absent\n", present, len(parsed.Attendees)-present))

	if len(parsed.AgendaItems) > 0 {
		sb.WriteString("\nAgenda:\n")
		count := min(len(parsed.AgendaItems), maxItemsToShow)
		for i := 0; i < count; i++ {
			item := parsed.AgendaItems[i]
			sb.WriteString(fmt.Sprintf("%d. %s [%s]\n", item.Order+1, item.Title, item.Objective))
			for _, e := range item.MinuteEntries {
				sb.WriteString(fmt.Sprintf("   %s %s\n", entryLabel(e.Type), e.Number))
			}
		}
		if len(parsed.AgendaItems) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("... and %d more items\n", len(parsed.AgendaItems)-maxItemsToShow))
		}
	}

	p.printBox("PARSED MINUTES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintAttendees lists attendees with role and presence.
func (p *Printer) PrintAttendees(attendees []types.Attendee) {
	if len(attendees) == 0 {
		return
	}

	var sb strings.Builder
	for _, a := range attendees {
		mark := "✓"
		if !a.IsPresent {
			mark = "✗"
		}
		sb.WriteString(fmt.Sprintf("%s %s, %s\n", mark, a.Name, a.Role))
	}
	p.printBox("ATTENDANCE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintMatches shows which existing agenda items received parsed minutes.
func (p *Printer) PrintMatches(existing []types.AgendaItem, matches map[string]types.AgendaItem, parsedCount int) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Matched %d of %d parsed items\n\n", len(matches), parsedCount))
	for _, item := range existing {
		m, ok := matches[item.ID]
		if !ok {
			sb.WriteString(fmt.Sprintf("  %s\n    (no minutes)\n", item.Title))
			continue
		}
		sb.WriteString(fmt.Sprintf("✓ %s\n    ← %s\n", item.Title, m.Title))
	}
	p.printBox("AGENDA MATCHES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintMergeSummary outputs the result of importing minutes into a meeting.
func (p *Printer) PrintMergeSummary(meetingID string, summary meetings.MergeSummary) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Meeting:   %s\n", meetingID))
	sb.WriteString(fmt.Sprintf("Matched:   %d\n", summary.Matched))
	sb.WriteString(fmt.Sprintf("Added:     %d\n", summary.Added))
	attendance := "unchanged"
	if summary.AttendeesUpdated {
		attendance = "replaced"
	}
	sb.WriteString(fmt.Sprintf("Attendees: %s", attendance))
	p.printBox("MINUTES IMPORTED", sb.String())
}

// PrintTranscript outputs the first speaker turns of a transcript.
func (p *Printer) PrintTranscript(t *types.Transcript) {
	if t == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Model:    %s\n", t.Model))
	sb.WriteString(fmt.Sprintf("Length:   %d characters\n", len([]rune(t.Text))))
	sb.WriteString(fmt.Sprintf("Turns:    %d\n", len(t.Segments)))

	if len(t.Segments) > 0 {
		sb.WriteString("\n")
		count := min(len(t.Segments), maxItemsToShow)
		for i := 0; i < count; i++ {
			s := t.Segments[i]
			speaker := s.Speaker
			if speaker == "" {
				speaker = "?"
			}
			if s.Start != "" {
				speaker = s.Start + " " + speaker
			}
			sb.WriteString(fmt.Sprintf("%s: %s\n", speaker, s.Text))
		}
		if len(t.Segments) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("... and %d more turns\n", len(t.Segments)-maxItemsToShow))
		}
	}

	p.printBox("TRANSCRIPT", strings.TrimSuffix(sb.String(), "\n"))
}

func entryLabel(t types.MinuteType) string {
	if t == types.MinuteResolution {
		return "Résolution"
	}
	return "Commentaire"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
