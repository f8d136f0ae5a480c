// Package meetings merges parsed minutes into stored meetings and manages
// the documents attached to them.
package meetings

import (
	"github.com/google/uuid"

	"github.com/jonathan/committee-minutes/internal/parsing"
	"github.com/jonathan/committee-minutes/internal/types"
)

// MergeSummary reports what ApplyMinutes changed.
type MergeSummary struct {
	Matched          int  `json:"matched"`
	Added            int  `json:"added"`
	AttendeesUpdated bool `json:"attendeesUpdated"`
}

// ApplyMinutes merges parsed minutes into a meeting in place. Existing agenda
// items matched by title receive the parsed minute entries; parsed items
// without a partner are appended after the existing ones. Header fields are
// only filled when the meeting lacks them, and attendees are replaced when
// the minutes list any. Existing items with an empty or repeated ID are given
// a fresh one first so each of them can bind to its own parsed item. parsed
// is not modified.
func ApplyMinutes(meeting *types.Meeting, parsed *types.ParsedMeetingData) MergeSummary {
	var summary MergeSummary
	if meeting == nil || parsed == nil {
		return summary
	}

	rekeyAgendaItems(meeting.AgendaItems)
	incoming := append([]types.AgendaItem(nil), parsed.AgendaItems...)
	rekeyAgendaItems(incoming)

	matches := parsing.MatchPVToAgenda(incoming, meeting.AgendaItems)
	used := make(map[string]bool, len(matches))
	for i := range meeting.AgendaItems {
		item := &meeting.AgendaItems[i]
		p, ok := matches[item.ID]
		if !ok {
			continue
		}
		copyMinutes(item, p)
		used[p.ID] = true
		summary.Matched++
	}

	next := nextOrder(meeting.AgendaItems)
	for _, p := range incoming {
		if used[p.ID] {
			continue
		}
		p.Order = next
		next++
		meeting.AgendaItems = append(meeting.AgendaItems, p)
		summary.Added++
	}

	if meeting.Title == "" {
		meeting.Title = parsed.Title
	}
	if meeting.Date == "" {
		meeting.Date = parsed.Date
	}
	if meeting.MeetingNumber == "" {
		meeting.MeetingNumber = parsed.MeetingNumber
	}
	if len(parsed.Attendees) > 0 {
		meeting.Attendees = append([]types.Attendee(nil), parsed.Attendees...)
		summary.AttendeesUpdated = true
	}
	return summary
}

// NewMeetingFromMinutes builds an unsaved meeting from a parse result.
func NewMeetingFromMinutes(parsed *types.ParsedMeetingData) *types.Meeting {
	m := &types.Meeting{
		Title:         parsed.Title,
		Date:          parsed.Date,
		MeetingNumber: parsed.MeetingNumber,
		AgendaItems:   append([]types.AgendaItem{}, parsed.AgendaItems...),
		Attendees:     append([]types.Attendee{}, parsed.Attendees...),
	}
	if m.Title == "" {
		m.Title = types.UntitledItem
	}
	return m
}

// rekeyAgendaItems replaces empty and repeated IDs in place. The first
// occurrence of an ID keeps it.
func rekeyAgendaItems(items []types.AgendaItem) {
	seen := make(map[string]bool, len(items))
	for i := range items {
		if items[i].ID == "" || seen[items[i].ID] {
			items[i].ID = uuid.NewString()
		}
		seen[items[i].ID] = true
	}
}

func copyMinutes(dst *types.AgendaItem, src types.AgendaItem) {
	dst.MinuteEntries = append([]types.MinuteEntry{}, src.MinuteEntries...)
	dst.MinuteType = src.MinuteType
	dst.MinuteNumber = src.MinuteNumber
	dst.Decision = src.Decision
	dst.Proposer = src.Proposer
	dst.Seconder = src.Seconder
	dst.Objective = src.Objective
}

func nextOrder(items []types.AgendaItem) int {
	next := 0
	for _, item := range items {
		if item.Order >= next {
			next = item.Order + 1
		}
	}
	return next
}
