package parsing

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jonathan/committee-minutes/internal/types"
)

// minFallbackListItems is the smallest ordered list accepted as an agenda
// when the minutes carry no markers.
const minFallbackListItems = 3

// proposalSentencePattern reads the mover and seconder of a resolution.
var proposalSentencePattern = regexp.MustCompile(
	`(?i)sur\s+une\s+proposition\s+de\s+((?:M\.|Mme\.?)?\s*[^,;.\n]+?)\s*,\s*appuy(?:é|e)e?\s+par\s+((?:M\.|Mme\.?)?\s*[^,;.\n]+)`)

// itemIDs hands out agenda item ids derived from one timestamp.
type itemIDs struct {
	stamp int64
	next  int
}

func newItemIDs(now time.Time) *itemIDs {
	return &itemIDs{stamp: now.UnixMilli()}
}

func (g *itemIDs) id() string {
	id := fmt.Sprintf("item-%d-%d", g.stamp, g.next)
	g.next++
	return id
}

// BuildAgendaItems groups minute items by section title, in order of first
// appearance, into agenda items. Without any minute item it falls back to the
// largest ordered list of the document.
func BuildAgendaItems(items []MinuteItem, orderedLists [][]string, now time.Time) []types.AgendaItem {
	ids := newItemIDs(now)
	if len(items) == 0 {
		return agendaFromList(largestList(orderedLists), ids)
	}

	var titles []string
	groups := make(map[string][]types.MinuteEntry)
	for _, item := range items {
		title := item.SectionTitle
		if title == "" {
			title = types.UntitledItem
		}
		if _, seen := groups[title]; !seen {
			titles = append(titles, title)
		}
		groups[title] = append(groups[title], toMinuteEntry(item))
	}

	agenda := make([]types.AgendaItem, 0, len(titles))
	for order, title := range titles {
		entries := groups[title]
		item := newAgendaItem(ids.id(), order, title)
		item.MinuteEntries = entries
		if item.HasResolution() {
			item.Objective = types.ObjectiveDecision
		}

		first := entries[0]
		item.MinuteType = first.Type
		item.MinuteNumber = first.Number
		item.Decision = first.Content
		item.Proposer = first.Proposer
		item.Seconder = first.Seconder

		agenda = append(agenda, item)
	}
	return agenda
}

func toMinuteEntry(item MinuteItem) types.MinuteEntry {
	entry := types.MinuteEntry{
		Type:    item.Type,
		Number:  item.Number,
		Content: strings.TrimSpace(item.Content),
	}
	entry.Proposer, entry.Seconder = ExtractMovers(item.Content)
	return entry
}

// ExtractMovers returns who proposed and who seconded a resolution, read from
// a "Sur une proposition de X, appuyée par Y" sentence.
func ExtractMovers(content string) (proposer, seconder string) {
	m := proposalSentencePattern.FindStringSubmatch(content)
	if m == nil {
		return "", ""
	}
	return collapseWhitespace(m[1]), collapseWhitespace(m[2])
}

func largestList(lists [][]string) []string {
	var best []string
	for _, list := range lists {
		if len(list) > len(best) {
			best = list
		}
	}
	if len(best) < minFallbackListItems {
		return nil
	}
	return best
}

func agendaFromList(list []string, ids *itemIDs) []types.AgendaItem {
	agenda := make([]types.AgendaItem, 0, len(list))
	for order, text := range list {
		agenda = append(agenda, newAgendaItem(ids.id(), order, strings.TrimSpace(text)))
	}
	return agenda
}

func newAgendaItem(id string, order int, title string) types.AgendaItem {
	return types.AgendaItem{
		ID:            id,
		Order:         order,
		Title:         title,
		Duration:      types.DefaultItemDuration,
		Presenter:     types.DefaultItemPresenter,
		Objective:     types.ObjectiveInformation,
		MinuteEntries: []types.MinuteEntry{},
	}
}
