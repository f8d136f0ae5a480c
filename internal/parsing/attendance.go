package parsing

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jonathan/committee-minutes/internal/types"
)

// IDFunc generates opaque identifiers.
type IDFunc func() string

// minNameLen filters out stray matches such as initials.
const minNameLen = 3

var (
	presentBlockPattern     = regexp.MustCompile(`(?is)ÉTAIENT\s+PRÉSENTE?S?\s*:?(.*?)(?:ÉTAIENT\s+AUSSI|ÉTAI(?:T|ENT)\s+ABSENT)`)
	alsoPresentBlockPattern = regexp.MustCompile(`(?is)ÉTAIENT\s+AUSSI\s+PRÉSENTE?S?\s*:?(.*?)(?:ÉTAI(?:T|ENT)\s+ABSENTE?S?|ORDRE\s+DU\s+JOUR|$)`)
	absentLinePattern       = regexp.MustCompile(`(?i)ÉTAI(?:T|ENT)\s+ABSENTE?S?\s*:?[ \t]*([^\n]*)`)

	// titleMarkerPattern finds "M." or "Mme" followed by a capitalized word.
	titleMarkerPattern = regexp.MustCompile(`(?:^|[^\p{L}])(M\.|Mme\.?)[ \t]+\p{Lu}`)
	// attendeePattern reads the title, the capitalized name tokens and an
	// optional comma-separated role from one marker-delimited chunk.
	attendeePattern = regexp.MustCompile(`^(M\.|Mme\.?)[ \t]+(\p{Lu}[\p{L}'’-]*(?:[ \t]+\p{Lu}[\p{L}'’-]*)*)(?:[ \t]*,[ \t]*([^\n]*))?`)
	// absentNamePattern only accepts a title and exactly two capitalized words.
	absentNamePattern = regexp.MustCompile(`(M\.|Mme)\s+(\p{Lu}[\p{L}'’-]+\s+\p{Lu}[\p{L}'’-]+)`)
)

type rolePattern struct {
	pattern *regexp.Regexp
	role    string
}

// rolePatterns are tried in order. Vice-president precedes president and
// "conseiller responsable" precedes "conseiller" since each contains the next.
var rolePatterns = []rolePattern{
	{regexp.MustCompile(`(?i)vice[-\s]?présidente?`), types.RoleVicePresident},
	{regexp.MustCompile(`(?i)présidente?`), types.RolePresident},
	{regexp.MustCompile(`(?i)secrétaire`), types.RoleSecretary},
	{regexp.MustCompile(`(?i)conseill(?:er|ère)\s+responsable`), types.RoleResponsibleCouncillor},
	{regexp.MustCompile(`(?i)conseill(?:er|ère)`), types.RoleCouncillor},
}

// ExtractAttendees reads the present, also-present and absent sections of the
// document text. A nil newID uses random UUIDs. The same person listed twice
// yields two attendees.
func ExtractAttendees(text string, newID IDFunc) []types.Attendee {
	if newID == nil {
		newID = uuid.NewString
	}

	attendees := []types.Attendee{}

	if m := presentBlockPattern.FindStringSubmatch(text); m != nil {
		attendees = appendPeople(attendees, m[1], newID)
	}
	if m := alsoPresentBlockPattern.FindStringSubmatch(text); m != nil {
		attendees = appendPeople(attendees, m[1], newID)
	}
	if m := absentLinePattern.FindStringSubmatch(text); m != nil {
		for _, a := range absentNamePattern.FindAllStringSubmatch(m[1], -1) {
			attendees = append(attendees, types.Attendee{
				ID:        newID(),
				Name:      a[1] + " " + a[2],
				Role:      types.RoleMember,
				IsPresent: false,
			})
		}
	}

	return attendees
}

func appendPeople(attendees []types.Attendee, block string, newID IDFunc) []types.Attendee {
	for _, person := range ParsePeople(block) {
		person.ID = newID()
		person.IsPresent = true
		attendees = append(attendees, person)
	}
	return attendees
}

// ParsePeople reads "M./Mme Name[, role]" entries from a block of text.
// Each entry runs until the next title marker. IDs are left empty.
func ParsePeople(block string) []types.Attendee {
	starts := titleMarkerPattern.FindAllStringSubmatchIndex(block, -1)

	var people []types.Attendee
	for i, loc := range starts {
		end := len(block)
		if i+1 < len(starts) {
			end = starts[i+1][2]
		}
		chunk := block[loc[2]:end]

		m := attendeePattern.FindStringSubmatch(chunk)
		if m == nil {
			continue
		}
		name := strings.TrimSpace(m[2])
		if utf8.RuneCountInString(name) < minNameLen {
			continue
		}
		people = append(people, types.Attendee{
			Name: m[1] + " " + name,
			Role: MatchRole(m[3]),
		})
	}
	return people
}

// MatchRole maps free role text to one of the fixed role labels.
func MatchRole(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return types.RoleMember
	}
	for _, rp := range rolePatterns {
		if rp.pattern.MatchString(text) {
			return rp.role
		}
	}
	return types.RoleMember
}
