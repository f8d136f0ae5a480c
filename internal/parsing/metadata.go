package parsing

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/jonathan/committee-minutes/internal/types"
)

// defaultMeetingTime is appended to every extracted date; minutes never
// state the time reliably.
const defaultMeetingTime = "T19:00"

var (
	datePattern          = regexp.MustCompile(`(\d{1,2})\s+(\p{L}+)\s+(\d{4})`)
	meetingNumberPattern = regexp.MustCompile(`(?i)(\d+)\s*(?:e|è)(?:me)?\s+ASSEMBLÉE`)
	titlePattern         = regexp.MustCompile(`(?i)PROCÈS-VERBAL[^.]*\.`)
)

var frenchMonths = map[string]string{
	"janvier":   "01",
	"février":   "02",
	"mars":      "03",
	"avril":     "04",
	"mai":       "05",
	"juin":      "06",
	"juillet":   "07",
	"août":      "08",
	"septembre": "09",
	"octobre":   "10",
	"novembre":  "11",
	"décembre":  "12",
}

// ExtractMetadata pulls the meeting date, number and title out of the
// document text. Fields that cannot be found are left empty.
func ExtractMetadata(text string) types.ParsedMeetingMetadata {
	return types.ParsedMeetingMetadata{
		Title:         ExtractTitle(text),
		Date:          ExtractDate(text),
		MeetingNumber: ExtractMeetingNumber(text),
	}
}

// ExtractDate finds the first "<day> <mois> <year>" and returns it as
// YYYY-MM-DDT19:00. An unknown month name yields "".
func ExtractDate(text string) string {
	m := datePattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	month, ok := frenchMonths[strings.ToLower(m[2])]
	if !ok {
		return ""
	}
	day, err := strconv.Atoi(m[1])
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%s-%s-%02d%s", m[3], month, day, defaultMeetingTime)
}

// ExtractMeetingNumber finds "<n>e ASSEMBLÉE" and returns n zero-padded to
// two digits.
func ExtractMeetingNumber(text string) string {
	m := meetingNumberPattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%02d", n)
}

// ExtractTitle returns the first "PROCÈS-VERBAL ..." sentence, period
// included, on a single line.
func ExtractTitle(text string) string {
	return collapseWhitespace(titlePattern.FindString(text))
}
