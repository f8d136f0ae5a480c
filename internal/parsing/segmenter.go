package parsing

import (
	"strings"

	"github.com/jonathan/committee-minutes/internal/types"
)

// MinuteItem is a resolution or comment found while walking the document,
// tagged with the section title it was recorded under.
type MinuteItem struct {
	SectionTitle string
	Type         types.MinuteType
	Number       string
	// Content is the newline-joined text of the blocks following the marker.
	Content string
}

// Segmenter walks text blocks and groups body text under resolution and
// comment markers.
type Segmenter struct {
	signatureNames []string
}

// NewSegmenter creates a segmenter. Extra names are treated as signature
// labels in addition to the built-in officer titles.
func NewSegmenter(extraSignatureNames ...string) *Segmenter {
	names := make([]string, 0, len(defaultSignatureNames)+len(extraSignatureNames))
	names = append(names, defaultSignatureNames...)
	names = append(names, extraSignatureNames...)
	return &Segmenter{signatureNames: names}
}

// Segment runs the blocks through a fresh state and returns the items in
// document order.
func (s *Segmenter) Segment(blocks []types.TextBlock) []MinuteItem {
	state := s.newState()
	for _, block := range blocks {
		state.Step(block)
	}
	return state.Finish()
}

func (s *Segmenter) newState() *segmentState {
	return &segmentState{signatureNames: s.signatureNames}
}

// segmentState is the scan state carried from one block to the next.
type segmentState struct {
	signatureNames []string

	// sectionTitle is the last confirmed heading; it sticks until replaced.
	sectionTitle string
	// potentialTitle is the last heading-like line, used when no heading
	// has been confirmed.
	potentialTitle string
	current        *MinuteItem
	content        []string
	items          []MinuteItem
}

// Step consumes one block.
func (st *segmentState) Step(block types.TextBlock) {
	text := strings.TrimSpace(block.Text)
	if text == "" {
		return
	}

	if block.Kind == types.BlockHeading {
		st.setHeading(text)
		return
	}

	if number, ok := ResolutionNumber(text); ok {
		st.open(types.MinuteResolution, number)
		return
	}
	if number, ok := CommentNumber(text); ok {
		st.open(types.MinuteComment, number)
		return
	}

	if block.Emphasized && IsBoldHeading(text) {
		st.setHeading(text)
		return
	}

	if st.current == nil {
		if IsPotentialTitle(text) {
			st.potentialTitle = text
		}
		return
	}

	if isSignatureNoise(text, st.signatureNames) {
		return
	}
	st.content = append(st.content, block.Text)
}

// Finish flushes the open item and returns everything collected.
func (st *segmentState) Finish() []MinuteItem {
	st.flush()
	return st.items
}

func (st *segmentState) setHeading(title string) {
	st.flush()
	st.sectionTitle = title
	st.potentialTitle = title
}

func (st *segmentState) open(kind types.MinuteType, number string) {
	st.flush()
	title := st.sectionTitle
	if title == "" {
		title = st.potentialTitle
	}
	st.current = &MinuteItem{
		SectionTitle: title,
		Type:         kind,
		Number:       number,
	}
}

func (st *segmentState) flush() {
	if st.current == nil {
		return
	}
	st.current.Content = strings.Join(st.content, "\n")
	st.items = append(st.items, *st.current)
	st.current = nil
	st.content = nil
}
