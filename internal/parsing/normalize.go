package parsing

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jonathan/committee-minutes/internal/types"
)

// blockSelector lists the elements that become text blocks, in document order.
const blockSelector = "p, h1, h2, h3, h4, h5, h6, li"

// invisibleReplacer removes zero-width characters and turns non-breaking
// spaces into plain spaces.
var invisibleReplacer = strings.NewReplacer(
	"\u200b", "",
	"\u200c", "",
	"\u200d", "",
	"\u2060", "",
	"\ufeff", "",
	"\u00ad", "",
	"\u00a0", " ",
	"\u202f", " ",
	"\u2007", " ",
)

// StripInvisible removes invisible Unicode characters and normalizes
// non-breaking spaces. Other whitespace is left untouched.
func StripInvisible(text string) string {
	return invisibleReplacer.Replace(text)
}

// NormalizedDocument is the plain text and block structure of a document.
type NormalizedDocument struct {
	Text   string
	Blocks []types.TextBlock
	// OrderedLists holds the direct item texts of every <ol>, in document order.
	OrderedLists [][]string
}

// Normalize parses converted HTML into plain text and ordered text blocks.
func Normalize(html string) (*NormalizedDocument, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("br").ReplaceWithHtml("\n")

	result := &NormalizedDocument{
		Text: StripInvisible(doc.Find("body").Text()),
	}

	doc.Find(blockSelector).Each(func(_ int, s *goquery.Selection) {
		tag := goquery.NodeName(s)
		text := StripInvisible(s.Text())
		result.Blocks = append(result.Blocks, types.TextBlock{
			Kind:       blockKind(tag),
			Tag:        tag,
			Text:       text,
			Emphasized: isEmphasized(s, text),
		})
	})

	doc.Find("ol").Each(func(_ int, s *goquery.Selection) {
		var items []string
		s.ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) {
			items = append(items, StripInvisible(li.Text()))
		})
		result.OrderedLists = append(result.OrderedLists, items)
	})

	return result, nil
}

func blockKind(tag string) types.BlockKind {
	switch tag {
	case "h1":
		return types.BlockHeading
	case "li":
		return types.BlockListItem
	default:
		return types.BlockParagraph
	}
}

// isEmphasized reports whether all visible text of the block sits inside
// <strong> or <b> descendants.
func isEmphasized(s *goquery.Selection, text string) bool {
	full := squeeze(text)
	if full == "" {
		return false
	}

	var bold strings.Builder
	s.Find("strong, b").Each(func(_ int, b *goquery.Selection) {
		if b.ParentsUntilSelection(s).Filter("strong, b").Length() > 0 {
			return
		}
		bold.WriteString(StripInvisible(b.Text()))
	})

	return squeeze(bold.String()) == full
}

// squeeze drops all whitespace so bold fragments compare equal regardless of
// the spacing between them.
func squeeze(text string) string {
	return strings.Join(strings.Fields(text), "")
}

// collapseWhitespace trims and folds runs of whitespace into single spaces.
func collapseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
