package docx

import (
	"archive/zip"
	"encoding/xml"
	"io"
	"regexp"
	"strconv"
	"strings"
)

const (
	documentPart  = "word/document.xml"
	stylesPart    = "word/styles.xml"
	numberingPart = "word/numbering.xml"
)

// readPart returns the bytes of a named zip entry, or nil if it does not exist.
func readPart(reader *zip.Reader, name string) ([]byte, error) {
	for _, file := range reader.File {
		if file.Name != name {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return nil, err
		}
		defer func() { _ = rc.Close() }()

		return io.ReadAll(rc)
	}
	return nil, nil
}

// stylesXML represents the parts of word/styles.xml we need.
type stylesXML struct {
	Styles []struct {
		Type    string `xml:"type,attr"`
		StyleID string `xml:"styleId,attr"`
		Name    struct {
			Val string `xml:"val,attr"`
		} `xml:"name"`
	} `xml:"style"`
}

// parseStyles maps paragraph style IDs to their display names.
func parseStyles(content []byte) map[string]string {
	names := make(map[string]string)
	if len(content) == 0 {
		return names
	}

	var doc stylesXML
	if err := xml.Unmarshal(content, &doc); err != nil {
		return names
	}
	for _, s := range doc.Styles {
		if s.Type != "" && s.Type != "paragraph" {
			continue
		}
		names[s.StyleID] = s.Name.Val
	}
	return names
}

// numberingXML represents the parts of word/numbering.xml we need.
type numberingXML struct {
	AbstractNums []struct {
		ID     string `xml:"abstractNumId,attr"`
		Levels []struct {
			Level  string `xml:"ilvl,attr"`
			NumFmt struct {
				Val string `xml:"val,attr"`
			} `xml:"numFmt"`
		} `xml:"lvl"`
	} `xml:"abstractNum"`
	Nums []struct {
		ID       string `xml:"numId,attr"`
		Abstract struct {
			Val string `xml:"val,attr"`
		} `xml:"abstractNumId"`
	} `xml:"num"`
}

// numbering resolves a (numId, ilvl) pair to its number format.
type numbering map[string]map[string]string

// parseNumbering builds the numId -> level -> format table.
func parseNumbering(content []byte) numbering {
	result := make(numbering)
	if len(content) == 0 {
		return result
	}

	var doc numberingXML
	if err := xml.Unmarshal(content, &doc); err != nil {
		return result
	}

	abstract := make(map[string]map[string]string, len(doc.AbstractNums))
	for _, a := range doc.AbstractNums {
		levels := make(map[string]string, len(a.Levels))
		for _, l := range a.Levels {
			levels[l.Level] = l.NumFmt.Val
		}
		abstract[a.ID] = levels
	}
	for _, n := range doc.Nums {
		if levels, ok := abstract[n.Abstract.Val]; ok {
			result[n.ID] = levels
		}
	}
	return result
}

// listTag returns "ul" for bullet lists and "ol" for everything else.
func (n numbering) listTag(numID, level string) string {
	if level == "" {
		level = "0"
	}
	if n[numID][level] == "bullet" {
		return "ul"
	}
	return "ol"
}

var headingStyle = regexp.MustCompile(`(?i)^(?:heading|titre|überschrift)\s*([1-6])$`)

// headingLevel returns 1-6 for heading styles and 0 otherwise.
// The display name is preferred; localized Word installs keep "heading N"
// as the name while the style ID is translated.
func headingLevel(styleID string, styles map[string]string) int {
	for _, candidate := range []string{styles[styleID], styleID} {
		m := headingStyle.FindStringSubmatch(strings.TrimSpace(candidate))
		if m == nil {
			continue
		}
		level, err := strconv.Atoi(m[1])
		if err == nil {
			return level
		}
	}
	return 0
}
