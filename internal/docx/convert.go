// Package docx converts Office Open XML word-processing documents to simple HTML.
//
// Only the structure the minutes parser relies on is preserved: headings,
// paragraphs, list items, bold runs, tables and line breaks.
package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"io"
	"sort"
	"strings"
)

// MIMEType is the media type of .docx files.
const MIMEType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// Result is the HTML produced from a document plus any non-fatal warnings.
type Result struct {
	HTML     string
	Warnings []string
}

// Convert turns raw .docx bytes into HTML.
func Convert(data []byte) (*Result, error) {
	if len(data) == 0 {
		return nil, &ConversionError{Message: "empty document"}
	}

	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &ConversionError{Message: "not a word-processing document", Cause: err}
	}

	body, err := readPart(reader, documentPart)
	if err != nil {
		return nil, &ConversionError{Message: "failed to read " + documentPart, Cause: err}
	}
	if body == nil {
		return nil, &ConversionError{Message: "missing " + documentPart}
	}

	// Styles and numbering are optional; a document without them is still convertible.
	stylesContent, _ := readPart(reader, stylesPart)
	numberingContent, _ := readPart(reader, numberingPart)

	c := &converter{
		styles:    parseStyles(stylesContent),
		numbering: parseNumbering(numberingContent),
		warnings:  make(map[string]bool),
	}
	if err := c.run(xml.NewDecoder(bytes.NewReader(body))); err != nil {
		return nil, &ConversionError{Message: "malformed " + documentPart, Cause: err}
	}

	return &Result{HTML: c.out.String(), Warnings: c.sortedWarnings()}, nil
}

// skipped elements carry content that is not part of the visible body text.
var skipped = map[string]bool{
	"del":               true,
	"instrText":         true,
	"drawing":           true,
	"pict":              true,
	"AlternateContent":  true,
	"txbxContent":       true,
	"sectPr":            true,
	"footnoteReference": true,
}

type converter struct {
	styles    map[string]string
	numbering numbering
	out       strings.Builder
	openList  string
	warnings  map[string]bool
}

type run struct {
	text string
	bold bool
}

type paragraph struct {
	styleID string
	numID   string
	level   string
	runs    []run
}

func (c *converter) run(d *xml.Decoder) error {
	for {
		tok, err := d.Token()
		if errors.Is(err, io.EOF) {
			c.closeList()
			return nil
		}
		if err != nil {
			return err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				p, err := readParagraph(d)
				if err != nil {
					return err
				}
				c.writeParagraph(p)
			case "tbl":
				c.closeList()
				c.out.WriteString("<table>\n")
			case "tr":
				c.closeList()
				c.out.WriteString("<tr>")
			case "tc":
				c.closeList()
				c.out.WriteString("<td>")
			default:
				if skipped[t.Name.Local] {
					if err := d.Skip(); err != nil {
						return err
					}
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "tbl":
				c.closeList()
				c.out.WriteString("</table>\n")
			case "tr":
				c.closeList()
				c.out.WriteString("</tr>\n")
			case "tc":
				c.closeList()
				c.out.WriteString("</td>")
			}
		}
	}
}

// readParagraph consumes tokens up to the end of the current w:p element.
func readParagraph(d *xml.Decoder) (paragraph, error) {
	var (
		p     paragraph
		cur   *run
		inPPr bool
		inRPr bool
		depth = 1
	)

	for depth > 0 {
		tok, err := d.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return p, io.ErrUnexpectedEOF
			}
			return p, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			name := t.Name.Local
			if skipped[name] {
				if err := d.Skip(); err != nil {
					return p, err
				}
				continue
			}
			depth++

			switch {
			case name == "pPr":
				inPPr = true
			case name == "pStyle" && inPPr:
				p.styleID = attr(t, "val")
			case name == "numId" && inPPr:
				p.numID = attr(t, "val")
			case name == "ilvl" && inPPr:
				p.level = attr(t, "val")
			case name == "r":
				cur = &run{}
			case name == "rPr" && cur != nil:
				inRPr = true
			case name == "b" && inRPr:
				cur.bold = isOn(attr(t, "val"))
			case name == "rStyle" && inRPr:
				if s := strings.ToLower(attr(t, "val")); strings.Contains(s, "strong") || strings.Contains(s, "bold") {
					cur.bold = true
				}
			case name == "t" && cur != nil:
				var text struct {
					Value string `xml:",chardata"`
				}
				if err := d.DecodeElement(&text, &t); err != nil {
					return p, err
				}
				depth--
				cur.text += text.Value
			case name == "tab" && cur != nil && !inPPr:
				cur.text += "\t"
			case (name == "br" || name == "cr") && cur != nil:
				cur.text += "\n"
			case name == "noBreakHyphen" && cur != nil:
				cur.text += "-"
			}
		case xml.EndElement:
			depth--
			switch t.Name.Local {
			case "pPr":
				inPPr = false
			case "rPr":
				inRPr = false
			case "r":
				if cur != nil && cur.text != "" {
					p.runs = append(p.runs, *cur)
				}
				cur = nil
			}
		}
	}

	return p, nil
}

func (c *converter) writeParagraph(p paragraph) {
	if len(p.runs) == 0 {
		return
	}

	level := headingLevel(p.styleID, c.styles)
	if level == 0 && p.styleID != "" {
		if _, known := c.styles[p.styleID]; !known && len(c.styles) > 0 {
			c.warnings[fmt.Sprintf("unrecognised paragraph style: %s", p.styleID)] = true
		}
	}

	var tag string
	switch {
	case level > 0:
		c.closeList()
		tag = fmt.Sprintf("h%d", level)
	case p.numID != "" && p.numID != "0":
		listTag := c.numbering.listTag(p.numID, p.level)
		if c.openList != listTag {
			c.closeList()
			c.out.WriteString("<" + listTag + ">\n")
			c.openList = listTag
		}
		tag = "li"
	default:
		c.closeList()
		tag = "p"
	}

	c.out.WriteString("<" + tag + ">")
	writeRuns(&c.out, p.runs)
	c.out.WriteString("</" + tag + ">\n")
}

// writeRuns emits run text, merging adjacent bold runs into one <strong>.
func writeRuns(out *strings.Builder, runs []run) {
	inStrong := false
	for _, r := range runs {
		if r.bold && !inStrong {
			out.WriteString("<strong>")
			inStrong = true
		} else if !r.bold && inStrong {
			out.WriteString("</strong>")
			inStrong = false
		}
		lines := strings.Split(r.text, "\n")
		for i, line := range lines {
			if i > 0 {
				out.WriteString("<br />")
			}
			out.WriteString(html.EscapeString(line))
		}
	}
	if inStrong {
		out.WriteString("</strong>")
	}
}

func (c *converter) closeList() {
	if c.openList == "" {
		return
	}
	c.out.WriteString("</" + c.openList + ">\n")
	c.openList = ""
}

func (c *converter) sortedWarnings() []string {
	if len(c.warnings) == 0 {
		return nil
	}
	out := make([]string, 0, len(c.warnings))
	for w := range c.warnings {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

func attr(se xml.StartElement, local string) string {
	for _, a := range se.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// isOn interprets an OOXML toggle property; a missing value means on.
func isOn(val string) bool {
	switch strings.ToLower(val) {
	case "0", "false", "off", "none":
		return false
	default:
		return true
	}
}
