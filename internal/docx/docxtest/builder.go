// Package docxtest builds small in-memory .docx files for tests.
package docxtest

import (
	"archive/zip"
	"bytes"
	"fmt"
	"html"
	"strings"
	"testing"
)

// Numbering IDs declared in the generated numbering part.
const (
	DecimalList = "1"
	BulletList  = "2"
)

// Run is a span of text with optional bold formatting.
type Run struct {
	Text string
	Bold bool
}

// Paragraph describes one w:p element.
type Paragraph struct {
	Style string
	NumID string
	Runs  []Run
}

// Heading returns a "heading 1" paragraph.
func Heading(text string) Paragraph {
	return Paragraph{Style: "Heading1", Runs: []Run{{Text: text}}}
}

// Para returns a plain paragraph.
func Para(text string) Paragraph {
	return Paragraph{Runs: []Run{{Text: text}}}
}

// Bold returns a paragraph whose only run is bold.
func Bold(text string) Paragraph {
	return Paragraph{Runs: []Run{{Text: text, Bold: true}}}
}

// Numbered returns a decimal list paragraph.
func Numbered(text string) Paragraph {
	return Paragraph{Style: "ListParagraph", NumID: DecimalList, Runs: []Run{{Text: text}}}
}

// Bullet returns a bulleted list paragraph.
func Bullet(text string) Paragraph {
	return Paragraph{Style: "ListParagraph", NumID: BulletList, Runs: []Run{{Text: text}}}
}

// Lines returns one plain paragraph per line of text.
func Lines(text string) []Paragraph {
	var out []Paragraph
	for _, line := range strings.Split(text, "\n") {
		out = append(out, Para(line))
	}
	return out
}

// Build assembles a .docx archive containing the given paragraphs.
func Build(tb testing.TB, paragraphs ...Paragraph) []byte {
	tb.Helper()

	var body strings.Builder
	for _, p := range paragraphs {
		body.WriteString("<w:p>")
		if p.Style != "" || p.NumID != "" {
			body.WriteString("<w:pPr>")
			if p.Style != "" {
				fmt.Fprintf(&body, `<w:pStyle w:val="%s"/>`, p.Style)
			}
			if p.NumID != "" {
				fmt.Fprintf(&body, `<w:numPr><w:ilvl w:val="0"/><w:numId w:val="%s"/></w:numPr>`, p.NumID)
			}
			body.WriteString("</w:pPr>")
		}
		for _, r := range p.Runs {
			body.WriteString("<w:r>")
			if r.Bold {
				body.WriteString("<w:rPr><w:b/></w:rPr>")
			}
			fmt.Fprintf(&body, `<w:t xml:space="preserve">%s</w:t>`, html.EscapeString(r.Text))
			body.WriteString("</w:r>")
		}
		body.WriteString("</w:p>")
	}

	parts := map[string]string{
		"[Content_Types].xml": contentTypes,
		"word/document.xml":   fmt.Sprintf(documentTemplate, body.String()),
		"word/styles.xml":     styles,
		"word/numbering.xml":  numbering,
	}
	return Zip(tb, parts)
}

// Zip writes the given parts into a zip archive.
func Zip(tb testing.TB, parts map[string]string) []byte {
	tb.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range parts {
		w, err := zw.Create(name)
		if err != nil {
			tb.Fatalf("create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			tb.Fatalf("write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		tb.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

const documentTemplate = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>%s<w:sectPr/></w:body></w:document>`

const contentTypes = `<?xml version="1.0" encoding="UTF-8"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`

const styles = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:style w:type="paragraph" w:styleId="Normal"><w:name w:val="Normal"/></w:style>
<w:style w:type="paragraph" w:styleId="Heading1"><w:name w:val="heading 1"/></w:style>
<w:style w:type="paragraph" w:styleId="Heading2"><w:name w:val="heading 2"/></w:style>
<w:style w:type="paragraph" w:styleId="ListParagraph"><w:name w:val="List Paragraph"/></w:style>
</w:styles>`

const numbering = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:numbering xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:abstractNum w:abstractNumId="10"><w:lvl w:ilvl="0"><w:numFmt w:val="decimal"/></w:lvl></w:abstractNum>
<w:abstractNum w:abstractNumId="20"><w:lvl w:ilvl="0"><w:numFmt w:val="bullet"/></w:lvl></w:abstractNum>
<w:num w:numId="1"><w:abstractNumId w:val="10"/></w:num>
<w:num w:numId="2"><w:abstractNumId w:val="20"/></w:num>
</w:numbering>`
