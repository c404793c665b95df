package markdown

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// TitleScanLines is how many leading lines are searched for a title heading.
const TitleScanLines = 10

// BOM is the UTF-8 byte order mark some editors write at the start of a file.
const BOM = "\ufeff"

var (
	// A single # followed by whitespace and text; ## and deeper do not match.
	h1Line = regexp.MustCompile(`^#[ \t]+(.*?)(?:[ \t]+#+)?[ \t]*$`)

	nonAlnum = regexp.MustCompile(`[^a-z0-9]`)
)

// ParseH1 returns the heading text if line is an ATX level-one heading.
func ParseH1(line string) (string, bool) {
	m := h1Line.FindStringSubmatch(strings.TrimRight(line, "\r"))
	if m == nil {
		return "", false
	}
	title := strings.TrimSpace(m[1])
	if title == "" {
		return "", false
	}
	return title, true
}

// FirstH1 scans the first maxLines lines of content for a level-one heading.
// A leading byte order mark is ignored.
func FirstH1(content string, maxLines int) (string, bool) {
	content = strings.TrimPrefix(content, BOM)
	for i, line := range strings.Split(content, "\n") {
		if i >= maxLines {
			break
		}
		if title, ok := ParseH1(line); ok {
			return title, true
		}
	}
	return "", false
}

// Normalize lowercases s and drops everything but ASCII letters and digits.
func Normalize(s string) string {
	return nonAlnum.ReplaceAllString(strings.ToLower(s), "")
}

// Heading is a level-one ATX heading located in a markdown body.
type Heading struct {
	// Line is the zero-based line index within the parsed text.
	Line int
	// Text is the heading content without the marker.
	Text string
}

var parser = goldmark.New().Parser()

// H1Headings returns the ATX level-one headings of body in document order.
// Lines inside fenced or indented code are never reported.
func H1Headings(body string) []Heading {
	src := []byte(body)
	doc := parser.Parse(text.NewReader(src))

	var out []Heading
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		if h.Level != 1 || h.Lines().Len() == 0 {
			return ast.WalkSkipChildren, nil
		}

		seg := h.Lines().At(0)
		lineStart := bytes.LastIndexByte(src[:seg.Start], '\n') + 1
		if !bytes.HasPrefix(bytes.TrimLeft(src[lineStart:seg.Start], " "), []byte("#")) {
			// setext heading
			return ast.WalkSkipChildren, nil
		}

		var sb strings.Builder
		for i := 0; i < h.Lines().Len(); i++ {
			s := h.Lines().At(i)
			sb.Write(s.Value(src))
		}
		out = append(out, Heading{
			Line: bytes.Count(src[:seg.Start], []byte("\n")),
			Text: strings.TrimSpace(sb.String()),
		})
		return ast.WalkSkipChildren, nil
	})
	return out
}
