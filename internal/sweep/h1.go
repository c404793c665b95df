package sweep

import (
	"strings"

	"github.com/klauern/docsync/internal/markdown"
)

// MatchMode selects how a heading is compared with the front matter title.
type MatchMode string

const (
	// MatchStrict requires the normalized texts to be equal.
	MatchStrict MatchMode = "strict"
	// MatchLoose also accepts either normalized text containing the other.
	MatchLoose MatchMode = "loose"
)

// IsValid returns true if the mode is recognized.
func (m MatchMode) IsValid() bool {
	return m == MatchStrict || m == MatchLoose
}

// String returns the string representation.
func (m MatchMode) String() string {
	return string(m)
}

// Matches reports whether heading duplicates title under m. Texts that
// normalize to nothing never match.
func (m MatchMode) Matches(heading, title string) bool {
	h, t := markdown.Normalize(heading), markdown.Normalize(title)
	if h == "" || t == "" {
		return false
	}
	if h == t {
		return true
	}
	return m == MatchLoose && (strings.Contains(h, t) || strings.Contains(t, h))
}

// HasH1 reports whether body carries a level-one heading within its first
// markdown.TitleScanLines lines, ignoring leading blank space.
func HasH1(body string) bool {
	_, ok := markdown.FirstH1(strings.TrimLeft(body, " \t\r\n"), markdown.TitleScanLines)
	return ok
}

// AddMissingH1 inserts "# <title>" after the front matter when the body has no
// H1 near its top. Files without front matter or a title are returned as is.
func AddMissingH1(content string) string {
	doc := markdown.Split(content)
	title := doc.Title()
	if title == "" || HasH1(doc.Body) {
		return content
	}
	return doc.Head + "\n# " + title + "\n" + doc.Body
}

// Duplicate is an H1 that repeats the front matter title.
type Duplicate struct {
	// Line is the one-based line number in the file.
	Line int
	// Heading is the heading text.
	Heading string
	// Title is the front matter title.
	Title string

	bodyLine int
}

// FindDuplicateH1 returns the first H1 of content whose text duplicates the
// front matter title. Headings in code blocks are ignored.
func FindDuplicateH1(content string, mode MatchMode) (Duplicate, bool) {
	doc := markdown.Split(content)
	title := doc.Title()
	if title == "" {
		return Duplicate{}, false
	}

	headOffset := strings.Count(doc.Head, "\n")
	for _, h := range markdown.H1Headings(doc.Body) {
		if mode.Matches(h.Text, title) {
			return Duplicate{
				Line:     headOffset + h.Line + 1,
				Heading:  h.Text,
				Title:    title,
				bodyLine: h.Line,
			}, true
		}
	}
	return Duplicate{}, false
}

// RemoveDuplicateH1 drops the duplicate heading found by FindDuplicateH1 and
// the blank line following it.
func RemoveDuplicateH1(content string, mode MatchMode) string {
	dup, ok := FindDuplicateH1(content, mode)
	if !ok {
		return content
	}

	doc := markdown.Split(content)
	lines := strings.Split(doc.Body, "\n")
	i := dup.bodyLine
	drop := 1
	if i+1 < len(lines) && strings.TrimSpace(lines[i+1]) == "" {
		drop = 2
	}
	lines = append(lines[:i], lines[i+drop:]...)
	return doc.Head + strings.Join(lines, "\n")
}
