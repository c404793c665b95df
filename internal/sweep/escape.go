package sweep

import (
	"regexp"
	"slices"
	"strings"
)

// KnownComponents are tags that render as HTML or site components and are
// never escaped.
var KnownComponents = []string{"Tabs", "TabItem", "details", "summary", "br", "hr", "img", "a", "p", "div", "span"}

var (
	codeRegion       = regexp.MustCompile("(```[\\s\\S]*?```|`[^`]+`)")
	lowerPlaceholder = regexp.MustCompile(`<([a-z_][a-z0-9_]*)>`)
	upperPlaceholder = regexp.MustCompile(`<([A-Z][a-zA-Z0-9_]*)>`)
	simpleWord       = regexp.MustCompile(`^[A-Z][a-z]*$`)
	bareBraces       = regexp.MustCompile(`\{([a-zA-Z_][a-zA-Z0-9_]*)\}`)
)

// EscapeAngleBrackets wraps placeholder tokens such as <name> or <Lib> in
// inline code so the site's MDX parser does not read them as tags. Text in
// code spans and fences is left alone.
func EscapeAngleBrackets(content string) string {
	var sb strings.Builder
	last := 0
	for _, loc := range codeRegion.FindAllStringIndex(content, -1) {
		sb.WriteString(escapePlaceholders(content[last:loc[0]]))
		sb.WriteString(content[loc[0]:loc[1]])
		last = loc[1]
	}
	sb.WriteString(escapePlaceholders(content[last:]))
	return sb.String()
}

func escapePlaceholders(s string) string {
	s = lowerPlaceholder.ReplaceAllStringFunc(s, func(m string) string {
		if slices.Contains(KnownComponents, m[1:len(m)-1]) {
			return m
		}
		return "`" + m + "`"
	})
	return upperPlaceholder.ReplaceAllStringFunc(s, func(m string) string {
		tag := m[1 : len(m)-1]
		if slices.Contains(KnownComponents, tag) {
			return m
		}
		if simpleWord.MatchString(tag) || strings.Contains(tag, "_") {
			return "`" + m + "`"
		}
		return m
	})
}

// EscapeCurlyBraces escapes bare {identifier} tokens outside fenced code.
// Lines that already contain an escaped brace are left untouched.
func EscapeCurlyBraces(content string) string {
	lines := strings.Split(content, "\n")
	inFence := false
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inFence = !inFence
			continue
		}
		if inFence || strings.Contains(line, `\{`) {
			continue
		}
		lines[i] = bareBraces.ReplaceAllString(line, `\{${1}\}`)
	}
	return strings.Join(lines, "\n")
}
