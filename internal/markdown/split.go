package markdown

import "strings"

// Document is a markdown file split at its front matter.
type Document struct {
	// FrontMatter is the raw YAML between the delimiters (LF line endings).
	FrontMatter string
	// Head is the original text up to and including the closing delimiter line.
	Head string
	// Body is the text after the closing delimiter line.
	Body string
	// HasFrontMatter reports whether a closed block was found.
	HasFrontMatter bool
}

// HasFrontMatterPrefix reports whether content opens a front matter block.
func HasFrontMatterPrefix(content string) bool {
	return strings.HasPrefix(content, Delimiter+"\n") || strings.HasPrefix(content, Delimiter+"\r\n")
}

// Split separates the front matter block from the body. An unclosed block
// is treated as body text.
func Split(content string) Document {
	whole := Document{Body: content}
	if !HasFrontMatterPrefix(content) {
		return whole
	}

	rest := content[len(Delimiter):]
	rest = strings.TrimPrefix(strings.TrimPrefix(rest, "\r"), "\n")
	offset := len(content) - len(rest)

	// Scan line by line for the closing delimiter.
	pos := 0
	for pos <= len(rest) {
		end := strings.IndexByte(rest[pos:], '\n')
		var line string
		next := len(rest) + 1
		if end < 0 {
			line = rest[pos:]
		} else {
			line = rest[pos : pos+end]
			next = pos + end + 1
		}

		if strings.TrimRight(line, "\r \t") == Delimiter {
			fm := strings.ReplaceAll(rest[:pos], "\r\n", "\n")
			headEnd := offset + min(next, len(rest))
			return Document{
				FrontMatter:    strings.TrimSuffix(fm, "\n"),
				Head:           content[:headEnd],
				Body:           content[headEnd:],
				HasFrontMatter: true,
			}
		}
		pos = next
	}
	return whole
}

// Title returns the front matter title, unquoted and trimmed.
func (d Document) Title() string {
	if !d.HasFrontMatter {
		return ""
	}
	fm, err := ParseFrontMatter(d.FrontMatter)
	if err != nil {
		return ""
	}
	title, _ := fm.Get("title")
	return strings.TrimSpace(title)
}
