package transform

import (
	"path"
	"regexp"
	"strings"
)

// LinkContext identifies where a document was fetched from.
type LinkContext struct {
	Org        string
	Repo       string
	Ref        string
	SourcePath string
}

// LinkRewriter is the link stage of a transform. Implementations must be
// idempotent: rewriting already rewritten text returns it unchanged.
type LinkRewriter interface {
	Rewrite(body string, lc LinkContext) string
}

// IdentityLinks leaves links untouched.
type IdentityLinks struct{}

// Rewrite returns body as is.
func (IdentityLinks) Rewrite(body string, _ LinkContext) string {
	return body
}

// RepoLinks rewrites repository-relative inline links to absolute GitHub URLs.
// Absolute URLs, root-relative paths, anchors and links escaping the
// repository are left alone, as is anything inside fenced code.
type RepoLinks struct{}

var (
	inlineLink = regexp.MustCompile(`(!?)(\[[^\]\n]*\])\(([^()\s]+)((?:\s+"[^"\n]*")?)\)`)
	hasScheme  = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*:`)
)

// Rewrite implements LinkRewriter.
func (RepoLinks) Rewrite(body string, lc LinkContext) string {
	lines := strings.Split(body, "\n")
	inFence := false
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inFence = !inFence
			continue
		}
		if inFence || !strings.Contains(line, "](") {
			continue
		}
		lines[i] = inlineLink.ReplaceAllStringFunc(line, func(m string) string {
			sub := inlineLink.FindStringSubmatch(m)
			image, text, target, title := sub[1] == "!", sub[2], sub[3], sub[4]
			abs, ok := resolveLink(target, image, lc)
			if !ok {
				return m
			}
			return sub[1] + text + "(" + abs + title + ")"
		})
	}
	return strings.Join(lines, "\n")
}

// resolveLink maps a relative target to its browse URL.
func resolveLink(target string, image bool, lc LinkContext) (string, bool) {
	if target == "" || strings.HasPrefix(target, "#") || strings.HasPrefix(target, "/") || hasScheme.MatchString(target) {
		return "", false
	}

	file, suffix := target, ""
	if i := strings.IndexAny(target, "?#"); i >= 0 {
		file, suffix = target[:i], target[i:]
	}
	if file == "" {
		return "", false
	}

	joined := path.Join(path.Dir(lc.SourcePath), file)
	if joined == ".." || strings.HasPrefix(joined, "../") {
		return "", false
	}

	ref := lc.Ref
	if ref == "" {
		ref = "HEAD"
	}
	kind := "blob"
	if image {
		kind = "raw"
	}
	return RepoURL(lc.Org, lc.Repo) + "/" + kind + "/" + ref + "/" + joined + suffix, true
}
