// Package transform rewrites fetched upstream markdown into the form the docs
// site expects: synthesized front matter, optional link rewriting, and a
// trailing source attribution.
package transform

import (
	"fmt"
	"path"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/klauern/docsync/internal/logging"
	"github.com/klauern/docsync/internal/mapping"
	"github.com/klauern/docsync/internal/markdown"
	"github.com/klauern/docsync/internal/resolve"
)

// Document is the intermediate result of transforming one file.
type Document struct {
	// Raw is the fetched content before any change.
	Raw string
	// FrontMatter is set only when the transformer synthesized a block.
	FrontMatter *markdown.FrontMatter
	// Body is the content after link rewriting, without synthesized front matter.
	Body string
	// Attribution is the line identifying the upstream repository.
	Attribution string
}

// Render returns the document text: front matter, body, then the attribution
// block unless the exact attribution line is already present.
func (d Document) Render() (string, error) {
	var sb strings.Builder
	if d.FrontMatter != nil {
		fm, err := d.FrontMatter.Render()
		if err != nil {
			return "", err
		}
		sb.WriteString(fm)
		sb.WriteString("\n")
	}
	sb.WriteString(d.Body)

	out := sb.String()
	if d.Attribution != "" && !strings.Contains(out, d.Attribution) {
		out += AttributionBlock(d.Attribution)
	}
	return out, nil
}

// Transformer applies the normalization stages in a fixed order.
type Transformer struct {
	org     string
	parents []mapping.ParentRule
	// dests holds every rule destination per repository name.
	dests map[string][]string
	links LinkRewriter
}

// Option configures a Transformer.
type Option func(*Transformer)

// WithLinkRewriter replaces the default identity link stage.
func WithLinkRewriter(lr LinkRewriter) Option {
	return func(t *Transformer) {
		if lr != nil {
			t.links = lr
		}
	}
}

// WithParentRules overrides the parent derivation order.
func WithParentRules(rules []mapping.ParentRule) Option {
	return func(t *Transformer) {
		t.parents = rules
	}
}

// WithRepositories makes every file of a listed repository share one parent,
// derived from all of that repository's rule destinations.
func WithRepositories(repos []mapping.Repository) Option {
	return func(t *Transformer) {
		t.dests = make(map[string][]string, len(repos))
		for _, r := range repos {
			dests := make([]string, 0, len(r.Rules))
			for _, rule := range r.Rules {
				dests = append(dests, rule.Dest)
			}
			t.dests[r.Name] = dests
		}
	}
}

// New creates a transformer for the given organization using the default
// parent rules and no link rewriting.
func New(org string, opts ...Option) *Transformer {
	if org == "" {
		org = mapping.DefaultOrganization
	}
	t := &Transformer{
		org:     org,
		parents: mapping.DefaultParentRules(),
		links:   IdentityLinks{},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// NewForTable creates a transformer using the table's organization,
// repositories and parent rules.
func NewForTable(table *mapping.Table, opts ...Option) *Transformer {
	base := []Option{WithParentRules(table.Parents()), WithRepositories(table.Repositories)}
	return New(table.Organization, append(base, opts...)...)
}

// Parent returns the navigation parent for task. A repository the transformer
// knows about gets the same parent for all of its files; any other task is
// judged by its own destination path.
func (t *Transformer) Parent(task resolve.Task) string {
	if dests, ok := t.dests[task.Repo]; ok {
		return DeriveParent(dests, t.parents)
	}
	return DeriveParent([]string{task.DestPath}, t.parents)
}

// Build runs the stages and returns the intermediate document.
func (t *Transformer) Build(raw string, task resolve.Task) Document {
	doc := Document{
		Raw:         raw,
		Attribution: t.AttributionLine(task.Repo),
	}

	raw = strings.TrimPrefix(raw, markdown.BOM)
	if !strings.HasPrefix(raw, markdown.Delimiter) {
		fm := markdown.NewFrontMatter()
		fm.Set("title", DeriveTitle(raw, task.SourcePath))
		fm.Set("parent", t.Parent(task))
		doc.FrontMatter = fm
	}

	// Existing front matter is never passed to the link stage.
	parts := markdown.Split(raw)
	doc.Body = parts.Head + t.links.Rewrite(parts.Body, LinkContext{
		Org:        t.org,
		Repo:       task.Repo,
		Ref:        task.Ref,
		SourcePath: task.SourcePath,
	})
	return doc
}

// Transform returns the normalized content for one fetched file.
// Applying it to its own output returns the output unchanged.
func (t *Transformer) Transform(raw string, task resolve.Task) (string, error) {
	doc := t.Build(raw, task)
	out, err := doc.Render()
	if err != nil {
		logging.Warn("content transformation failed",
			logging.Repo(task.Repo),
			logging.Path(task.SourcePath),
			logging.Err(err),
		)
		return "", fmt.Errorf("failed to transform %s/%s: %w", task.Repo, task.SourcePath, err)
	}

	logging.Debug("transformed content",
		logging.Repo(task.Repo),
		logging.Path(task.SourcePath),
		logging.Dest(task.DestPath),
		logging.Operation("transform"),
	)
	return out, nil
}

// AttributionLine cites the organization, repository and its browse URL.
func (t *Transformer) AttributionLine(repo string) string {
	return fmt.Sprintf("*Source: [%s/%s](%s)*", t.org, repo, RepoURL(t.org, repo))
}

// AttributionBlock is the trailing block appended for line.
func AttributionBlock(line string) string {
	return "\n\n---\n" + line + "\n"
}

// RepoURL returns the GitHub browse URL for a repository.
func RepoURL(org, repo string) string {
	return "https://github.com/" + org + "/" + repo
}

// DeriveTitle returns the first level-one heading within the first
// markdown.TitleScanLines lines of raw, or a title built from the file's base
// name when there is none.
func DeriveTitle(raw, sourcePath string) string {
	if title, ok := markdown.FirstH1(raw, markdown.TitleScanLines); ok {
		return title
	}

	base := path.Base(sourcePath)
	base = strings.TrimSuffix(base, path.Ext(base))
	base = strings.NewReplacer("-", " ", "_", " ").Replace(base)
	return cases.Title(language.English).String(strings.Join(strings.Fields(base), " "))
}

// DeriveParent returns the parent of the first rule whose match string is a
// substring of any of dests, or mapping.DefaultParent. Rule order decides,
// not the order of dests.
func DeriveParent(dests []string, rules []mapping.ParentRule) string {
	for _, r := range rules {
		if r.Match == "" {
			continue
		}
		for _, d := range dests {
			if strings.Contains(d, r.Match) {
				return r.Parent
			}
		}
	}
	return mapping.DefaultParent
}
