// Package mapping holds the declarative table of upstream repositories and
// the source-pattern to destination-path rules used to mirror their docs.
package mapping

import (
	"fmt"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// DefaultOrganization is the GitHub owner used when a table does not name one.
const DefaultOrganization = "FalkorDB"

// Wildcard is the only glob metacharacter a source pattern may carry.
const Wildcard = "*"

// Table is the complete, immutable mapping loaded once at startup.
type Table struct {
	// Organization is the GitHub owner of every listed repository.
	Organization string `yaml:"organization" toml:"organization"`
	// Repositories is the ordered list of upstream repositories.
	Repositories []Repository `yaml:"repositories" toml:"repositories"`
	// ParentRules decide the front matter parent of synthesized pages.
	// Order is significant: the first rule whose substring matches wins.
	ParentRules []ParentRule `yaml:"parents,omitempty" toml:"parents,omitempty"`
}

// Repository is one upstream repository and its path rules.
type Repository struct {
	Name        string `yaml:"name" toml:"name"`
	Description string `yaml:"description" toml:"description"`
	// Ref is the branch or commit to read. Empty means the run default.
	Ref   string `yaml:"ref,omitempty" toml:"ref,omitempty"`
	Rules Rules  `yaml:"paths" toml:"paths"`
}

// Rule maps a source path or pattern to a destination path.
// For wildcard sources the destination is a directory prefix.
type Rule struct {
	Source string `yaml:"source" toml:"source"`
	Dest   string `yaml:"dest" toml:"dest"`
}

// IsWildcard reports whether the rule enumerates a directory.
func (r Rule) IsWildcard() bool {
	return strings.Contains(r.Source, Wildcard)
}

// Dir returns the literal directory of a wildcard source ("" for the repo root).
func (r Rule) Dir() string {
	dir := path.Dir(r.Source)
	if dir == "." {
		return ""
	}
	return dir
}

// NamePattern returns the final path segment of a wildcard source.
func (r Rule) NamePattern() string {
	return path.Base(r.Source)
}

// Rules is an ordered rule list. In YAML it may be written either as a
// mapping (`source: dest`, order preserved) or as a list of objects.
type Rules []Rule

// UnmarshalYAML decodes both accepted shapes while keeping document order.
func (rs *Rules) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.MappingNode:
		out := make(Rules, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			var r Rule
			if err := node.Content[i].Decode(&r.Source); err != nil {
				return err
			}
			if err := node.Content[i+1].Decode(&r.Dest); err != nil {
				return err
			}
			out = append(out, r)
		}
		*rs = out
		return nil
	case yaml.SequenceNode:
		var list []Rule
		if err := node.Decode(&list); err != nil {
			return err
		}
		*rs = list
		return nil
	default:
		return fmt.Errorf("line %d: paths must be a mapping or a list", node.Line)
	}
}

// ParentRule assigns a front matter parent to destinations containing Match.
type ParentRule struct {
	Match  string `yaml:"match" toml:"match"`
	Parent string `yaml:"parent" toml:"parent"`
}

// DefaultParent is used when no parent rule matches.
const DefaultParent = "Documentation"

// DefaultParentRules returns the built-in parent priority order.
func DefaultParentRules() []ParentRule {
	return []ParentRule{
		{Match: "client-libraries", Parent: "Client Libraries"},
		{Match: "genai-tools", Parent: "GenAI Tools"},
		{Match: "algorithms", Parent: "Algorithms"},
		{Match: "commands", Parent: "Commands"},
	}
}

// Lookup returns the repository with the given name.
func (t *Table) Lookup(name string) (Repository, error) {
	for _, repo := range t.Repositories {
		if repo.Name == name {
			return repo, nil
		}
	}
	return Repository{}, &ConfigError{Repo: name, Message: "unknown repository"}
}

// Names returns the configured repository names in table order.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.Repositories))
	for _, repo := range t.Repositories {
		names = append(names, repo.Name)
	}
	return names
}

// Parents returns the parent rules, falling back to the defaults.
func (t *Table) Parents() []ParentRule {
	if len(t.ParentRules) > 0 {
		return t.ParentRules
	}
	return DefaultParentRules()
}

// Validate checks table invariants. All problems are collected.
func (t *Table) Validate() error {
	var errs Errors
	seen := make(map[string]bool, len(t.Repositories))

	for _, repo := range t.Repositories {
		if repo.Name == "" {
			errs = append(errs, &ConfigError{Field: "name", Message: "repository name is required"})
			continue
		}
		if seen[repo.Name] {
			errs = append(errs, &ConfigError{Repo: repo.Name, Field: "name", Message: "duplicate repository name"})
		}
		seen[repo.Name] = true

		if len(repo.Rules) == 0 {
			errs = append(errs, &ConfigError{Repo: repo.Name, Field: "paths", Message: "at least one path rule is required"})
		}
		for _, rule := range repo.Rules {
			if err := ValidateRule(rule); err != nil {
				err.Repo = repo.Name
				errs = append(errs, err)
			}
		}
	}

	for _, pr := range t.ParentRules {
		if pr.Match == "" || pr.Parent == "" {
			errs = append(errs, &ConfigError{Field: "parents", Message: "parent rules need both match and parent"})
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ValidateRule checks a single rule. A wildcard must appear exactly once and
// must open the final path segment, as in "docs/*.md".
func ValidateRule(rule Rule) *ConfigError {
	if rule.Source == "" || rule.Dest == "" {
		return &ConfigError{Field: "paths", Rule: rule.Source, Message: "source and dest are required"}
	}
	if strings.HasPrefix(rule.Source, "/") || strings.Contains(rule.Source, "..") {
		return &ConfigError{Field: "paths", Rule: rule.Source, Message: "source must be relative to the repository root"}
	}
	if strings.ContainsAny(rule.Source, "?[]{}\\") {
		return &ConfigError{Field: "paths", Rule: rule.Source, Message: "only the * wildcard is supported"}
	}

	n := strings.Count(rule.Source, Wildcard)
	if n == 0 {
		return nil
	}
	if n > 1 {
		return &ConfigError{Field: "paths", Rule: rule.Source, Message: "pattern must contain exactly one wildcard"}
	}
	if !strings.HasPrefix(rule.NamePattern(), Wildcard) {
		return &ConfigError{Field: "paths", Rule: rule.Source, Message: "wildcard must stand for the final path segment"}
	}
	if !doublestar.ValidatePattern(rule.Source) {
		return &ConfigError{Field: "paths", Rule: rule.Source, Message: "invalid glob pattern"}
	}
	return nil
}
