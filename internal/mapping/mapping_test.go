package mapping

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	table, err := Default()
	if err != nil {
		t.Fatalf("Default() failed: %v", err)
	}

	if table.Organization != "FalkorDB" {
		t.Errorf("Organization = %q, want FalkorDB", table.Organization)
	}
	if len(table.Repositories) == 0 {
		t.Fatal("expected embedded table to list repositories")
	}
	if _, err := table.Lookup("falkordb-py"); err != nil {
		t.Errorf("Lookup(falkordb-py) failed: %v", err)
	}
	if err := table.Validate(); err != nil {
		t.Errorf("embedded table is invalid: %v", err)
	}
}

func TestDefault_Repositories(t *testing.T) {
	table, err := Default()
	if err != nil {
		t.Fatalf("Default() failed: %v", err)
	}

	want := []struct {
		name  string
		rules int
	}{
		{"FalkorDB", 4},
		{"GraphRAG-SDK", 3},
		{"QueryWeaver", 2},
		{"falkordb-py", 2},
		{"flex", 2},
		{"falkordb-ts", 2},
		{"JFalkorDB", 2},
		{"NFalkorDB", 2},
		{"falkordb-browser", 2},
		{"FalkorDB-MCPServer", 2},
	}
	if len(table.Repositories) != len(want) {
		t.Fatalf("got %d repositories, want %d: %v", len(table.Repositories), len(want), table.Names())
	}
	for i, w := range want {
		r := table.Repositories[i]
		if r.Name != w.name {
			t.Errorf("repository %d = %q, want %q", i, r.Name, w.name)
		}
		if len(r.Rules) != w.rules {
			t.Errorf("%s has %d rules, want %d", r.Name, len(r.Rules), w.rules)
		}
		if r.Ref != "" {
			t.Errorf("%s pins ref %q, want the run default", r.Name, r.Ref)
		}
	}

	falkor, err := table.Lookup("FalkorDB")
	if err != nil {
		t.Fatal(err)
	}
	wantRules := []Rule{
		{Source: "README.md", Dest: "getting-started/overview.md"},
		{Source: "docs/commands/*.md", Dest: "commands/"},
		{Source: "docs/algorithms/*.md", Dest: "algorithms/"},
		{Source: "docs/design/*.md", Dest: "design/"},
	}
	for i, rule := range wantRules {
		if falkor.Rules[i] != rule {
			t.Errorf("FalkorDB rule %d = %+v, want %+v", i, falkor.Rules[i], rule)
		}
	}

	py, err := table.Lookup("falkordb-py")
	if err != nil {
		t.Fatal(err)
	}
	if py.Rules[0].Dest != "getting-started/client-libraries/python.md" {
		t.Errorf("falkordb-py README dest = %q", py.Rules[0].Dest)
	}
}

func TestParse_YAMLMappingPreservesOrder(t *testing.T) {
	doc := `
repositories:
  - name: Repo
    description: test
    paths:
      z.md: out/z.md
      a.md: out/a.md
      docs/*.md: out/docs
`
	table, err := Parse([]byte(doc), FormatYAML)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	repo, err := table.Lookup("Repo")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}

	want := []Rule{
		{Source: "z.md", Dest: "out/z.md"},
		{Source: "a.md", Dest: "out/a.md"},
		{Source: "docs/*.md", Dest: "out/docs"},
	}
	if len(repo.Rules) != len(want) {
		t.Fatalf("got %d rules, want %d", len(repo.Rules), len(want))
	}
	for i, r := range want {
		if repo.Rules[i] != r {
			t.Errorf("rule %d = %+v, want %+v", i, repo.Rules[i], r)
		}
	}
	if table.Organization != DefaultOrganization {
		t.Errorf("expected default organization, got %q", table.Organization)
	}
}

func TestParse_YAMLListForm(t *testing.T) {
	doc := `
organization: acme
repositories:
  - name: Repo
    ref: develop
    paths:
      - source: README.md
        dest: out/readme.md
`
	table, err := Parse([]byte(doc), FormatYAML)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	repo := table.Repositories[0]
	if repo.Ref != "develop" {
		t.Errorf("Ref = %q, want develop", repo.Ref)
	}
	if len(repo.Rules) != 1 || repo.Rules[0].Dest != "out/readme.md" {
		t.Errorf("unexpected rules: %+v", repo.Rules)
	}
}

func TestParse_TOML(t *testing.T) {
	doc := `
organization = "FalkorDB"

[[repositories]]
name = "falkordb-go"
description = "Go client"

[[repositories.paths]]
source = "README.md"
dest = "docs/client-libraries/go.md"

[[repositories.paths]]
source = "docs/*.md"
dest = "docs/client-libraries/go"
`
	table, err := Parse([]byte(doc), FormatTOML)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	repo, err := table.Lookup("falkordb-go")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if len(repo.Rules) != 2 || !repo.Rules[1].IsWildcard() {
		t.Errorf("unexpected rules: %+v", repo.Rules)
	}
}

func TestParse_RejectsUnknownFields(t *testing.T) {
	doc := `
repositories:
  - name: Repo
    pathz:
      a.md: b.md
`
	if _, err := Parse([]byte(doc), FormatYAML); err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestValidateRule(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		wantErr string
	}{
		{name: "literal file", source: "README.md"},
		{name: "nested literal", source: "docs/guide/intro.md"},
		{name: "trailing wildcard", source: "docs/*.md"},
		{name: "bare wildcard", source: "docs/*"},
		{name: "root wildcard", source: "*.md"},
		{name: "wildcard mid segment", source: "docs/a*.md", wantErr: "final path segment"},
		{name: "wildcard in directory", source: "docs/*/intro.md", wantErr: "final path segment"},
		{name: "double wildcard", source: "docs/**/*.md", wantErr: "exactly one wildcard"},
		{name: "question mark", source: "docs/?.md", wantErr: "only the * wildcard"},
		{name: "absolute", source: "/etc/passwd", wantErr: "relative"},
		{name: "parent escape", source: "../x.md", wantErr: "relative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRule(Rule{Source: tt.source, Dest: "out"})
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestValidate_CollectsErrors(t *testing.T) {
	table := &Table{
		Repositories: []Repository{
			{Name: "a", Rules: Rules{{Source: "docs/a*.md", Dest: "out"}}},
			{Name: "a", Rules: Rules{{Source: "README.md", Dest: "out.md"}}},
			{Name: "empty"},
		},
	}

	err := table.Validate()
	if err == nil {
		t.Fatal("expected validation errors")
	}

	var errs Errors
	if !errors.As(err, &errs) {
		t.Fatalf("expected Errors, got %T", err)
	}
	if len(errs) != 3 {
		t.Errorf("got %d errors, want 3: %v", len(errs), err)
	}

	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Error("expected errors.As to reach a ConfigError")
	}
}

func TestLookup_Unknown(t *testing.T) {
	table := &Table{}
	_, err := table.Lookup("missing")

	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
	if cfgErr.Repo != "missing" {
		t.Errorf("Repo = %q, want missing", cfgErr.Repo)
	}
}

func TestParents_DefaultOrder(t *testing.T) {
	table := &Table{}
	got := table.Parents()

	want := []string{"client-libraries", "genai-tools", "algorithms", "commands"}
	if len(got) != len(want) {
		t.Fatalf("got %d rules, want %d", len(got), len(want))
	}
	for i, m := range want {
		if got[i].Match != m {
			t.Errorf("rule %d = %q, want %q", i, got[i].Match, m)
		}
	}
}

func TestRule_Helpers(t *testing.T) {
	r := Rule{Source: "docs/*.md", Dest: "out"}
	if !r.IsWildcard() || r.Dir() != "docs" || r.NamePattern() != "*.md" {
		t.Errorf("unexpected helpers: wildcard=%v dir=%q name=%q", r.IsWildcard(), r.Dir(), r.NamePattern())
	}

	root := Rule{Source: "*.md", Dest: "out"}
	if root.Dir() != "" {
		t.Errorf("Dir() = %q, want empty for root pattern", root.Dir())
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mapping.yaml")
	doc := "repositories:\n  - name: Repo\n    paths:\n      README.md: out/readme.md\n"
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}

	table, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if len(table.Repositories) != 1 {
		t.Errorf("got %d repositories, want 1", len(table.Repositories))
	}

	if _, err := LoadFile(filepath.Join(dir, "mapping.json")); err == nil {
		t.Error("expected error for unsupported extension")
	}
}
