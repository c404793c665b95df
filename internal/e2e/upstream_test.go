package e2e

import (
	"testing"
)

func TestListDir(t *testing.T) {
	files := map[string]string{
		"README.md":        "",
		"docs/a.md":        "",
		"docs/guide/b.md":  "",
		"docs/guide/c.mdx": "",
	}

	tests := map[string]struct {
		dir  string
		want []string
	}{
		"root":    {dir: "", want: []string{"README.md:file", "docs:dir"}},
		"nested":  {dir: "docs", want: []string{"a.md:file", "guide:dir"}},
		"leaf":    {dir: "docs/guide", want: []string{"b.md:file", "c.mdx:file"}},
		"missing": {dir: "nope", want: nil},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			entries := listDir(files, tt.dir)
			if len(entries) != len(tt.want) {
				t.Fatalf("listDir(%q) returned %d entries, want %d: %v", tt.dir, len(entries), len(tt.want), entries)
			}
			for i, e := range entries {
				if got := e["name"] + ":" + e["type"]; got != tt.want[i] {
					t.Errorf("entry %d = %s, want %s", i, got, tt.want[i])
				}
			}
		})
	}
}

func TestAssertHelpers(t *testing.T) {
	r := &Result{Stdout: "3 synced, 1 unchanged, 0 failed\n"}

	AssertSuccess(t, r)
	AssertTotals(t, r, 3, 1, 0)
	AssertOutputNotContains(t, r, "would sync")
}
