package cli

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauern/docsync/internal/util"
)

func TestH1Commands(t *testing.T) {
	root := util.DocsTree(t, map[string]string{
		"missing.md":  "---\ntitle: Missing\n---\nText\n",
		"dup.md":      "---\ntitle: Dup\n---\n# Dup\n\nText\n",
		"fine/ok.mdx": "---\ntitle: OK\n---\n# Something Else\n",
		"untitled.md": "Plain\n",
	})

	output, err := captureRun(t, "docsync", "--no-color", "h1", "check", "--root", root)
	if err == nil {
		t.Fatal("check should fail when problems exist")
	}
	if !strings.Contains(output, "missing.md (missing H1)") || !strings.Contains(output, "dup.md:4") {
		t.Errorf("unexpected check output:\n%s", output)
	}

	if _, err := captureRun(t, "docsync", "--no-color", "h1", "add", "--root", root); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if _, err := captureRun(t, "docsync", "--no-color", "h1", "dedupe", "--root", root); err != nil {
		t.Fatalf("dedupe failed: %v", err)
	}

	util.AssertEqual(t, util.ReadFile(t, root, "dup.md"), "---\ntitle: Dup\n---\nText\n")

	// dedupe also strips the title H1 that add inserted into missing.md.
	output, err = captureRun(t, "docsync", "--no-color", "h1", "check", "--root", root)
	if err == nil || !strings.Contains(output, "2 missing H1, 0 duplicate H1") {
		t.Errorf("second check: err=%v output:\n%s", err, output)
	}
}

func TestEscapeCommands(t *testing.T) {
	root := util.DocsTree(t, map[string]string{
		"api.md": "GET /graph/{name} returns <result>\n",
	})

	output, err := captureRun(t, "docsync", "--no-color", "escape", "braces", "--root", root, "--dry-run")
	if err != nil {
		t.Fatalf("braces dry run failed: %v", err)
	}
	if !strings.Contains(output, "Would fix 1 of 1 files") {
		t.Errorf("unexpected output:\n%s", output)
	}

	if _, err := captureRun(t, "docsync", "escape", "braces", "--root", root); err != nil {
		t.Fatalf("braces failed: %v", err)
	}
	if _, err := captureRun(t, "docsync", "escape", "angle", "--root", root); err != nil {
		t.Fatalf("angle failed: %v", err)
	}

	util.AssertEqual(t, util.ReadFile(t, root, "api.md"), "GET /graph/\\{name\\} returns `<result>`\n")
}

func TestNavVerifyCommand(t *testing.T) {
	root := util.DocsTree(t, map[string]string{
		"index.md":        "x",
		"guide/start.md":  "x",
		"guide/extra.mdx": "x",
	})
	sidebar := filepath.Join(t.TempDir(), "sidebars.ts")
	util.WriteFile(t, sidebar, "export default {\n  docs: [\n    'index',\n    'guide/start',\n  ],\n};\n")

	output, err := captureRun(t, "docsync", "--no-color", "nav", "verify", "--root", root, "--sidebar", sidebar)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if !strings.Contains(output, "guide/extra (not in sidebar)") || !strings.Contains(output, "Navigation is incomplete") {
		t.Errorf("unexpected output:\n%s", output)
	}

	util.WriteFile(t, sidebar, "export default {\n  docs: [\n    'index',\n    'guide/gone',\n    'guide/start',\n    'guide/extra',\n  ],\n};\n")
	output, err = captureRun(t, "docsync", "--no-color", "nav", "verify", "--root", root, "--sidebar", sidebar)
	if err == nil {
		t.Fatal("verify should fail for a missing doc")
	}
	if !strings.Contains(output, "guide/gone (missing)") {
		t.Errorf("unexpected output:\n%s", output)
	}
}
