package sweep

import "testing"

func TestMatchMode_Matches(t *testing.T) {
	tests := []struct {
		name    string
		mode    MatchMode
		heading string
		title   string
		want    bool
	}{
		{"equal", MatchStrict, "Python Client", "Python Client", true},
		{"punctuation ignored", MatchStrict, "GRAPH.QUERY", "Graph Query", true},
		{"strict containment", MatchStrict, "FalkorDB Python Client", "Python Client", false},
		{"loose containment", MatchLoose, "FalkorDB Python Client", "Python Client", true},
		{"loose reverse containment", MatchLoose, "Client", "Python Client", true},
		{"loose unrelated", MatchLoose, "Installation", "Python Client", false},
		{"empty after normalize", MatchLoose, "!!!", "Python Client", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.mode.Matches(tt.heading, tt.title); got != tt.want {
				t.Errorf("Matches(%q, %q) = %v, want %v", tt.heading, tt.title, got, tt.want)
			}
		})
	}
}

func TestMatchMode_IsValid(t *testing.T) {
	if !MatchStrict.IsValid() || !MatchLoose.IsValid() {
		t.Error("built-in modes should be valid")
	}
	if MatchMode("fuzzy").IsValid() {
		t.Error("unknown mode should be invalid")
	}
}

func TestAddMissingH1(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "adds heading",
			input: "---\ntitle: Query Tuning\n---\nSome text\n",
			want:  "---\ntitle: Query Tuning\n---\n\n# Query Tuning\nSome text\n",
		},
		{
			name:  "quoted title",
			input: "---\ntitle: \"Cypher: Basics\"\n---\nBody\n",
			want:  "---\ntitle: \"Cypher: Basics\"\n---\n\n# Cypher: Basics\nBody\n",
		},
		{
			name:  "existing heading after blank lines",
			input: "---\ntitle: T\n---\n\n\n# Present\n",
			want:  "---\ntitle: T\n---\n\n\n# Present\n",
		},
		{
			name:  "no front matter",
			input: "Just text\n",
			want:  "Just text\n",
		},
		{
			name:  "no title",
			input: "---\nparent: Commands\n---\nBody\n",
			want:  "---\nparent: Commands\n---\nBody\n",
		},
		{
			name:  "h2 only",
			input: "---\ntitle: T\n---\n## Sub\n",
			want:  "---\ntitle: T\n---\n\n# T\n## Sub\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AddMissingH1(tt.input)
			if got != tt.want {
				t.Errorf("AddMissingH1() = %q, want %q", got, tt.want)
			}
			if again := AddMissingH1(got); again != got {
				t.Errorf("AddMissingH1 not idempotent: %q", again)
			}
		})
	}
}

func TestFindDuplicateH1(t *testing.T) {
	content := "---\ntitle: Python Client\n---\n\n```sh\n# Python Client\n```\n\n# Python Client\n\nText\n"

	dup, ok := FindDuplicateH1(content, MatchStrict)
	if !ok {
		t.Fatal("expected a duplicate")
	}
	if dup.Line != 9 {
		t.Errorf("Line = %d, want 9", dup.Line)
	}
	if dup.Heading != "Python Client" || dup.Title != "Python Client" {
		t.Errorf("unexpected duplicate: %+v", dup)
	}

	if _, ok := FindDuplicateH1("---\ntitle: Other\n---\n# Python Client\n", MatchStrict); ok {
		t.Error("different heading should not match")
	}
	if _, ok := FindDuplicateH1("# Python Client\n", MatchLoose); ok {
		t.Error("file without front matter should not match")
	}
}

func TestRemoveDuplicateH1(t *testing.T) {
	tests := []struct {
		name  string
		mode  MatchMode
		input string
		want  string
	}{
		{
			name:  "drops heading and blank line",
			mode:  MatchStrict,
			input: "---\ntitle: Commands\n---\n# Commands\n\nList of commands.\n",
			want:  "---\ntitle: Commands\n---\nList of commands.\n",
		},
		{
			name:  "keeps following text",
			mode:  MatchStrict,
			input: "---\ntitle: Commands\n---\n# Commands\nList of commands.\n",
			want:  "---\ntitle: Commands\n---\nList of commands.\n",
		},
		{
			name:  "loose only",
			mode:  MatchStrict,
			input: "---\ntitle: Commands\n---\n# All Commands\n\nText\n",
			want:  "---\ntitle: Commands\n---\n# All Commands\n\nText\n",
		},
		{
			name:  "loose removes",
			mode:  MatchLoose,
			input: "---\ntitle: Commands\n---\n# All Commands\n\nText\n",
			want:  "---\ntitle: Commands\n---\nText\n",
		},
		{
			name:  "fenced heading kept",
			mode:  MatchStrict,
			input: "---\ntitle: Commands\n---\n```\n# Commands\n```\n",
			want:  "---\ntitle: Commands\n---\n```\n# Commands\n```\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RemoveDuplicateH1(tt.input, tt.mode); got != tt.want {
				t.Errorf("RemoveDuplicateH1() = %q, want %q", got, tt.want)
			}
		})
	}
}
