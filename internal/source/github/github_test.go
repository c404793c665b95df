package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/klauern/docsync/internal/source"
)

func newTestSource(t *testing.T, handler http.HandlerFunc) *Source {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	s, err := New(Options{Owner: "FalkorDB", Token: "test-token", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return s
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("encode response: %v", err)
	}
}

func TestNew_RequiresOwner(t *testing.T) {
	if _, err := New(Options{}); err == nil {
		t.Fatal("expected error without owner")
	}
}

func TestGet_File(t *testing.T) {
	s := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/FalkorDB/falkordb-py/contents/README.md" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("ref"); got != "main" {
			t.Errorf("ref = %q, want main", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Authorization = %q", got)
		}
		writeJSON(t, w, http.StatusOK, map[string]any{
			"type":     "file",
			"name":     "README.md",
			"path":     "README.md",
			"encoding": "base64",
			"content":  base64.StdEncoding.EncodeToString([]byte("# Hello\nBody")),
		})
	})

	got, err := s.Get(context.Background(), "falkordb-py", "README.md", "main")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Type != source.TypeFile {
		t.Errorf("Type = %s, want file", got.Type)
	}
	if got.Text != "# Hello\nBody" {
		t.Errorf("Text = %q", got.Text)
	}
}

func TestGet_Directory(t *testing.T) {
	s := newTestSource(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, http.StatusOK, []map[string]any{
			{"type": "file", "name": "a.md", "path": "docs/a.md"},
			{"type": "dir", "name": "img", "path": "docs/img"},
			{"type": "symlink", "name": "link.md", "path": "docs/link.md"},
		})
	})

	got, err := s.Get(context.Background(), "FalkorDB", "docs", "")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Type != source.TypeDir {
		t.Fatalf("Type = %s, want dir", got.Type)
	}

	want := []source.Entry{
		{Name: "a.md", Path: "docs/a.md", Type: source.TypeFile},
		{Name: "img", Path: "docs/img", Type: source.TypeDir},
	}
	if len(got.Entries) != len(want) {
		t.Fatalf("got %d entries, want %d", len(got.Entries), len(want))
	}
	for i := range want {
		if got.Entries[i] != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, got.Entries[i], want[i])
		}
	}
}

func TestGet_ErrorClassification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{name: "not found", status: http.StatusNotFound, want: source.ErrNotFound},
		{name: "unauthorized", status: http.StatusUnauthorized, want: source.ErrAccessDenied},
		{name: "too many requests", status: http.StatusTooManyRequests, want: source.ErrRateLimited},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSource(t, func(w http.ResponseWriter, _ *http.Request) {
				writeJSON(t, w, tt.status, map[string]string{"message": http.StatusText(tt.status)})
			})

			_, err := s.Get(context.Background(), "Repo", "missing.md", "main")
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}

			var fe *source.FetchError
			if !errors.As(err, &fe) {
				t.Fatalf("expected FetchError, got %T", err)
			}
			if fe.Repo != "Repo" || fe.Path != "missing.md" || fe.Ref != "main" {
				t.Errorf("unexpected FetchError fields: %+v", fe)
			}
		})
	}
}
