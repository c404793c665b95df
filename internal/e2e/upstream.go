package e2e

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path"
	"sort"
	"strings"
	"sync"
	"testing"
)

// Upstream is a fake of the GitHub contents API for a single organization.
// Files are keyed by repository and slash-separated path.
type Upstream struct {
	t   *testing.T
	org string
	srv *httptest.Server

	mu       sync.Mutex
	files    map[string]map[string]string
	requests []string
}

func newUpstream(t *testing.T, org string) *Upstream {
	t.Helper()
	u := &Upstream{
		t:     t,
		org:   org,
		files: make(map[string]map[string]string),
	}
	u.srv = httptest.NewServer(http.HandlerFunc(u.serve))
	t.Cleanup(u.srv.Close)
	return u
}

// URL returns the API base URL.
func (u *Upstream) URL() string {
	return u.srv.URL
}

// Put sets the content of a file, replacing any previous content.
func (u *Upstream) Put(repo, filePath, content string) *Upstream {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.files[repo] == nil {
		u.files[repo] = make(map[string]string)
	}
	u.files[repo][filePath] = content
	return u
}

// Requests returns the contents paths requested so far as repo/path@ref.
func (u *Upstream) Requests() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]string(nil), u.requests...)
}

func (u *Upstream) serve(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Authorization") == "" {
		u.writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Requires authentication"})
		return
	}

	prefix := "/repos/" + u.org + "/"
	rest, ok := strings.CutPrefix(r.URL.Path, prefix)
	if !ok {
		u.writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
		return
	}
	repo, filePath, ok := strings.Cut(rest, "/contents")
	if !ok {
		u.writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
		return
	}
	filePath = strings.Trim(filePath, "/")

	u.mu.Lock()
	u.requests = append(u.requests, repo+"/"+filePath+"@"+r.URL.Query().Get("ref"))
	files := u.files[repo]
	content, isFile := files[filePath]
	var entries []map[string]string
	if !isFile {
		entries = listDir(files, filePath)
	}
	u.mu.Unlock()

	switch {
	case isFile:
		u.writeJSON(w, http.StatusOK, map[string]string{
			"type":     "file",
			"name":     path.Base(filePath),
			"path":     filePath,
			"encoding": "base64",
			"content":  base64.StdEncoding.EncodeToString([]byte(content)),
		})
	case len(entries) > 0:
		u.writeJSON(w, http.StatusOK, entries)
	default:
		u.writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
	}
}

// listDir returns the immediate children of dir.
func listDir(files map[string]string, dir string) []map[string]string {
	seen := make(map[string]string)
	for p := range files {
		rel := p
		if dir != "" {
			var ok bool
			if rel, ok = strings.CutPrefix(p, dir+"/"); !ok {
				continue
			}
		}
		name, _, nested := strings.Cut(rel, "/")
		typ := "file"
		if nested {
			typ = "dir"
		}
		seen[name] = typ
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)

	entries := make([]map[string]string, 0, len(names))
	for _, name := range names {
		entries = append(entries, map[string]string{
			"type": seen[name],
			"name": name,
			"path": path.Join(dir, name),
		})
	}
	return entries
}

func (u *Upstream) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		u.t.Errorf("encode response: %v", err)
	}
}
