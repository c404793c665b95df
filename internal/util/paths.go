package util

import (
	"os"
	"path/filepath"
	"strings"
)

// HomeDir returns the user's home directory
func HomeDir() string {
	home, _ := os.UserHomeDir()
	return home
}

// ExpandPath expands a leading ~ to the home directory and resolves relative
// paths against baseDir. An empty path stays empty.
func ExpandPath(p, baseDir string) string {
	switch {
	case p == "":
		return ""
	case p == "~":
		return HomeDir()
	case strings.HasPrefix(p, "~/"):
		return filepath.Join(HomeDir(), p[2:])
	case filepath.IsAbs(p) || baseDir == "":
		return filepath.Clean(p)
	default:
		return filepath.Join(baseDir, p)
	}
}

// HasExt reports whether name ends in one of exts, ignoring case.
func HasExt(name string, exts ...string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}
