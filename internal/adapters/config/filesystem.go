package config

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// HostFS is the local filesystem seen from its root. The loader reads through an
// fs.FS so tests can serve workspaces from an fstest.MapFS keyed by absolute
// paths without the leading slash.
func HostFS() fs.FS {
	return os.DirFS("/")
}

// fsPath turns an absolute host path into a path inside an fs.FS rooted at "/".
func fsPath(p string) string {
	rel := strings.TrimPrefix(filepath.ToSlash(filepath.Clean(p)), "/")
	if rel == "" {
		return "."
	}
	return rel
}

func (l *Loader) stat(p string) (fs.FileInfo, error) {
	return fs.Stat(l.FS, fsPath(p))
}

func (l *Loader) readFile(p string) ([]byte, error) {
	return fs.ReadFile(l.FS, fsPath(p))
}
