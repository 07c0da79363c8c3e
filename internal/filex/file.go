// Package filex has the filesystem helpers the CLI needs before opening its
// local cache.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureParentDir creates the directory that will hold path, so a cache
// file can live under e.g. ~/.config/fieldcheck without manual setup.
// The directory is private to the user.
func EnsureParentDir(path string) (string, error) {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return dir, nil
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}

// IsFileDSN reports whether dsn names a file rather than an in-memory or
// URI-form SQLite database.
func IsFileDSN(dsn string) bool {
	return dsn != "" && dsn != ":memory:" && !hasPrefix(dsn, "file:")
}

func hasPrefix(s, p string) bool {
	return len(s) >= len(p) && s[:len(p)] == p
}
