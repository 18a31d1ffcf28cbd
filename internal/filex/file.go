package filex

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// IsMemoryDSN reports whether dsn names an in-memory SQLite database, which
// has no file on disk.
func IsMemoryDSN(dsn string) bool {
	return dsn == ":memory:" || strings.Contains(dsn, "mode=memory")
}

// EnsureParentDir creates the directory that will hold the file at path,
// relative paths being resolved against the working directory. It returns
// that directory.
func EnsureParentDir(path string) (string, error) {
	dir := filepath.Dir(path)
	if !filepath.IsAbs(dir) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getwd: %w", err)
		}
		dir = filepath.Join(cwd, dir)
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}
