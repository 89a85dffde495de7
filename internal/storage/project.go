package storage

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	tqerrors "github.com/abatilo/tq/internal/errors"
)

//nolint:gochecknoglobals // compiled pattern is read-only
var unsafePathChars = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// FindProjectRoot walks up from start looking for a .git directory.
// An empty start means the current working directory.
func FindProjectRoot(start string) (string, error) {
	if start == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		start = cwd
	}

	dir, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}
	for {
		info, err := os.Stat(filepath.Join(dir, ".git"))
		if err == nil && info.IsDir() {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", tqerrors.NotInRepoError{}
		}
		dir = parent
	}
}

// SanitizePath converts an absolute path to a safe directory name.
// "/Users/abatilo/notes" -> "Users-abatilo-notes"
func SanitizePath(path string) string {
	result := unsafePathChars.ReplaceAllString(path, "-")
	return strings.Trim(result, "-")
}
