package mapping

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Discover returns the files in dir matching any of patterns. Subdirectories
// are not searched and directories matching a pattern are skipped. Hidden
// files (leading ".") only match patterns that start with "." themselves.
// Files matched by several patterns are returned once, at their first match.
func Discover(dir string, patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	for _, pattern := range patterns {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", pattern, err)
		}
		hiddenOK := strings.HasPrefix(filepath.Base(pattern), ".")
		for _, m := range matches {
			if seen[m] {
				continue
			}
			if !hiddenOK && strings.HasPrefix(filepath.Base(m), ".") {
				continue
			}
			info, err := os.Stat(m)
			if err != nil {
				return nil, fmt.Errorf("stat %s: %w", m, err)
			}
			if info.IsDir() {
				continue
			}
			seen[m] = true
			files = append(files, m)
		}
	}

	return files, nil
}
