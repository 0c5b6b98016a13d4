// Package locations manages the catalog of Australian locations offered
// by the dashboard's select box.
//
// The catalog is a plain newline-delimited text file, produced by the
// scraper (see scraper.go) from a public table of Australian cities and
// towns by population. The dashboard appends a free-text "Other" option
// on top of the catalog so users can query places the list misses.
package locations

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Load reads a catalog file and returns its entries in file order.
// Leading/trailing whitespace is trimmed and blank lines are skipped.
func Load(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("locations: open catalog %q: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	var entries []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		name := strings.TrimSpace(scanner.Text())
		if name == "" {
			continue
		}
		entries = append(entries, name)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("locations: read catalog %q: %w", path, err)
	}
	return entries, nil
}

// Save writes entries to a catalog file, one per line, replacing any
// existing file.
func Save(path string, entries []string) error {
	var b strings.Builder
	for _, name := range entries {
		b.WriteString(name)
		b.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("locations: write catalog %q: %w", path, err)
	}
	return nil
}
