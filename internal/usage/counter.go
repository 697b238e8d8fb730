// Package usage estimates how often extracted type names are referenced
// in live code. Counting is textual: comments and string literals are
// stripped per language family, then identifier occurrences matching a
// known name are tallied.
package usage

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"codemap/internal/model"
)

// Counter tallies occurrences of a fixed set of identifiers across
// scanned files.
type Counter struct {
	counts map[string]int
}

// NewCounter tracks exactly the given names; anything else is ignored.
func NewCounter(names []string) *Counter {
	counts := make(map[string]int, len(names))
	for _, name := range names {
		counts[name] = 0
	}
	return &Counter{counts: counts}
}

// AddFile strips content according to the file's family and tallies
// every tracked identifier in what remains.
func (c *Counter) AddFile(path string, content []byte) {
	stripped := Strip(content, FamilyFor(path))

	i := 0
	for i < len(stripped) {
		ch := stripped[i]
		if !isIdentByte(ch) {
			i++
			continue
		}
		start := i
		for i < len(stripped) && isIdentByte(stripped[i]) {
			i++
		}
		// Identifiers never start with a digit.
		if ch >= '0' && ch <= '9' {
			continue
		}
		word := string(stripped[start:i])
		if _, tracked := c.counts[word]; tracked {
			c.counts[word]++
		}
	}
}

// Count returns the raw occurrence tally for an identifier.
func (c *Counter) Count(name string) int {
	return c.counts[name]
}

// Apply sets UsageCount on every definition to its occurrence tally
// minus the number of definitions carrying that name, floored at zero.
// A type declared once and never referenced ends up at zero.
func (c *Counter) Apply(defs []model.TypeDefinition) {
	declared := make(map[string]int, len(defs))
	for i := range defs {
		declared[defs[i].Name]++
	}
	for i := range defs {
		name := defs[i].Name
		n := c.counts[name] - declared[name]
		if n < 0 {
			n = 0
		}
		defs[i].UsageCount = n
	}
}

// CountProject fills in UsageCount on defs by re-scanning every file
// under root, extractable or not. Unreadable files are logged and
// skipped. root may also be a single file.
func CountProject(root string, ignoreDirs []string, defs []model.TypeDefinition, logger *slog.Logger) {
	if len(defs) == 0 {
		return
	}
	names := make([]string, 0, len(defs))
	for i := range defs {
		names = append(names, defs[i].Name)
	}
	c := NewCounter(names)

	addPath := func(path string) {
		content, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("unreadable file, skipping in usage count", "path", path, "error", err)
			return
		}
		c.AddFile(path, content)
	}

	info, err := os.Stat(root)
	if err != nil {
		logger.Warn("usage count root missing", "path", root, "error", err)
		return
	}

	if !info.IsDir() {
		addPath(root)
		c.Apply(defs)
		return
	}

	ignored := make(map[string]bool, len(ignoreDirs))
	for _, name := range ignoreDirs {
		ignored[name] = true
	}

	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		base := filepath.Base(path)
		if d.IsDir() {
			if path != root && (ignored[base] || strings.HasPrefix(base, ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasPrefix(base, ".") {
			addPath(path)
		}
		return nil
	})

	c.Apply(defs)
}
