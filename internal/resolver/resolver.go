// Package resolver maps a source file's import statements onto files
// that exist on disk. Resolution is best effort: every returned path
// exists and lives under the project root, and anything the heuristics
// cannot place is silently dropped.
package resolver

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"codemap/internal/parser"
)

// rootMarkers identify a project root when found in an ancestor dir.
var rootMarkers = []string{"Cargo.toml", "go.mod", "package.json", "pyproject.toml"}

type Resolver struct {
	loader *parser.GrammarLoader
	logger *slog.Logger
}

func New(logger *slog.Logger) *Resolver {
	return &Resolver{loader: parser.NewGrammarLoader(), logger: logger}
}

// FindProjectRoot walks up from path looking for a build manifest.
// Without one it falls back to the file's own directory.
func FindProjectRoot(path string) string {
	dir := path
	if info, err := os.Stat(path); err != nil || !info.IsDir() {
		dir = filepath.Dir(path)
	}
	for cur := dir; ; {
		for _, marker := range rootMarkers {
			if _, err := os.Stat(filepath.Join(cur, marker)); err == nil {
				return cur
			}
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return dir
		}
		cur = parent
	}
}

// Dependencies returns the project files that path depends on, as
// slash-separated paths relative to the project root, sorted and
// deduplicated. Only the file itself being unreadable is an error.
func (r *Resolver) Dependencies(path string) ([]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	root := FindProjectRoot(abs)

	var deps []string
	switch parser.DetectLanguage(path) {
	case "rust":
		deps = r.rustDependencies(abs, root, content)
	case "python":
		deps = r.pythonDependencies(abs, content)
	case "javascript", "typescript", "tsx":
		deps = r.jsDependencies(abs, content)
	default:
		return []string{}, nil
	}

	seen := make(map[string]bool)
	out := []string{}
	for _, dep := range deps {
		rel, ok := relativeToRoot(root, dep)
		if !ok || rel == "" {
			continue
		}
		if !seen[rel] {
			seen[rel] = true
			out = append(out, rel)
		}
	}
	sort.Strings(out)
	return out, nil
}

// relativeToRoot confines dep to the project root. Paths escaping the
// root resolve to nothing rather than leaking filesystem structure.
func relativeToRoot(root, dep string) (string, bool) {
	rel, err := filepath.Rel(root, dep)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

// firstExisting returns the first candidate that exists as a regular
// file, or empty.
func firstExisting(candidates ...string) string {
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && info.Mode().IsRegular() {
			return c
		}
	}
	return ""
}

func nodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	return string(source[node.StartByte():node.EndByte()])
}

// parseTree parses content with the grammar for lang and returns the
// tree, or nil when the grammar is unavailable.
func (r *Resolver) parseTree(lang string, content []byte) *sitter.Tree {
	grammar, err := r.loader.Grammar(lang)
	if err != nil {
		return nil
	}
	p := sitter.NewParser()
	defer p.Close()
	p.SetLanguage(grammar)
	return p.Parse(content, nil)
}
