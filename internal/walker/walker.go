// Package walker enumerates source files under a root and feeds them
// through the parser, accumulating type definitions up to a hard limit.
package walker

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"

	"codemap/internal/model"
	"codemap/internal/observability"
	"codemap/internal/parser"
)

// HardTypeLimit bounds a single extraction regardless of caller limits.
const HardTypeLimit = 1000

// DefaultIgnoreDirs are directory names skipped at any depth.
var DefaultIgnoreDirs = []string{
	".git", ".hg", ".svn", ".svelte-kit",
	"target", "node_modules", "dist", "build", "deps", "vendor",
}

type Options struct {
	// MaxTypes caps the definitions kept. Zero or negative means no
	// caller limit; HardTypeLimit still applies.
	MaxTypes int
	// Pattern restricts extraction to files whose slash-separated path
	// relative to the root matches this glob. Empty matches everything.
	Pattern string
	// IgnoreDirs overrides DefaultIgnoreDirs when non-nil.
	IgnoreDirs []string
	// Languages restricts extraction to these language names. Empty
	// means every registered language.
	Languages []string
}

type Walker struct {
	parser *parser.Parser
	logger *slog.Logger
}

func New(p *parser.Parser, logger *slog.Logger) *Walker {
	return &Walker{parser: p, logger: logger}
}

// Walk extracts type definitions from root, which may be a single file
// or a directory. Unreadable and unparseable files are logged and
// skipped. The only error is a root that does not exist.
func (w *Walker) Walk(root string, opts Options) (*model.ExtractionResult, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", root, err)
	}

	limit := HardTypeLimit
	if opts.MaxTypes > 0 && opts.MaxTypes < limit {
		limit = opts.MaxTypes
	}

	var matcher glob.Glob
	if opts.Pattern != "" {
		matcher, err = glob.Compile(opts.Pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", opts.Pattern, err)
		}
	}

	var langs map[string]bool
	if len(opts.Languages) > 0 {
		langs = make(map[string]bool, len(opts.Languages))
		for _, lang := range opts.Languages {
			langs[lang] = true
		}
	}

	res := &model.ExtractionResult{Types: []model.TypeDefinition{}}

	if !info.IsDir() {
		w.extractFile(root, filepath.Base(root), matcher, langs, limit, res)
		res.Finalize()
		return res, nil
	}

	ignore := opts.IgnoreDirs
	if ignore == nil {
		ignore = DefaultIgnoreDirs
	}
	ignored := make(map[string]bool, len(ignore))
	for _, name := range ignore {
		ignored[name] = true
	}

	var files []string
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			w.logger.Warn("walk error, skipping", "path", path, "error", err)
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
		if strings.HasPrefix(base, ".") {
			return nil
		}
		if w.parser.Supported(path) {
			files = append(files, path)
		}
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}
	sort.Strings(files)

	for _, path := range files {
		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}
		w.extractFile(path, filepath.ToSlash(rel), matcher, langs, limit, res)
	}

	res.Finalize()
	return res, nil
}

// extractFile parses one file and appends its definitions while the
// result is under limit. Definitions past the limit are still counted in
// TotalTypes so callers can report how much was cut.
func (w *Walker) extractFile(path, rel string, matcher glob.Glob, langs map[string]bool, limit int, res *model.ExtractionResult) {
	if matcher != nil && !matcher.Match(rel) {
		return
	}
	if !w.parser.Supported(path) {
		return
	}
	if langs != nil && !langs[parser.DetectLanguage(path)] {
		return
	}

	content, err := os.ReadFile(path)
	if err != nil {
		w.logger.Warn("unreadable file, skipping", "path", path, "error", err)
		return
	}

	defs, err := w.parser.ExtractTypes(rel, content)
	if err != nil {
		observability.ParseFailuresTotal.Inc()
		w.logger.Warn("extraction failed, skipping", "path", path, "error", err)
		return
	}

	res.TotalTypes += len(defs)
	for _, def := range defs {
		if len(res.Types) >= limit {
			res.LimitHit = model.TypeLimit
			return
		}
		res.Types = append(res.Types, def)
	}
}
