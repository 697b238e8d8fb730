// Package service implements the tool-facing operations: type map
// extraction with usage counts and budget enforcement, and per-file
// dependency resolution. Every call rebuilds its result from scratch;
// nothing is cached between invocations.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"codemap/internal/budget"
	"codemap/internal/config"
	"codemap/internal/history"
	"codemap/internal/model"
	"codemap/internal/observability"
	"codemap/internal/parser"
	"codemap/internal/resolver"
	"codemap/internal/usage"
	"codemap/internal/walker"
)

type Service struct {
	cfg      *config.Config
	walker   *walker.Walker
	resolver *resolver.Resolver
	logger   *slog.Logger
	store    *history.Store
}

func New(cfg *config.Config, logger *slog.Logger) *Service {
	return &Service{
		cfg:      cfg,
		walker:   walker.New(parser.NewDefault(), logger),
		resolver: resolver.New(logger),
		logger:   logger,
	}
}

// AttachHistory enables scan summary persistence. A nil store keeps
// history off.
func (s *Service) AttachHistory(store *history.Store) {
	s.store = store
}

func (s *Service) Close() error {
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}

type TypeMapRequest struct {
	Path string
	// Pattern is either a glob applied to root-relative paths during
	// the walk, or, when it contains no glob metacharacters, a
	// case-insensitive name filter applied to extracted types.
	Pattern     string
	MaxTypes    int
	Offset      int
	Limit       int
	TokenBudget int
	CountUsage  bool
}

type TypeMapResult struct {
	Rows          []string
	TotalTypes    int
	TypesIncluded int
	LimitHit      model.LimitHit
	Truncated     bool
}

// Render serializes the result in the compact pipe-delimited form
// consumed by agents: a header, one row per type, and a summary line.
func (r *TypeMapResult) Render() string {
	var sb strings.Builder
	sb.WriteString("name|kind|file|line|usage_count\n")
	for _, row := range r.Rows {
		sb.WriteString(row)
		sb.WriteByte('\n')
	}
	fmt.Fprintf(&sb, "showing %d of %d types", len(r.Rows), r.TotalTypes)
	if r.Truncated {
		fmt.Fprintf(&sb, " (truncated: %s)", r.LimitHit)
	}
	return sb.String()
}

// TypeMap extracts types under req.Path, optionally fills in usage
// counts with a second full traversal, then shapes the result through
// filtering, sorting, pagination and the token budget.
func (s *Service) TypeMap(ctx context.Context, req TypeMapRequest) (*TypeMapResult, error) {
	ctx, span := observability.Tracer.Start(ctx, "service.TypeMap",
		trace.WithAttributes(attribute.String("path", req.Path)))
	defer span.End()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	maxTypes := req.MaxTypes
	if maxTypes <= 0 {
		maxTypes = s.cfg.Limits.MaxTypes
	}
	tokenBudget := req.TokenBudget
	if tokenBudget <= 0 {
		tokenBudget = s.cfg.Limits.TokenBudget
	}

	opts := walker.Options{
		MaxTypes:   maxTypes,
		IgnoreDirs: s.ignoreDirs(),
		Languages:  s.cfg.Languages.Only,
	}
	nameFilter := ""
	if req.Pattern != "" {
		if looksLikeGlob(req.Pattern) {
			opts.Pattern = req.Pattern
		} else {
			nameFilter = req.Pattern
		}
	}

	res, err := s.walker.Walk(req.Path, opts)
	if err != nil {
		observability.ToolRequestsTotal.WithLabelValues("type_map", "error").Inc()
		return nil, fmt.Errorf("extract types: %w", err)
	}

	if req.CountUsage {
		usage.CountProject(req.Path, s.ignoreDirs(), res.Types, s.logger)
	}

	types := res.Types
	if nameFilter != "" {
		needle := strings.ToLower(nameFilter)
		filtered := make([]model.TypeDefinition, 0, len(types))
		for _, def := range types {
			if strings.Contains(strings.ToLower(def.Name), needle) {
				filtered = append(filtered, def)
			}
		}
		types = filtered
	}

	if req.CountUsage {
		sort.SliceStable(types, func(i, j int) bool {
			if types[i].UsageCount != types[j].UsageCount {
				return types[i].UsageCount > types[j].UsageCount
			}
			return types[i].Name < types[j].Name
		})
	} else {
		sort.SliceStable(types, func(i, j int) bool {
			if types[i].File != types[j].File {
				return types[i].File < types[j].File
			}
			return types[i].Line < types[j].Line
		})
	}

	if req.Offset > 0 {
		if req.Offset >= len(types) {
			types = nil
		} else {
			types = types[req.Offset:]
		}
	}
	if req.Limit > 0 && req.Limit < len(types) {
		types = types[:req.Limit]
	}

	rows := make([]string, 0, len(types))
	for _, def := range types {
		rows = append(rows, fmt.Sprintf("%s|%s|%s|%d|%d",
			def.Name, def.Kind, def.File, def.Line, def.UsageCount))
	}

	result := &TypeMapResult{
		TotalTypes: res.TotalTypes,
		LimitHit:   res.LimitHit,
		Truncated:  res.Truncated,
	}
	result.Rows, result.Truncated = truncateOrKeep(rows, tokenBudget, result)
	result.TypesIncluded = len(result.Rows)

	files := make(map[string]bool, len(res.Types))
	for i := range res.Types {
		files[res.Types[i].File] = true
	}

	observability.ScanDuration.WithLabelValues("type_map").Observe(time.Since(start).Seconds())
	observability.TypesExtracted.Set(float64(result.TypesIncluded))
	observability.FilesScanned.Set(float64(len(files)))
	observability.ToolRequestsTotal.WithLabelValues("type_map", "ok").Inc()
	if result.LimitHit != "" {
		observability.LimitHitsTotal.WithLabelValues(string(result.LimitHit)).Inc()
	}

	s.recordScan(req.Path, len(files), result, time.Since(start))

	s.logger.Info("type map built",
		"path", req.Path,
		"total", result.TotalTypes,
		"included", result.TypesIncluded,
		"duration", time.Since(start),
	)
	return result, nil
}

// truncateOrKeep applies the token budget and folds the outcome into
// the result's limit bookkeeping. A budget cut overrides an earlier
// count-cap marker since it is the last constraint applied.
func truncateOrKeep(rows []string, tokenBudget int, result *TypeMapResult) ([]string, bool) {
	kept, cut := budget.TruncateRows(rows, tokenBudget)
	if cut {
		result.LimitHit = model.TokenLimit
		return kept, true
	}
	return kept, result.Truncated
}

// Dependencies resolves one file's in-project dependencies.
func (s *Service) Dependencies(ctx context.Context, path string) ([]string, error) {
	ctx, span := observability.Tracer.Start(ctx, "service.Dependencies",
		trace.WithAttributes(attribute.String("path", path)))
	defer span.End()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	deps, err := s.resolver.Dependencies(path)
	if err != nil {
		observability.ToolRequestsTotal.WithLabelValues("dependencies", "error").Inc()
		return nil, fmt.Errorf("resolve dependencies: %w", err)
	}

	observability.ScanDuration.WithLabelValues("dependencies").Observe(time.Since(start).Seconds())
	observability.ToolRequestsTotal.WithLabelValues("dependencies", "ok").Inc()
	s.logger.Info("dependencies resolved", "path", path, "count", len(deps))
	return deps, nil
}

func (s *Service) ignoreDirs() []string {
	if len(s.cfg.Exclude.Dirs) == 0 {
		return walker.DefaultIgnoreDirs
	}
	dirs := make([]string, 0, len(walker.DefaultIgnoreDirs)+len(s.cfg.Exclude.Dirs))
	dirs = append(dirs, walker.DefaultIgnoreDirs...)
	dirs = append(dirs, s.cfg.Exclude.Dirs...)
	return dirs
}

func (s *Service) recordScan(path string, fileCount int, result *TypeMapResult, elapsed time.Duration) {
	if s.store == nil {
		return
	}
	rec := history.ScanRecord{
		ProjectKey: path,
		FileCount:  fileCount,
		TypeCount:  result.TotalTypes,
		DurationMS: elapsed.Milliseconds(),
		Truncated:  result.Truncated,
		LimitHit:   string(result.LimitHit),
	}
	if err := s.store.SaveScan(rec); err != nil {
		s.logger.Warn("history save failed", "path", path, "error", err)
	}
}

// looksLikeGlob reports whether a pattern carries glob metacharacters
// or a path separator, as opposed to a bare type name fragment.
func looksLikeGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{/")
}
