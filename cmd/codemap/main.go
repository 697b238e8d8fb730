package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"codemap/internal/config"
	"codemap/internal/history"
	"codemap/internal/mcp"
	"codemap/internal/observability"
	"codemap/internal/parser"
	"codemap/internal/service"
	"codemap/internal/walker"
	"codemap/internal/watcher"
)

const version = "0.1.0"

var (
	flagConfig  string
	flagVerbose bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "codemap",
	Short:         "Cross-language type extraction for coding agents",
	Long:          "Codemap scans source trees with tree-sitter, unifies type declarations across languages into one model, counts real usage while ignoring comments and strings, and serves the results over MCP.",
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to codemap.toml (defaults apply without it)")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "debug logging")

	scanCmd.Flags().StringVar(&flagFilter, "filter", "", "glob or case-insensitive name filter")
	scanCmd.Flags().IntVar(&flagMaxTypes, "max-types", 0, "cap extracted types (0 uses the configured limit)")
	scanCmd.Flags().IntVar(&flagOffset, "offset", 0, "skip the first N rows")
	scanCmd.Flags().IntVar(&flagLimit, "limit", 0, "return at most N rows (0 means all)")
	scanCmd.Flags().IntVar(&flagBudget, "budget", 0, "token budget for the output (0 uses the configured limit)")
	scanCmd.Flags().BoolVar(&flagNoUsage, "no-usage", false, "skip the usage counting pass")
	scanCmd.Flags().BoolVar(&flagRecordScan, "record-scan", false, "record the scan in history")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(depsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(watchCmd)
}

func setup() (*config.Config, *slog.Logger, error) {
	level := slog.LevelInfo
	if flagVerbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg := config.Default()
	if flagConfig != "" {
		loaded, err := config.Load(flagConfig)
		if err != nil {
			return nil, nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}
	return cfg, logger, nil
}

// buildService wires the service plus optional history. withHistory is
// off for one-shot read commands so they never create a database file.
func buildService(cfg *config.Config, logger *slog.Logger, withHistory bool) (*service.Service, error) {
	svc := service.New(cfg, logger)
	if withHistory && cfg.History.Path != "" {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			return nil, fmt.Errorf("open history: %w", err)
		}
		svc.AttachHistory(store)
	}
	return svc, nil
}

var (
	flagFilter     string
	flagMaxTypes   int
	flagOffset     int
	flagLimit      int
	flagBudget     int
	flagNoUsage    bool
	flagRecordScan bool
)

var scanCmd = &cobra.Command{
	Use:   "scan [path]",
	Short: "Extract a type map from a file or directory",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}

		path := firstRoot(cfg)
		if len(args) == 1 {
			path = args[0]
		}

		svc, err := buildService(cfg, logger, flagRecordScan)
		if err != nil {
			return err
		}
		defer svc.Close()

		result, err := svc.TypeMap(cmd.Context(), service.TypeMapRequest{
			Path:        path,
			Pattern:     flagFilter,
			MaxTypes:    flagMaxTypes,
			Offset:      flagOffset,
			Limit:       flagLimit,
			TokenBudget: flagBudget,
			CountUsage:  !flagNoUsage,
		})
		if err != nil {
			return err
		}
		fmt.Println(result.Render())
		return nil
	},
}

var depsCmd = &cobra.Command{
	Use:   "deps <file>",
	Short: "Resolve a file's in-project dependencies",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}

		svc, err := buildService(cfg, logger, false)
		if err != nil {
			return err
		}
		defer svc.Close()

		deps, err := svc.Dependencies(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if len(deps) == 0 {
			fmt.Println("no in-project dependencies found")
			return nil
		}
		fmt.Println(strings.Join(deps, "\n"))
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the type_map and dependencies tools over MCP on stdio",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		shutdown, err := observability.InitTracing(ctx, cfg.Tracing.OTLPEndpoint, version)
		if err != nil {
			return err
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				logger.Warn("trace shutdown failed", "error", err)
			}
		}()

		svc, err := buildService(cfg, logger, true)
		if err != nil {
			return err
		}
		defer svc.Close()

		return mcp.NewServer(cfg, svc, version, logger).Serve(ctx)
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch [path]",
	Short: "Rescan and report the type map whenever source files change",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}

		path := firstRoot(cfg)
		if len(args) == 1 {
			path = args[0]
		}

		svc, err := buildService(cfg, logger, true)
		if err != nil {
			return err
		}
		defer svc.Close()

		rescan := func() {
			result, err := svc.TypeMap(cmd.Context(), service.TypeMapRequest{Path: path, CountUsage: true})
			if err != nil {
				logger.Error("rescan failed", "path", path, "error", err)
				return
			}
			fmt.Println(result.Render())
		}
		rescan()

		p := parser.NewDefault()
		excludes := append([]string{}, walker.DefaultIgnoreDirs...)
		excludes = append(excludes, cfg.Exclude.Dirs...)
		w, err := watcher.New(cfg.Watch.Debounce, excludes, p.Supported, func(changed []string) {
			logger.Info("changes detected", "files", len(changed))
			rescan()
		}, logger)
		if err != nil {
			return fmt.Errorf("create watcher: %w", err)
		}
		defer w.Close()

		if err := w.Watch([]string{path}); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		select {
		case sig := <-sigCh:
			logger.Info("stopping watch", "signal", sig.String())
		case <-cmd.Context().Done():
		}
		return nil
	},
}

func firstRoot(cfg *config.Config) string {
	if len(cfg.Roots) > 0 {
		return cfg.Roots[0]
	}
	return "."
}
