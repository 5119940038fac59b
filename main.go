package main

import (
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/weavelang/bundle/bmodule"
	"github.com/weavelang/bundle/bundle"
	"github.com/weavelang/bundle/config"
	"github.com/weavelang/bundle/discover"
	"github.com/weavelang/bundle/watch"
)

const versionString = "dev"

var (
	configPath = flag.String("config", "", "Path to TOML config file")
	out        = flag.String("out", "", "Write the bundle to this path instead of stdout")
	dir        = flag.String("dir", "", "Discover .js input files under this directory instead of listing them as arguments")
	entry      = flag.String("entry", "", "Comma-separated entry-point module names")
	mainModule = flag.String("main", "", "Module whose main() is invoked in the emitted bundle")
	namespace  = flag.String("namespace", "", "Namespace object name in the emitted bundle")
	optimize   = flag.String("optimize", "", "Optimization pass: uncurry|u|all|a")
	prefix     = flag.String("require-prefix", "", `Require path prefix stripped before resolution (default "../")`)
	watchFlag  = flag.Bool("watch", false, "Re-bundle on source change")
	metrics    = flag.Bool("metrics", false, "Serve Prometheus metrics")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	version    = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("weavebundle v%s\n", versionString)
		os.Exit(0)
	}

	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	cfg := &config.Config{}
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			slog.Error("failed to load config", "error", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	applyFlags(cfg)

	if cfg.Metrics.Enabled {
		startMetricsServer(cfg.Metrics.Addr)
	}

	paths := flag.Args()
	if *dir != "" {
		found, err := discover.JSFiles(*dir)
		if err != nil {
			slog.Error("failed to discover input files", "dir", *dir, "error", err)
			os.Exit(1)
		}
		paths = append(paths, found...)
	}
	if len(paths) == 0 {
		slog.Error("no input files given")
		os.Exit(1)
	}

	runOnce := func() {
		if err := runBundle(paths, cfg); err != nil {
			slog.Error("bundle failed", "error", err)
			if !*watchFlag {
				os.Exit(1)
			}
		}
	}
	runOnce()

	if !*watchFlag {
		return
	}

	w, err := watch.New(cfg.Watch.Debounce, func(changed []string) {
		slog.Info("rebuilding", "changed", changed)
		runOnce()
	})
	if err != nil {
		slog.Error("failed to start watcher", "error", err)
		os.Exit(1)
	}
	defer w.Close()

	dirs := uniqueDirs(paths)
	if err := w.Watch(dirs); err != nil {
		slog.Error("failed to watch directories", "error", err)
		os.Exit(1)
	}

	slog.Info("watching for changes", "dirs", dirs)
	select {}
}

func applyFlags(cfg *config.Config) {
	if *entry != "" {
		cfg.EntryPoints = strings.Split(*entry, ",")
	}
	if *mainModule != "" {
		cfg.MainModule = *mainModule
	}
	if *namespace != "" {
		cfg.Namespace = *namespace
	}
	if *optimize != "" {
		cfg.Optimize = *optimize
	}
	if *prefix != "" {
		cfg.RequirePathPrefix = *prefix
	}
	if *out != "" {
		cfg.Out = *out
	}
	if *metrics {
		cfg.Metrics.Enabled = true
	}
}

func runBundle(paths []string, cfg *config.Config) error {
	inputs, err := readInputs(paths)
	if err != nil {
		return err
	}

	entryPoints := make([]bmodule.ID, 0, len(cfg.EntryPoints))
	for _, name := range cfg.EntryPoints {
		entryPoints = append(entryPoints, bmodule.ID{Name: name, Type: bmodule.Regular})
	}

	output, err := bundle.Bundle(inputs, bundle.Options{
		EntryPoints:       entryPoints,
		MainModule:        cfg.MainModule,
		Namespace:         cfg.Namespace,
		BundlerName:       "weavebundle",
		Version:           versionString,
		RequirePathPrefix: cfg.RequirePathPrefix,
		Optimize:          cfg.Optimize,
	})
	if err != nil {
		return err
	}

	if cfg.Out == "" {
		fmt.Println(output)
		return nil
	}
	return os.WriteFile(cfg.Out, []byte(output), 0644)
}

func readInputs(paths []string) ([]bundle.Input, error) {
	inputs := make([]bundle.Input, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, err
		}
		name := strings.TrimSuffix(filepath.Base(p), ".js")
		inputs = append(inputs, bundle.Input{
			ID:     bmodule.ID{Name: name, Type: bmodule.Regular},
			Source: string(data),
		})
	}
	return inputs, nil
}

func uniqueDirs(paths []string) []string {
	seen := make(map[string]bool)
	var dirs []string
	for _, p := range paths {
		d := filepath.Dir(p)
		if !seen[d] {
			seen[d] = true
			dirs = append(dirs, d)
		}
	}
	return dirs
}

func startMetricsServer(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{Addr: addr, Handler: mux}

	slog.Info("metrics server starting", "addr", addr)
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("metrics server failed", "error", err)
		}
	}()
}
