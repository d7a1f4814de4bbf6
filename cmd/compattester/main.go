package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/alecthomas/kong"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"git.home.luguber.info/inful/compattester/internal/config"
	"git.home.luguber.info/inful/compattester/internal/hook"
	"git.home.luguber.info/inful/compattester/internal/hooks"
	"git.home.luguber.info/inful/compattester/internal/logfields"
	"git.home.luguber.info/inful/compattester/internal/maven"
	"git.home.luguber.info/inful/compattester/internal/metrics"
	"git.home.luguber.info/inful/compattester/internal/scm"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"config.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Test struct {
		Plugin string `short:"p" help:"Run only the named plugin (optional)"`
	} `cmd:"" help:"Run the hook chains for the configured plugins"`

	Validate struct{} `cmd:"" help:"Validate the configuration file and exit"`
}

func main() {
	ctx := kong.Parse(&CLI)

	// Set up logging
	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		slog.Error("Failed to load configuration", logfields.Error(err))
		os.Exit(1)
	}

	switch ctx.Command() {
	case "test":
		if err := runTest(cfg, CLI.Test.Plugin); err != nil {
			os.Exit(1)
		}
	case "validate":
		slog.Info("Configuration is valid", slog.Int("plugins", len(cfg.Plugins)))
	default:
		slog.Error("Unknown command", slog.String("command", ctx.Command()))
		os.Exit(1)
	}
}

// runTest runs every plugin's hook chain sequentially. A failing chain aborts
// that plugin only; the run fails if any chain failed.
func runTest(cfg *config.Config, only string) error {
	recorder := setupMetrics(cfg)

	runner := maven.NewExternalRunner(cfg.Maven.Executable, cfg.Maven.Settings, cfg.Maven.Args)
	registry := hook.NewRegistry()
	if err := registry.Register(hook.StageCheckout, hooks.NewCheckoutHook(scm.NewClient()).WithRecorder(recorder)); err != nil {
		slog.Error("Failed to register checkout hook", logfields.Error(err))
		return err
	}
	compileHook := hooks.NewCompileHook(registry, runner).WithRecorder(recorder)
	if err := registry.Register(hook.StageBeforeCompile, compileHook); err != nil {
		slog.Error("Failed to register compile hook", logfields.Error(err))
		return err
	}

	var failed int
	for _, plugin := range cfg.Plugins {
		if only != "" && plugin.Name != only {
			continue
		}
		hctx := hook.NewContext(cfg, plugin)
		if _, err := registry.RunChain(context.Background(), hctx); err != nil {
			slog.Error("Hook chain failed", logfields.Plugin(plugin.Name), logfields.Error(err))
			failed++
			continue
		}
		slog.Info("Hook chain finished", logfields.Plugin(plugin.Name), slog.Bool("compiled", hctx.CompileRan))
	}
	if failed > 0 {
		slog.Error("Run finished with failures", slog.Int("failed", failed))
		return fmt.Errorf("%d plugin(s) failed", failed)
	}
	return nil
}

// setupMetrics returns the Prometheus recorder with a /metrics endpoint when
// enabled, otherwise the no-op recorder.
func setupMetrics(cfg *config.Config) metrics.Recorder {
	if !cfg.Metrics.Enabled {
		return metrics.NoopRecorder{}
	}
	registry := prom.NewRegistry()
	recorder := metrics.NewPrometheusRecorder(registry)
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	go func() {
		if err := http.ListenAndServe(cfg.Metrics.Listen, mux); err != nil {
			slog.Warn("Metrics endpoint stopped", logfields.Error(err))
		}
	}()
	return recorder
}
