// Package hooks contains the concrete hook implementations for validating
// plugins that live inside multi-module parent repositories: a checkout-stage
// hook that lays the sources out, and a before-compile hook that picks and
// runs the right Maven build for the layout.
package hooks

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"git.home.luguber.info/inful/compattester/internal/errors"
	"git.home.luguber.info/inful/compattester/internal/hook"
	"git.home.luguber.info/inful/compattester/internal/logfields"
	"git.home.luguber.info/inful/compattester/internal/maven"
	"git.home.luguber.info/inful/compattester/internal/metrics"
)

// ESLintRC is the auxiliary lint configuration staged next to the plugin when
// testing local changes. Frontend builds inside the plugin expect to find it
// one level above their own directory.
const ESLintRC = ".eslintrc"

// CompileHook compiles a plugin before the harness rewrites its effective
// core version. It decides between a targeted multi-module build and a plain
// standalone one, and guards against compiling the same plugin twice within
// one run.
type CompileHook struct {
	registry *hook.Registry
	runner   maven.Runner
	recorder metrics.Recorder
}

// NewCompileHook creates the compile hook. The registry is consulted
// read-only for the checkout-stage applicability vote.
func NewCompileHook(registry *hook.Registry, runner maven.Runner) *CompileHook {
	slog.Info("Loaded multi-parent compile hook")
	return &CompileHook{registry: registry, runner: runner, recorder: metrics.NoopRecorder{}}
}

// WithRecorder attaches a metrics recorder (fluent helper).
func (h *CompileHook) WithRecorder(r metrics.Recorder) *CompileHook {
	h.recorder = r
	return h
}

func (h *CompileHook) Name() string { return "multi-parent-compile" }

// Check reports applicability by consulting the checkout-stage hooks: this
// hook applies iff any of them recognises the plugin as part of a
// multi-module parent layout.
func (h *CompileHook) Check(hctx *hook.Context) bool {
	for _, ch := range h.registry.HooksFor(hook.StageCheckout) {
		if voter, ok := ch.(hook.MultiParentVoter); ok && voter.AppliesToMultiParent(hctx) {
			return true
		}
	}
	return false
}

// Action stages the auxiliary lint configuration when testing local changes,
// then compiles the plugin unless an earlier hook already did.
func (h *CompileHook) Action(ctx context.Context, hctx *hook.Context) error {
	slog.Info("Executing multi-parent compile hook", logfields.Plugin(hctx.Plugin.Name), logfields.Path(hctx.PluginDir))

	if lc := hctx.LocalCheckout(); lc != "" {
		if err := h.stageLintConfig(lc, hctx); err != nil {
			return err
		}
	}

	// Compile before the effective-version override, but only once per
	// plugin per run.
	if !hctx.CompileRan {
		if err := h.compile(ctx, hctx); err != nil {
			return err
		}
		hctx.CompileRan = true
	}

	slog.Info("Executed multi-parent compile hook", logfields.Plugin(hctx.Plugin.Name))
	return nil
}

// stageLintConfig copies the .eslintrc found at the local checkout into the
// directory above the plugin's build dir. With multiple plugins under test
// the file must sit at the checkout's top level; with a single plugin it
// lives one level up, in the checkout's parent. A missing file is fine.
func (h *CompileHook) stageLintConfig(localCheckout string, hctx *hook.Context) error {
	sourcesRoot := localCheckout
	if !hctx.MultiplePlugins() {
		sourcesRoot = filepath.Dir(localCheckout)
	}
	entries, err := os.ReadDir(sourcesRoot)
	if err != nil {
		return errors.Wrap(err, errors.CategoryFileSystem, errors.SeverityFatal,
			fmt.Sprintf("failed to scan %s for %s", sourcesRoot, ESLintRC))
	}
	for _, entry := range entries {
		if entry.IsDir() || entry.Name() != ESLintRC {
			continue
		}
		src := filepath.Join(sourcesRoot, entry.Name())
		dst := filepath.Join(filepath.Dir(hctx.PluginDir), ESLintRC)
		if err := copyFile(src, dst); err != nil {
			return errors.Wrap(err, errors.CategoryFileSystem, errors.SeverityFatal,
				fmt.Sprintf("unable to copy %s file", ESLintRC))
		}
		slog.Debug("Staged lint configuration", logfields.Path(dst))
	}
	return nil
}

// compile picks the build strategy and runs it. The snapshot probe only
// happens when the topology check already passed, so standalone plugins never
// pay for an extra Maven invocation.
func (h *CompileHook) compile(ctx context.Context, hctx *hook.Context) error {
	isMultiParentSnapshot := false
	if isMultiParentLayout(hctx.PluginDir, hctx.Plugin.ParentFolder, hctx.LocalCheckout() != "") {
		snapshot, err := probeSnapshot(ctx, h.runner, filepath.Dir(hctx.PluginDir))
		if err != nil {
			return err
		}
		h.recorder.IncSnapshotProbe(snapshot)
		isMultiParentSnapshot = snapshot
	}

	if isMultiParentSnapshot {
		return h.compileMultiParent(ctx, hctx)
	}
	return h.compileStandalone(ctx, hctx)
}

// compileMultiParent builds the plugin from its parent directory with a
// targeted reactor build. Partial builds cannot see sibling-module classes
// unless the siblings are installed into the local repository first, hence
// "install -am" rather than compiling in place.
func (h *CompileHook) compileMultiParent(ctx context.Context, hctx *hook.Context) error {
	mavenModule, err := maven.ResolveModule(ctx, h.runner, hctx.Plugin.Name, hctx.PluginDir)
	if err != nil {
		return err
	}
	if strings.TrimSpace(mavenModule) == "" {
		return errors.New(errors.CategoryConfig, errors.SeverityFatal,
			fmt.Sprintf("unable to retrieve the Maven module for plugin %s on %s", hctx.Plugin.Name, hctx.PluginDir))
	}

	parentDir := filepath.Dir(hctx.PluginDir)
	logFile, err := StageResources(parentDir)
	if err != nil {
		return err
	}
	slog.Info("Compiling via targeted multi-module build",
		logfields.Plugin(hctx.Plugin.Name), logfields.MavenModule(mavenModule),
		logfields.Path(parentDir), logfields.Strategy(string(metrics.StrategyMultiParent)))

	start := time.Now()
	err = h.runner.Run(ctx,
		map[string]string{
			"skipTests":          "true",
			"invoker.skip":       "true",
			"enforcer.skip":      "true",
			"maven.javadoc.skip": "true",
		},
		parentDir, logFile,
		"clean", "install", "-am", "-pl", mavenModule)
	h.recorder.ObserveCompileDuration(metrics.StrategyMultiParent, time.Since(start))
	h.recorder.IncCompileOutcome(metrics.StrategyMultiParent, err == nil)
	return err
}

// compileStandalone builds the plugin in place, through test classes, which
// is everything later harness stages need.
func (h *CompileHook) compileStandalone(ctx context.Context, hctx *hook.Context) error {
	logFile, err := StageResources(hctx.PluginDir)
	if err != nil {
		return err
	}
	slog.Info("Compiling in place",
		logfields.Plugin(hctx.Plugin.Name), logfields.Path(hctx.PluginDir),
		logfields.Strategy(string(metrics.StrategyStandalone)))

	start := time.Now()
	err = h.runner.Run(ctx,
		map[string]string{"maven.javadoc.skip": "true"},
		hctx.PluginDir, logFile,
		"clean", "process-test-classes")
	h.recorder.ObserveCompileDuration(metrics.StrategyStandalone, time.Since(start))
	h.recorder.IncCompileOutcome(metrics.StrategyStandalone, err == nil)
	return err
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
