package hooks

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"git.home.luguber.info/inful/compattester/internal/config"
	"git.home.luguber.info/inful/compattester/internal/errors"
	"git.home.luguber.info/inful/compattester/internal/hook"
)

// multiParentFixture lays out work/bom-parent/plugin-x on disk and returns a
// chain context for it.
func multiParentFixture(t *testing.T, runner *fakeRunner) (*CompileHook, *hook.Context, string) {
	t.Helper()
	work := t.TempDir()
	pluginDir := filepath.Join(work, "bom-parent", "plugin-x")
	if err := os.MkdirAll(pluginDir, 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	plugin := config.Plugin{Name: "plugin-x", Dir: pluginDir, ParentFolder: "bom-parent"}
	cfg := &config.Config{Plugins: []config.Plugin{plugin}}
	h := NewCompileHook(hook.NewRegistry(), runner)
	return h, hook.NewContext(cfg, plugin), pluginDir
}

func TestCompileMultiParentSnapshot(t *testing.T) {
	runner := &fakeRunner{versionOutput: "2.0-SNAPSHOT\n", moduleOutput: "plugin-x\n"}
	h, hctx, pluginDir := multiParentFixture(t, runner)

	if err := h.Action(context.Background(), hctx); err != nil {
		t.Fatalf("Action: %v", err)
	}
	if !hctx.CompileRan {
		t.Error("CompileRan should be set after a successful compile")
	}

	if len(runner.calls) != 3 {
		t.Fatalf("runner called %d times, want 3 (version probe, module resolve, build)", len(runner.calls))
	}

	parentDir := filepath.Dir(pluginDir)
	build := runner.calls[2]
	if build.dir != parentDir {
		t.Errorf("targeted build ran in %q, want parent dir %q", build.dir, parentDir)
	}
	wantGoals := []string{"clean", "install", "-am", "-pl", ":plugin-x"}
	if len(build.goals) != len(wantGoals) {
		t.Fatalf("build goals = %v, want %v", build.goals, wantGoals)
	}
	for i, g := range wantGoals {
		if build.goals[i] != g {
			t.Errorf("goal[%d] = %q, want %q", i, build.goals[i], g)
		}
	}
	for _, opt := range []string{"skipTests", "invoker.skip", "enforcer.skip", "maven.javadoc.skip"} {
		if build.opts[opt] != "true" {
			t.Errorf("expected option %s=true, got %q", opt, build.opts[opt])
		}
	}
	if build.logFile != filepath.Join(parentDir, CompileLogName) {
		t.Errorf("build log = %q, want %s in parent dir", build.logFile, CompileLogName)
	}
}

func TestCompileMultiParentReleasedVersion(t *testing.T) {
	runner := &fakeRunner{versionOutput: "2.0\n"}
	h, hctx, pluginDir := multiParentFixture(t, runner)

	if err := h.Action(context.Background(), hctx); err != nil {
		t.Fatalf("Action: %v", err)
	}

	// Version probe plus the standalone build, no module resolution.
	if len(runner.calls) != 2 {
		t.Fatalf("runner called %d times, want 2", len(runner.calls))
	}
	build := runner.calls[1]
	if build.dir != pluginDir {
		t.Errorf("standalone build ran in %q, want plugin dir %q", build.dir, pluginDir)
	}
	if len(build.goals) != 2 || build.goals[0] != "clean" || build.goals[1] != "process-test-classes" {
		t.Errorf("goals = %v, want [clean process-test-classes]", build.goals)
	}
	if build.opts["maven.javadoc.skip"] != "true" || len(build.opts) != 1 {
		t.Errorf("opts = %v, want only maven.javadoc.skip=true", build.opts)
	}
}

func TestCompileStandalonePlugin(t *testing.T) {
	pluginDir := t.TempDir()
	plugin := config.Plugin{Name: "plugin-y", Dir: pluginDir}
	cfg := &config.Config{Plugins: []config.Plugin{plugin}}
	runner := &fakeRunner{}
	h := NewCompileHook(hook.NewRegistry(), runner)

	if err := h.Action(context.Background(), hook.NewContext(cfg, plugin)); err != nil {
		t.Fatalf("Action: %v", err)
	}

	// No parent folder: the version probe is never paid for.
	if len(runner.calls) != 1 {
		t.Fatalf("runner called %d times, want 1", len(runner.calls))
	}
	if got := runner.calls[0].goals; len(got) != 2 || got[0] != "clean" || got[1] != "process-test-classes" {
		t.Errorf("goals = %v, want [clean process-test-classes]", got)
	}
}

func TestCompileUnresolvableModuleIsFatal(t *testing.T) {
	runner := &fakeRunner{versionOutput: "2.0-SNAPSHOT\n", moduleOutput: "\n"}
	h, hctx, _ := multiParentFixture(t, runner)

	err := h.Action(context.Background(), hctx)
	if err == nil {
		t.Fatal("expected a fatal error for an unresolvable module")
	}
	if !errors.IsCategory(err, errors.CategoryConfig) {
		t.Errorf("error category = %v, want config", errors.GetCategory(err))
	}
	if hctx.CompileRan {
		t.Error("CompileRan must stay unset when the compile failed")
	}
	// Probe and resolution only; the build itself never ran.
	if len(runner.calls) != 2 {
		t.Errorf("runner called %d times, want 2", len(runner.calls))
	}
}

func TestCompileRanGuard(t *testing.T) {
	pluginDir := t.TempDir()
	plugin := config.Plugin{Name: "plugin-y", Dir: pluginDir}
	cfg := &config.Config{Plugins: []config.Plugin{plugin}}
	runner := &fakeRunner{}
	h := NewCompileHook(hook.NewRegistry(), runner)
	hctx := hook.NewContext(cfg, plugin)

	for i := 0; i < 2; i++ {
		if err := h.Action(context.Background(), hctx); err != nil {
			t.Fatalf("Action %d: %v", i, err)
		}
	}
	if len(runner.calls) != 1 {
		t.Errorf("runner called %d times across two hook calls, want 1", len(runner.calls))
	}

	// A context arriving with the flag already set triggers no build at all.
	preCompiled := hook.NewContext(cfg, plugin)
	preCompiled.CompileRan = true
	runner.calls = nil
	if err := h.Action(context.Background(), preCompiled); err != nil {
		t.Fatalf("Action: %v", err)
	}
	if len(runner.calls) != 0 {
		t.Errorf("runner called %d times with flag pre-set, want 0", len(runner.calls))
	}
}

func TestLintConfigStagingSinglePlugin(t *testing.T) {
	root := t.TempDir()
	checkout := filepath.Join(root, "checkout")
	pluginDir := filepath.Join(root, "plugins", "plugin-x")
	for _, d := range []string{checkout, pluginDir} {
		if err := os.MkdirAll(d, 0o750); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
	}
	// Single plugin: the file is expected in the checkout's parent.
	if err := os.WriteFile(filepath.Join(root, ESLintRC), []byte("{}"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	plugin := config.Plugin{Name: "plugin-x", Dir: pluginDir}
	cfg := &config.Config{Plugins: []config.Plugin{plugin}, LocalCheckout: checkout}
	h := NewCompileHook(hook.NewRegistry(), &fakeRunner{})

	if err := h.Action(context.Background(), hook.NewContext(cfg, plugin)); err != nil {
		t.Fatalf("Action: %v", err)
	}

	staged := filepath.Join(filepath.Dir(pluginDir), ESLintRC)
	if _, err := os.Stat(staged); err != nil {
		t.Errorf("expected %s to be staged next to the plugin dir: %v", ESLintRC, err)
	}
}

func TestLintConfigStagingMultiplePlugins(t *testing.T) {
	root := t.TempDir()
	checkout := filepath.Join(root, "checkout")
	pluginDir := filepath.Join(root, "plugins", "plugin-x")
	for _, d := range []string{checkout, pluginDir} {
		if err := os.MkdirAll(d, 0o750); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
	}
	// Multiple plugins: the file must sit at the checkout's top level. A
	// stray copy in the parent must be ignored.
	if err := os.WriteFile(filepath.Join(checkout, ESLintRC), []byte("{}"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, ESLintRC), []byte("wrong"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	plugins := []config.Plugin{
		{Name: "plugin-x", Dir: pluginDir},
		{Name: "plugin-y", Dir: filepath.Join(root, "plugins", "plugin-y")},
	}
	cfg := &config.Config{Plugins: plugins, LocalCheckout: checkout}
	h := NewCompileHook(hook.NewRegistry(), &fakeRunner{})

	if err := h.Action(context.Background(), hook.NewContext(cfg, plugins[0])); err != nil {
		t.Fatalf("Action: %v", err)
	}

	staged := filepath.Join(filepath.Dir(pluginDir), ESLintRC)
	data, err := os.ReadFile(staged)
	if err != nil {
		t.Fatalf("expected staged %s: %v", ESLintRC, err)
	}
	if string(data) != "{}" {
		t.Errorf("staged content = %q, want the checkout-root copy", data)
	}
}

func TestLintConfigMissingFileIsFine(t *testing.T) {
	root := t.TempDir()
	checkout := filepath.Join(root, "checkout")
	pluginDir := filepath.Join(root, "plugins", "plugin-x")
	for _, d := range []string{checkout, pluginDir} {
		if err := os.MkdirAll(d, 0o750); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
	}

	plugin := config.Plugin{Name: "plugin-x", Dir: pluginDir}
	cfg := &config.Config{Plugins: []config.Plugin{plugin}, LocalCheckout: checkout}
	h := NewCompileHook(hook.NewRegistry(), &fakeRunner{})

	if err := h.Action(context.Background(), hook.NewContext(cfg, plugin)); err != nil {
		t.Fatalf("a missing %s must not fail the chain: %v", ESLintRC, err)
	}
}

// fakeVoterHook is a checkout-stage hook exposing the multi-parent capability.
type fakeVoterHook struct {
	applies bool
}

func (f *fakeVoterHook) Name() string                                { return "fake-voter" }
func (f *fakeVoterHook) Check(*hook.Context) bool                    { return true }
func (f *fakeVoterHook) Action(context.Context, *hook.Context) error { return nil }
func (f *fakeVoterHook) AppliesToMultiParent(*hook.Context) bool     { return f.applies }

// plainHook has no multi-parent capability.
type plainHook struct{}

func (plainHook) Name() string                                { return "plain" }
func (plainHook) Check(*hook.Context) bool                    { return true }
func (plainHook) Action(context.Context, *hook.Context) error { return nil }

func TestCompileHookCheckConsultsVoters(t *testing.T) {
	plugin := config.Plugin{Name: "plugin-x", Dir: "/work/plugin-x"}
	cfg := &config.Config{Plugins: []config.Plugin{plugin}}
	hctx := hook.NewContext(cfg, plugin)

	cases := []struct {
		name  string
		hooks []hook.Hook
		want  bool
	}{
		{"no checkout hooks", nil, false},
		{"voter applies", []hook.Hook{&fakeVoterHook{applies: true}}, true},
		{"voter does not apply", []hook.Hook{&fakeVoterHook{applies: false}}, false},
		{"non-voter ignored", []hook.Hook{plainHook{}}, false},
		{"mixed", []hook.Hook{plainHook{}, &fakeVoterHook{applies: true}}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			registry := hook.NewRegistry()
			for _, ch := range tc.hooks {
				if err := registry.Register(hook.StageCheckout, ch); err != nil {
					t.Fatalf("register: %v", err)
				}
			}
			h := NewCompileHook(registry, &fakeRunner{})
			if got := h.Check(hctx); got != tc.want {
				t.Errorf("Check = %v, want %v", got, tc.want)
			}
		})
	}
}
