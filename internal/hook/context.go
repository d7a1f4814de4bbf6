package hook

import (
	"github.com/google/uuid"

	"git.home.luguber.info/inful/compattester/internal/config"
)

// Context carries the facts accumulated across a plugin's hook chain. One
// Context exists per plugin per run; chains for different plugins never share
// one. Named fields replace the string-keyed metadata bag the stages would
// otherwise pass around.
type Context struct {
	// RunID identifies this harness run in logs.
	RunID string

	// Config is the harness configuration, read-only to hooks.
	Config *config.Config

	// Plugin is the descriptor of the plugin under test, read-only to hooks.
	Plugin config.Plugin

	// PluginDir is the absolute path of the plugin project root. Checkout
	// hooks may set it; later stages only read it.
	PluginDir string

	// CompileRan records that the compile step already happened for this
	// plugin. Once true it is never reset within a run, so later hooks and
	// stages skip recompilation.
	CompileRan bool
}

// NewContext builds a fresh chain context for one plugin, resolving its
// working directory from the configuration.
func NewContext(cfg *config.Config, plugin config.Plugin) *Context {
	return &Context{
		RunID:     uuid.NewString(),
		Config:    cfg,
		Plugin:    plugin,
		PluginDir: cfg.PluginDir(plugin),
	}
}

// LocalCheckout returns the local-checkout override directory, or "" when the
// run tests fetched sources.
func (c *Context) LocalCheckout() string {
	if c.Config == nil {
		return ""
	}
	return c.Config.LocalCheckout
}

// MultiplePlugins reports whether more than one plugin is under test in this
// run, which changes where auxiliary config files are expected to live.
func (c *Context) MultiplePlugins() bool {
	return c.Config != nil && len(c.Config.Plugins) > 1
}
