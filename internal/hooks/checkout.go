package hooks

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/compattester/internal/errors"
	"git.home.luguber.info/inful/compattester/internal/hook"
	"git.home.luguber.info/inful/compattester/internal/logfields"
	"git.home.luguber.info/inful/compattester/internal/metrics"
	"git.home.luguber.info/inful/compattester/internal/scm"
)

// CheckoutHook fetches plugin sources into the workspace. For plugins that
// declare a multi-module parent folder the whole parent repository is cloned,
// so sibling modules are available to the compile stage; standalone plugins
// get their own checkout. It also casts the multi-parent applicability vote
// the compile hook consults.
type CheckoutHook struct {
	client   *scm.Client
	recorder metrics.Recorder
}

// NewCheckoutHook creates the checkout hook.
func NewCheckoutHook(client *scm.Client) *CheckoutHook {
	return &CheckoutHook{client: client, recorder: metrics.NoopRecorder{}}
}

// WithRecorder attaches a metrics recorder (fluent helper).
func (h *CheckoutHook) WithRecorder(r metrics.Recorder) *CheckoutHook {
	h.recorder = r
	return h
}

func (h *CheckoutHook) Name() string { return "source-checkout" }

// Check applies whenever the plugin names a source location to fetch.
func (h *CheckoutHook) Check(hctx *hook.Context) bool {
	return hctx.Plugin.URL != ""
}

// AppliesToMultiParent implements hook.MultiParentVoter: a plugin belongs to
// a multi-module parent layout when it declares an enclosing parent folder.
func (h *CheckoutHook) AppliesToMultiParent(hctx *hook.Context) bool {
	return hctx.Plugin.ParentFolder != ""
}

// Action clones the sources unless a local checkout override or a previous
// chain already laid them out.
func (h *CheckoutHook) Action(ctx context.Context, hctx *hook.Context) error {
	if hctx.LocalCheckout() != "" {
		slog.Debug("Local checkout override set, skipping fetch", logfields.Plugin(hctx.Plugin.Name))
		return nil
	}

	dest := hctx.PluginDir
	if hctx.Plugin.ParentFolder != "" {
		dest = filepath.Dir(hctx.PluginDir)
	}
	if _, err := os.Stat(dest); err == nil {
		slog.Debug("Sources already present, skipping fetch", logfields.Path(dest))
		return nil
	}

	err := h.client.Clone(hctx.Plugin.URL, hctx.Plugin.Branch, dest)
	h.recorder.IncCheckoutResult(err == nil)
	if err != nil {
		return errors.Wrap(err, errors.CategorySCM, errors.SeverityFatal,
			fmt.Sprintf("failed to fetch sources for plugin %s", hctx.Plugin.Name))
	}
	return nil
}
