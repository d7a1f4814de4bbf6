// Package hook provides the staged hook chain the compat tester runs for each
// plugin: checkout hooks lay the source out on disk, before-compile hooks make
// sure the plugin builds before the harness overrides the core version.
package hook

import "context"

// Stage identifies a point in the per-plugin pipeline. Stages run in the
// order declared here.
type Stage string

const (
	StageCheckout      Stage = "checkout"
	StageBeforeCompile Stage = "before-compile"
)

// Stages lists all pipeline stages in execution order.
var Stages = []Stage{StageCheckout, StageBeforeCompile}

// Hook is one unit of work in a plugin's chain.
type Hook interface {
	// Name is the unique hook identifier used in logs.
	Name() string

	// Check reports whether this hook applies to the plugin in hctx. It must
	// be read-only: no filesystem mutation, no build-tool invocation.
	Check(hctx *Context) bool

	// Action performs the hook's work, mutating hctx as needed. A returned
	// error aborts the plugin's chain.
	Action(ctx context.Context, hctx *Context) error
}

// MultiParentVoter is the capability implemented by checkout-stage hooks that
// recognise plugins living inside a multi-module parent repository. The
// compile hook consults it to decide its own applicability without knowing
// any concrete hook type.
type MultiParentVoter interface {
	Hook

	// AppliesToMultiParent reports whether the plugin in hctx belongs to the
	// multi-module parent layout this hook recognises.
	AppliesToMultiParent(hctx *Context) bool
}
