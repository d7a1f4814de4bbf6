package hook

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"git.home.luguber.info/inful/compattester/internal/logfields"
)

// Registry manages hook registration and per-stage lookup.
type Registry struct {
	mu    sync.RWMutex
	hooks map[Stage][]Hook
}

// NewRegistry creates a new empty hook registry.
func NewRegistry() *Registry {
	return &Registry{hooks: make(map[Stage][]Hook)}
}

// Register adds a hook to a stage. Hooks run in registration order.
// Returns an error for a nil hook or a duplicate name within the stage.
func (r *Registry) Register(stage Stage, h Hook) error {
	if h == nil {
		return fmt.Errorf("cannot register nil hook")
	}
	if h.Name() == "" {
		return fmt.Errorf("hook name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.hooks[stage] {
		if existing.Name() == h.Name() {
			return fmt.Errorf("hook %s already registered for stage %s", h.Name(), stage)
		}
	}
	r.hooks[stage] = append(r.hooks[stage], h)
	return nil
}

// HooksFor returns the ordered hooks registered for a stage. The returned
// slice is a copy; callers may not mutate registry state through it.
func (r *Registry) HooksFor(stage Stage) []Hook {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Hook, len(r.hooks[stage]))
	copy(out, r.hooks[stage])
	return out
}

// RunChain executes every applicable hook, stage by stage, for one plugin.
// The first hook error aborts the chain; the caller continues with other
// plugins. The possibly mutated context is returned either way.
func (r *Registry) RunChain(ctx context.Context, hctx *Context) (*Context, error) {
	for _, stage := range Stages {
		for _, h := range r.HooksFor(stage) {
			if !h.Check(hctx) {
				slog.Debug("Hook not applicable, skipping",
					logfields.Stage(string(stage)), slog.String("hook", h.Name()), logfields.Plugin(hctx.Plugin.Name))
				continue
			}
			slog.Info("Executing hook",
				logfields.Stage(string(stage)), slog.String("hook", h.Name()),
				logfields.Plugin(hctx.Plugin.Name), logfields.RunID(hctx.RunID))
			if err := h.Action(ctx, hctx); err != nil {
				return hctx, fmt.Errorf("hook %s (stage %s) failed for plugin %s: %w",
					h.Name(), stage, hctx.Plugin.Name, err)
			}
		}
	}
	return hctx, nil
}
