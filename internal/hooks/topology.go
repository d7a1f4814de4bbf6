package hooks

import (
	"log/slog"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/compattester/internal/logfields"
)

// isMultiParentLayout reports whether the plugin physically resides inside
// its declared multi-module parent folder. Pure path inspection, no I/O.
// A local checkout override always means "already laid out as given", so it
// short-circuits to false. Mismatches between the declared parent folder and
// the actual path are a consistency problem, not a correctness one: they are
// logged and classification falls back to the standalone layout.
func isMultiParentLayout(pluginDir, parentFolder string, hasLocalCheckout bool) bool {
	if hasLocalCheckout {
		return false
	}
	if strings.TrimSpace(parentFolder) == "" {
		return false
	}
	abs, err := filepath.Abs(pluginDir)
	if err != nil {
		slog.Warn("Cannot resolve plugin path", logfields.Path(pluginDir), logfields.Error(err))
		return false
	}
	if !strings.Contains(abs, parentFolder) {
		slog.Warn("Parent folder not present in plugin path",
			logfields.ParentFolder(parentFolder), logfields.Path(abs))
		return false
	}
	if filepath.Base(filepath.Dir(abs)) != parentFolder {
		slog.Warn("Declared parent folder is not the plugin's parent directory",
			logfields.ParentFolder(parentFolder), logfields.Path(abs))
		return false
	}
	return true
}
