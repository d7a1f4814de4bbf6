package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyPlugin       = "plugin"
	KeyPath         = "path"
	KeyParentFolder = "parent_folder"
	KeyStage        = "stage"
	KeyGoals        = "goals"
	KeyStrategy     = "strategy"
	KeyLogFile      = "log_file"
	KeyRunID        = "run_id"
	KeyModule       = "maven_module"
	KeyError        = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Plugin(name string) slog.Attr       { return slog.String(KeyPlugin, name) }
func Path(p string) slog.Attr            { return slog.String(KeyPath, p) }
func ParentFolder(name string) slog.Attr { return slog.String(KeyParentFolder, name) }
func Stage(name string) slog.Attr        { return slog.String(KeyStage, name) }
func Goals(goals []string) slog.Attr     { return slog.Any(KeyGoals, goals) }
func Strategy(s string) slog.Attr        { return slog.String(KeyStrategy, s) }
func LogFile(p string) slog.Attr         { return slog.String(KeyLogFile, p) }
func RunID(id string) slog.Attr          { return slog.String(KeyRunID, id) }
func MavenModule(m string) slog.Attr     { return slog.String(KeyModule, m) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
