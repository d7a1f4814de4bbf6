package hooks

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/compattester/internal/errors"
	"git.home.luguber.info/inful/compattester/internal/logfields"
)

// CompileLogName is the fixed log file capturing compilation output.
const CompileLogName = "compilePluginLog.log"

// generatedFolders are frontend dependency caches left behind by earlier
// builds. Stale contents are a known source of flaky builds, so both are
// removed before every compile.
var generatedFolders = []string{"node", "node_modules"}

// StageResources prepares dir for a clean build: removes generated dependency
// folders and returns the log file path for the upcoming Maven invocation.
// Missing folders are fine; a refused delete is fatal.
func StageResources(dir string) (string, error) {
	slog.Debug("Cleaning up node modules if necessary", logfields.Path(dir))
	for _, name := range generatedFolders {
		folder := filepath.Join(dir, name)
		info, err := os.Stat(folder)
		if err != nil || !info.IsDir() {
			continue
		}
		if err := os.RemoveAll(folder); err != nil {
			return "", errors.Wrap(err, errors.CategoryFileSystem, errors.SeverityFatal,
				fmt.Sprintf("failed to remove generated folder %s", folder))
		}
	}
	logFile := filepath.Join(dir, CompileLogName)
	slog.Debug("Plugin compilation log designated", logfields.LogFile(logFile))
	return logFile, nil
}
