package maven

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// moduleLogName captures the output of the module-identifier evaluation.
const moduleLogName = "mavenModule.log"

// ResolveModule asks Maven for the module coordinate of the plugin rooted at
// dir, for use in a targeted multi-module build (-pl). Returns "" when the
// evaluation produced no usable output; the caller decides whether that is
// fatal. The runner's build failure propagates unchanged.
func ResolveModule(ctx context.Context, runner Runner, pluginName, dir string) (string, error) {
	logFile := filepath.Join(dir, moduleLogName)
	err := runner.Run(ctx,
		map[string]string{"expression": "project.artifactId", "forceStdout": "true"},
		dir, logFile, "-q", "help:evaluate")
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(logFile)
	if err != nil {
		return "", fmt.Errorf("failed to read module evaluation log for %s: %w", pluginName, err)
	}
	artifactID := LastNonEmptyLine(data)
	if artifactID == "" {
		return "", nil
	}
	return ":" + artifactID, nil
}
