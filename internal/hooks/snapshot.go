package hooks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/compattester/internal/errors"
	"git.home.luguber.info/inful/compattester/internal/maven"
)

// versionLogName captures the output of the project.version evaluation.
const versionLogName = "version.log"

// snapshotSuffix marks an unreleased, in-development project version.
const snapshotSuffix = "-SNAPSHOT"

// IsSnapshotVersion reports whether an effective-version line denotes an
// unreleased version. The suffix must terminate the line; a marker embedded
// mid-line does not count.
func IsSnapshotVersion(line string) bool {
	return strings.HasSuffix(line, snapshotSuffix)
}

// probeSnapshot asks Maven for the effective project version of the
// parent-module directory and classifies it. The build tool is the only
// authoritative source here: the raw project descriptor may inherit or
// interpolate its version, so inspecting it directly would be wrong.
// Runner failures propagate unchanged; there is no retry.
func probeSnapshot(ctx context.Context, runner maven.Runner, parentDir string) (bool, error) {
	logFile := filepath.Join(parentDir, versionLogName)
	err := runner.Run(ctx,
		map[string]string{"expression": "project.version", "forceStdout": "true"},
		parentDir, logFile, "-q", "help:evaluate")
	if err != nil {
		return false, err
	}
	data, err := os.ReadFile(logFile)
	if err != nil {
		return false, errors.Wrap(err, errors.CategoryFileSystem, errors.SeverityFatal,
			fmt.Sprintf("failed to read version evaluation log %s", logFile))
	}
	return IsSnapshotVersion(maven.LastNonEmptyLine(data)), nil
}
