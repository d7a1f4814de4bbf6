// Package maven wraps invocation of the external Maven binary. Every build
// step in the hook chain goes through the Runner interface so tests can
// substitute a recording fake for the real process execution.
package maven

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"os/exec"
	"slices"
	"strings"

	"git.home.luguber.info/inful/compattester/internal/logfields"
)

// Runner executes Maven with free-form property assignments and an ordered
// goal list, capturing all process output into logFile. A failed build is
// reported as *BuildExecutionError.
type Runner interface {
	Run(ctx context.Context, opts map[string]string, dir string, logFile string, goals ...string) error
}

// BuildExecutionError reports a Maven invocation that completed with a
// failure. It is always fatal for the plugin's chain and is never retried.
type BuildExecutionError struct {
	Dir     string
	Goals   []string
	LogFile string
	Err     error
}

func (e *BuildExecutionError) Error() string {
	return fmt.Sprintf("maven build failed in %s (goals %s), see %s: %v",
		e.Dir, strings.Join(e.Goals, " "), e.LogFile, e.Err)
}

func (e *BuildExecutionError) Unwrap() error { return e.Err }

// ExternalRunner runs a Maven executable found on disk or PATH.
type ExternalRunner struct {
	Executable string   // binary name or path, e.g. "mvn"
	Settings   string   // optional settings file passed as -s
	Args       []string // extra arguments appended to every invocation
}

// NewExternalRunner creates a runner for the given executable and settings.
func NewExternalRunner(executable, settings string, args []string) *ExternalRunner {
	if executable == "" {
		executable = "mvn"
	}
	return &ExternalRunner{Executable: executable, Settings: settings, Args: args}
}

// Run blocks until Maven exits. Options become -Dkey=value flags, sorted so
// the command line is reproducible. Stdout and stderr both go to logFile.
func (r *ExternalRunner) Run(ctx context.Context, opts map[string]string, dir string, logFile string, goals ...string) error {
	args := []string{"-B"}
	if r.Settings != "" {
		args = append(args, "-s", r.Settings)
	}
	args = append(args, r.Args...)
	for _, k := range slices.Sorted(maps.Keys(opts)) {
		args = append(args, fmt.Sprintf("-D%s=%s", k, opts[k]))
	}
	args = append(args, goals...)

	out, err := os.Create(logFile)
	if err != nil {
		return fmt.Errorf("failed to create maven log %s: %w", logFile, err)
	}
	defer out.Close()

	cmd := exec.CommandContext(ctx, r.Executable, args...)
	cmd.Dir = dir
	cmd.Stdout = out
	cmd.Stderr = out
	slog.Debug("Running Maven", logfields.Path(dir), logfields.Goals(goals), logfields.LogFile(logFile))
	if err := cmd.Run(); err != nil {
		return &BuildExecutionError{Dir: dir, Goals: goals, LogFile: logFile, Err: err}
	}
	return nil
}

// LastNonEmptyLine returns the final non-blank line of captured Maven output,
// or "" when every line is blank. Expression evaluations forced to stdout put
// their result on the last meaningful line, after any download chatter.
func LastNonEmptyLine(data []byte) string {
	lines := strings.Split(string(data), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimRight(lines[i], "\r"); strings.TrimSpace(line) != "" {
			return line
		}
	}
	return ""
}
