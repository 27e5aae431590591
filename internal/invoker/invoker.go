package invoker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/google/shlex"
)

// Invocation describes one run of the report tool.
type Invocation struct {
	// ToolPath is the tool launcher.
	ToolPath string

	// SpecFile is passed as -s.
	SpecFile string

	// OutputDir is passed as -i.
	OutputDir string

	// ConfigFile is passed as -c when not empty.
	ConfigFile string

	// WorkDir is the working directory of the tool. Relative paths are
	// resolved against it.
	WorkDir string

	// Launcher is an optional command prefix, e.g. "sh" or "cmd /c".
	Launcher string

	// Debug streams the tool output to the console.
	Debug bool
}

// Result describes a finished tool run.
type Result struct {
	// Args is the full command line.
	Args []string

	// ExitCode is the exit status of the tool.
	ExitCode int

	// Duration is the wall time of the run.
	Duration time.Duration
}

// Invoker runs the report tool.
type Invoker struct {
	stdout io.Writer
	stderr io.Writer
	logger *slog.Logger
}

// Option configures an Invoker.
type Option func(*Invoker)

// WithOutput sets where tool output goes in debug mode.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(i *Invoker) {
		i.stdout = stdout
		i.stderr = stderr
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(i *Invoker) {
		i.logger = logger
	}
}

// New creates an Invoker writing debug output to os.Stdout and os.Stderr.
func New(opts ...Option) *Invoker {
	i := &Invoker{
		stdout: os.Stdout,
		stderr: os.Stderr,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Command returns the command line for inv:
// [launcher...] tool -s spec -i outdir [-c config].
func Command(inv Invocation) ([]string, error) {
	var args []string
	if inv.Launcher != "" {
		prefix, err := shlex.Split(inv.Launcher)
		if err != nil {
			return nil, fmt.Errorf("%w %q: %v", ErrInvalidLauncher, inv.Launcher, err)
		}
		args = append(args, prefix...)
	}

	args = append(args,
		inv.ToolPath,
		"-s", filepath.FromSlash(inv.SpecFile),
		"-i", filepath.FromSlash(inv.OutputDir),
	)
	if inv.ConfigFile != "" {
		args = append(args, "-c", filepath.FromSlash(inv.ConfigFile))
	}
	return args, nil
}

// Run checks that the tool exists and runs it in inv.WorkDir. A non-zero
// exit status is reported in the result, not as an error.
func (i *Invoker) Run(ctx context.Context, inv Invocation) (*Result, error) {
	info, err := os.Stat(inv.ToolPath)
	if err != nil || info.IsDir() {
		return nil, fmt.Errorf("%w in following locations: %s", ErrToolNotFound, inv.ToolPath)
	}

	args, err := Command(inv)
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...) //nolint:gosec // Tool path comes from the install layout
	cmd.Dir = inv.WorkDir
	if inv.Debug {
		cmd.Stdout = i.stdout
		cmd.Stderr = i.stderr
	} else {
		cmd.Stdout = io.Discard
		cmd.Stderr = io.Discard
	}

	i.logger.Debug("running report tool", "args", args, "dir", inv.WorkDir)

	start := time.Now()
	err = cmd.Run()
	res := &Result{Args: args, Duration: time.Since(start)}

	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, fmt.Errorf("failed to run %s: %w", inv.ToolPath, err)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("report tool interrupted: %w", ctxErr)
		}
		res.ExitCode = exitErr.ExitCode()
		i.logger.Warn("report tool exited with non-zero status",
			"exitCode", res.ExitCode,
			"tool", inv.ToolPath,
		)
	}

	i.logger.Debug("report tool finished", "exitCode", res.ExitCode, "duration", res.Duration)
	return res, nil
}
