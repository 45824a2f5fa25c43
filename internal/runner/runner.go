// SPDX-License-Identifier: MPL-2.0

package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"slices"
	"time"

	"github.com/modctl/modctl/pkg/platform"
	"github.com/modctl/modctl/pkg/steamcmd"
	"github.com/modctl/modctl/pkg/types"
)

type (
	// ExecCommandFunc is the function signature for creating exec.Cmd.
	// This allows injection of mock implementations for testing.
	ExecCommandFunc func(ctx context.Context, name string, arg ...string) *exec.Cmd

	// Clock is the time source for backoff waits.
	Clock interface {
		Now() time.Time
		After(d time.Duration) <-chan time.Time
	}

	// Option configures a Runner.
	Option func(*Runner)

	// Runner launches steamcmd.
	Runner struct {
		binaryPath  string
		execCommand ExecCommandFunc
		stdin       io.Reader
		stdout      io.Writer
		stderr      io.Writer
		env         []string
		retries     int
		backoff     time.Duration
		clock       Clock
		sandbox     platform.SandboxType
		logger      *slog.Logger
	}

	// Result describes a completed Run.
	Result struct {
		// ExitCode is the exit status of the last attempt.
		ExitCode types.ExitCode
		// Attempts is the number of times steamcmd was started.
		Attempts int
		// Downloaded lists the workshop items the last attempt reported as
		// downloaded.
		Downloaded []steamcmd.WorkshopItem
		// Apps lists the apps the last attempt reported as installed.
		Apps []steamcmd.App
		// Failures lists the ERROR! lines of the last attempt.
		Failures []Failure
		// Duration is the wall time across all attempts and waits.
		Duration time.Duration
	}

	systemClock struct{}
)

func (systemClock) Now() time.Time                         { return time.Now() }
func (systemClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// Err returns a *DownloadFailedError when steamcmd reported failed items,
// nil otherwise.
func (r *Result) Err() error {
	if r == nil || len(r.Failures) == 0 {
		return nil
	}
	return &DownloadFailedError{Failures: slices.Clone(r.Failures)}
}

// --- Option Functions ---

// WithExecCommand sets a custom exec command function for testing.
func WithExecCommand(fn ExecCommandFunc) Option {
	return func(r *Runner) {
		r.execCommand = fn
	}
}

// WithStdin sets the reader connected to steamcmd's stdin.
func WithStdin(in io.Reader) Option {
	return func(r *Runner) {
		r.stdin = in
	}
}

// WithStdout sets the writer receiving steamcmd's stdout.
func WithStdout(w io.Writer) Option {
	return func(r *Runner) {
		r.stdout = w
	}
}

// WithStderr sets the writer receiving steamcmd's stderr.
func WithStderr(w io.Writer) Option {
	return func(r *Runner) {
		r.stderr = w
	}
}

// WithEnv adds KEY=VALUE entries to the inherited environment.
func WithEnv(env ...string) Option {
	return func(r *Runner) {
		r.env = append(r.env, env...)
	}
}

// WithRetries sets how many extra attempts follow a non-zero exit and the
// wait before the first of them. Later waits double.
func WithRetries(n int, backoff time.Duration) Option {
	return func(r *Runner) {
		r.retries = max(n, 0)
		r.backoff = backoff
	}
}

// WithClock replaces the clock used for backoff waits.
func WithClock(c Clock) Option {
	return func(r *Runner) {
		r.clock = c
	}
}

// WithSandbox overrides sandbox detection.
func WithSandbox(st platform.SandboxType) Option {
	return func(r *Runner) {
		r.sandbox = st
	}
}

// WithLogger sets the logger for attempt and retry records.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = l
	}
}

// --- Constructor ---

// New creates a Runner for the steamcmd executable at binaryPath.
func New(binaryPath string, opts ...Option) *Runner {
	r := &Runner{
		binaryPath:  binaryPath,
		execCommand: exec.CommandContext,
		stdin:       os.Stdin,
		stdout:      os.Stdout,
		stderr:      os.Stderr,
		clock:       systemClock{},
		sandbox:     platform.DetectSandbox(),
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// BinaryPath returns the steamcmd executable path.
func (r *Runner) BinaryPath() string { return r.binaryPath }

// CreateCommand creates an exec.Cmd for args without attaching stdio.
// Inside a Flatpak sandbox the command is routed through flatpak-spawn.
func (r *Runner) CreateCommand(ctx context.Context, args steamcmd.Args) *exec.Cmd {
	name, argv := platform.HostCommandFor(r.sandbox, r.binaryPath, args)
	cmd := r.execCommand(ctx, name, argv...)
	r.customizeCmd(cmd)
	return cmd
}

func (r *Runner) customizeCmd(cmd *exec.Cmd) {
	if len(r.env) == 0 {
		return
	}
	if cmd.Env == nil {
		cmd.Env = os.Environ()
	}
	cmd.Env = append(cmd.Env, r.env...)
}

// Run executes steamcmd with args, retrying non-zero exits as configured.
// A non-zero exit on the last attempt returns *ProcessExecutionFailedError
// together with the Result. Failed downloads in a zero exit are not an
// error here; see Result.Err.
func (r *Runner) Run(ctx context.Context, args steamcmd.Args) (*Result, error) {
	result := &Result{}
	start := r.clock.Now()

	err := RetryWithBackoff(ctx, r.clock, r.retries+1, r.backoff, func(attempt int) (bool, error) {
		result.Attempts = attempt + 1
		if attempt > 0 {
			r.logger.Info("retrying steamcmd", "attempt", result.Attempts, "of", r.retries+1)
		}

		cls := NewClassifier()
		code, err := r.runOnce(ctx, args, cls)
		cls.Flush()

		result.ExitCode = code
		result.Downloaded = cls.Downloaded()
		result.Apps = cls.Apps()
		result.Failures = cls.Failures()
		if err != nil {
			return false, err
		}

		r.logger.Debug("steamcmd exited",
			"attempt", result.Attempts,
			"exit_code", int(code),
			"downloaded", len(result.Downloaded),
			"failures", len(result.Failures))

		if code.IsSuccess() {
			return false, nil
		}
		failed := &ProcessExecutionFailedError{
			Binary:   r.binaryPath,
			Args:     args.Clone(),
			ExitCode: code,
			Attempts: result.Attempts,
		}
		if attempt < r.retries {
			r.logger.Warn("steamcmd failed", "exit_code", int(code), "next_wait", Backoff(r.backoff, attempt+1))
		}
		return true, failed
	})
	result.Duration = r.clock.Now().Sub(start)
	return result, err
}

func (r *Runner) runOnce(ctx context.Context, args steamcmd.Args, cls *Classifier) (types.ExitCode, error) {
	cmd := r.CreateCommand(ctx, args)
	cmd.Stdin = r.stdin
	cmd.Stdout = io.MultiWriter(orDiscard(r.stdout), cls)
	cmd.Stderr = r.stderr

	return r.exitStatus(ctx, cmd.Run())
}

// exitStatus converts the error of cmd.Run or cmd.Wait into an exit code.
// Errors that are not a process exit are returned as errors.
func (r *Runner) exitStatus(ctx context.Context, err error) (types.ExitCode, error) {
	if err == nil {
		return 0, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return 1, fmt.Errorf("steamcmd interrupted: %w", ctxErr)
	}
	if code, ok := types.ExitCodeOf(err); ok {
		return code, nil
	}
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
		return 1, &steamcmd.ExecutableNotFoundError{Name: r.binaryPath, Err: err}
	}
	return 1, fmt.Errorf("start %s: %w", r.binaryPath, err)
}

func orDiscard(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}
