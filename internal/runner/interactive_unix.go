// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/creack/pty"
	"github.com/muesli/cancelreader"
	"golang.org/x/term"

	"github.com/modctl/modctl/pkg/steamcmd"
	"github.com/modctl/modctl/pkg/types"
)

// RunInteractive starts steamcmd on a pseudo-terminal wired to the Runner's
// stdin and stdout, which must be a terminal. The terminal is put in raw
// mode for the session and restored afterwards; window size changes are
// forwarded.
func (r *Runner) RunInteractive(ctx context.Context, args steamcmd.Args) (code types.ExitCode, err error) {
	in, ok := r.stdin.(*os.File)
	if !ok || !term.IsTerminal(int(in.Fd())) {
		return 1, ErrInteractiveUnavailable
	}

	cmd := r.CreateCommand(ctx, args)
	ptmx, err := pty.Start(cmd)
	if err != nil {
		return r.exitStatus(ctx, err)
	}
	defer func() {
		if closeErr := ptmx.Close(); closeErr != nil && err == nil && !errors.Is(closeErr, os.ErrClosed) {
			err = fmt.Errorf("close pty: %w", closeErr)
		}
	}()

	winch := make(chan os.Signal, 1)
	signal.Notify(winch, syscall.SIGWINCH)
	defer func() {
		signal.Stop(winch)
		close(winch)
	}()
	go func() {
		for range winch {
			_ = pty.InheritSize(in, ptmx)
		}
	}()
	winch <- syscall.SIGWINCH

	state, err := term.MakeRaw(int(in.Fd()))
	if err != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return 1, fmt.Errorf("set terminal raw mode: %w", err)
	}
	defer func() { _ = term.Restore(int(in.Fd()), state) }()

	stdin, err := cancelreader.NewReader(in)
	if err != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return 1, fmt.Errorf("watch terminal input: %w", err)
	}
	defer func() { _ = stdin.Close() }()

	copied := make(chan struct{})
	go func() {
		defer close(copied)
		_, _ = io.Copy(ptmx, stdin)
	}()
	// Returns once the child closes its side of the pty.
	_, _ = io.Copy(orDiscard(r.stdout), ptmx)
	waitErr := cmd.Wait()

	// Input typed after the session belongs to the caller again.
	stdin.Cancel()
	<-copied

	return r.exitStatus(ctx, waitErr)
}
