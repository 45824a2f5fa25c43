// SPDX-License-Identifier: MPL-2.0

//go:build windows

package runner

import (
	"context"

	"github.com/modctl/modctl/pkg/steamcmd"
	"github.com/modctl/modctl/pkg/types"
)

// RunInteractive starts steamcmd with the Runner's stdio attached directly.
// Windows consoles have no pty layer to manage.
func (r *Runner) RunInteractive(ctx context.Context, args steamcmd.Args) (types.ExitCode, error) {
	cmd := r.CreateCommand(ctx, args)
	cmd.Stdin = r.stdin
	cmd.Stdout = r.stdout
	cmd.Stderr = r.stderr
	return r.exitStatus(ctx, cmd.Run())
}
