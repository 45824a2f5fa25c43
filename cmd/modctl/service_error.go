// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/modctl/modctl/internal/issue"
	"github.com/modctl/modctl/internal/runner"
	"github.com/modctl/modctl/pkg/types"
)

// ServiceError is an error that carries rendering information for the CLI
// layer: an optional pre-styled message and the issue catalog entry that
// explains it. Always create via newServiceError.
type ServiceError struct {
	// Err is the underlying error (must not be nil).
	Err error
	// IssueID is the optional issue catalog ID for rendering help text.
	IssueID issue.Id
	// StyledMessage is the optional pre-rendered styled error text.
	StyledMessage string
}

// newServiceError creates a ServiceError with a nil-Err panic guard.
func newServiceError(err error, issueID issue.Id, styledMessage string) *ServiceError {
	if err == nil {
		panic("ServiceError: Err must not be nil")
	}
	return &ServiceError{
		Err:           err,
		IssueID:       issueID,
		StyledMessage: styledMessage,
	}
}

// Error implements the error interface.
func (e *ServiceError) Error() string { return e.Err.Error() }

// Unwrap returns the underlying error for errors.Is/As chains.
func (e *ServiceError) Unwrap() error { return e.Err }

// renderServiceError prints the styled message, then the issue help section.
func renderServiceError(stderr io.Writer, svcErr *ServiceError) {
	if svcErr == nil {
		return
	}

	if svcErr.StyledMessage != "" {
		fmt.Fprint(stderr, svcErr.StyledMessage)
	}

	if svcErr.IssueID == 0 {
		return
	}

	if catalogEntry := issue.Get(svcErr.IssueID); catalogEntry != nil {
		rendered, renderErr := catalogEntry.Render("dark")
		if renderErr != nil {
			slog.Warn("failed to render issue catalog entry", "issueID", svcErr.IssueID, "error", renderErr)
		} else {
			fmt.Fprint(stderr, rendered)
		}
	}
}

// toServiceError builds the ServiceError shown for err: the formatted error
// line styled in red plus the issue id carried by an ActionableError.
func toServiceError(err error, verbose bool) *ServiceError {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr
	}
	id, _ := issue.IssueOf(err)
	styled := ErrorStyle.Render("Error: ") + formatErrorForDisplay(err, verbose) + "\n"
	return newServiceError(err, id, styled)
}

// formatErrorForDisplay uses ActionableError.Format when available, which
// adds suggestions and, in verbose mode, the full error chain.
func formatErrorForDisplay(err error, verbose bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return err.Error()
}

// exitCodeOf returns steamcmd's exit code for process failures and 1 for
// everything else.
func exitCodeOf(err error) types.ExitCode {
	var procErr *runner.ProcessExecutionFailedError
	if errors.As(err, &procErr) && procErr.ExitCode != 0 {
		return procErr.ExitCode
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Code != 0 {
		return exitErr.Code
	}
	return 1
}

// fail renders err to stderr and returns an ExitError so Execute exits with
// the matching code. Cobra's own error and usage output is silenced since
// the error was already shown.
func (a *App) fail(cmd *cobra.Command, err error) error {
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	renderServiceError(a.stderr, toServiceError(err, a.verbose))
	return &ExitError{Code: exitCodeOf(err), Err: err}
}
