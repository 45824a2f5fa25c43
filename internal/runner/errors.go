// SPDX-License-Identifier: MPL-2.0

package runner

import (
	"errors"
	"fmt"
	"strings"

	"github.com/modctl/modctl/pkg/steamcmd"
	"github.com/modctl/modctl/pkg/types"
)

var (
	// ErrProcessExecutionFailed is the sentinel error wrapped by ProcessExecutionFailedError.
	ErrProcessExecutionFailed = errors.New("steamcmd process failed")
	// ErrDownloadFailed is the sentinel error wrapped by DownloadFailedError.
	ErrDownloadFailed = errors.New("workshop download failed")
	// ErrInteractiveUnavailable is returned by RunInteractive when stdin is
	// not a terminal.
	ErrInteractiveUnavailable = errors.New("interactive session requires a terminal")
)

type (
	// ProcessExecutionFailedError is returned when steamcmd exits non-zero on
	// its last attempt.
	ProcessExecutionFailedError struct {
		Binary   string
		Args     steamcmd.Args
		ExitCode types.ExitCode
		Attempts int
	}

	// DownloadFailedError reports ERROR! lines seen during a run that
	// otherwise exited zero.
	DownloadFailedError struct {
		Failures []Failure
	}
)

// Error implements the error interface.
func (e *ProcessExecutionFailedError) Error() string {
	attempts := "1 attempt"
	if e.Attempts != 1 {
		attempts = fmt.Sprintf("%d attempts", e.Attempts)
	}
	return fmt.Sprintf("%s exited with code %d after %s", e.Binary, e.ExitCode, attempts)
}

// Unwrap returns ErrProcessExecutionFailed for errors.Is() compatibility.
func (e *ProcessExecutionFailedError) Unwrap() error { return ErrProcessExecutionFailed }

// Error implements the error interface.
func (e *DownloadFailedError) Error() string {
	msgs := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		msgs[i] = f.String()
	}
	return fmt.Sprintf("%d download(s) failed: %s", len(e.Failures), strings.Join(msgs, "; "))
}

// Unwrap returns ErrDownloadFailed for errors.Is() compatibility.
func (e *DownloadFailedError) Unwrap() error { return ErrDownloadFailed }

// Items returns the workshop items named by the failures, in output order.
func (e *DownloadFailedError) Items() []steamcmd.WorkshopItem {
	var items []steamcmd.WorkshopItem
	for _, f := range e.Failures {
		if f.HasItem {
			items = append(items, f.Item)
		}
	}
	return items
}
