// SPDX-License-Identifier: MPL-2.0

// Package runner launches steamcmd with a rendered argument list.
//
// A Runner owns the executable path and the process plumbing: stdio wiring,
// extra environment, retries with exponential backoff, and classification of
// steamcmd's stdout into downloaded and failed workshop items. Interactive
// sessions are attached to the user's terminal through a pseudo-terminal on
// Unix.
package runner
