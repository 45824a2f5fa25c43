// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helpers for tests: environment and working
// directory changes with cleanup (MustSetenv, MustChdir, SetHomeDir), file
// fixtures (MustWriteFile), a controllable FakeClock for retry timing, and a
// semaphore that bounds concurrent container tests.
package testutil
