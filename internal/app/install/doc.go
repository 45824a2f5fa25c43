// SPDX-License-Identifier: MPL-2.0

// Package install turns a configured server into a steamcmd invocation and
// runs it. Plan is pure and deterministic; Service adds logging, run ids,
// and user-facing error classification on top of a process runner.
package install
