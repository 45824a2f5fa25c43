// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the modctl command tree. Handlers receive an App and
// delegate to internal/app/install; failures are rendered here with their
// issue catalog entry.
package cmd
