// SPDX-License-Identifier: MPL-2.0

// Package platform holds OS name constants and detection of application
// sandboxes (Flatpak, Snap) that change how host executables such as
// steamcmd must be spawned.
package platform
