// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable errors and a catalog of Markdown help
// pages for the failures users commonly hit (missing steamcmd, unknown
// server, broken configuration). Catalog pages are rendered with glamour.
package issue
