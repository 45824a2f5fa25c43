// SPDX-License-Identifier: MPL-2.0

// Package serverconfig holds the declarative description of game servers and
// the workshop modifications each one installs.
//
// Values are immutable once constructed: accessors return copies, and there
// is no mutation API, so a Config can be shared between goroutines freely.
// Parsing configuration files is left to callers; FromData accepts the
// generic map shape that any decoder (CUE, TOML, YAML, JSON) produces.
package serverconfig
