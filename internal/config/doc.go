// SPDX-License-Identifier: MPL-2.0

// Package config loads modctl configuration.
//
// The configuration file is looked up as config.{cue,toml,yaml,yml,json} in
// the platform config directory ($XDG_CONFIG_HOME/modctl, ~/Library/Application
// Support/modctl, %APPDATA%\modctl) and then in the working directory, unless
// an explicit path is given. Every format is validated against the embedded
// CUE schema (config_schema.cue) before use.
//
// Tool settings (steamcmd, game, log) are layered through Viper so that
// MODCTL_* environment variables override file values. The servers section
// is decoded separately into a serverconfig.Config, keeping server names
// case-sensitive.
package config
