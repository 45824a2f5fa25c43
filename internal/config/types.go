// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/modctl/modctl/pkg/serverconfig"
	"github.com/modctl/modctl/pkg/steamcmd"
	"github.com/modctl/modctl/pkg/types"
)

const (
	// LogLevelDebug logs every steamcmd output line and retry decision.
	LogLevelDebug LogLevel = "debug"
	// LogLevelInfo logs run summaries.
	LogLevelInfo LogLevel = "info"
	// LogLevelWarn logs partial failures and retries only.
	LogLevelWarn LogLevel = "warn"
	// LogLevelError logs failures only.
	LogLevelError LogLevel = "error"

	// DefaultUser is the Steam account used when none is configured.
	DefaultUser = "anonymous"
	// DefaultRetryBackoff is the base wait between steamcmd attempts.
	DefaultRetryBackoff = 5 * time.Second
	// MaxRetries bounds steamcmd.retries.
	MaxRetries = 20
)

var (
	// ErrInvalidLogLevel is returned when a LogLevel value is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidBinaryFilePath is returned when a BinaryFilePath value is whitespace-only.
	ErrInvalidBinaryFilePath = errors.New("invalid binary file path")
	// ErrInvalidSteamCmdConfig is the sentinel error wrapped by InvalidSteamCmdConfigError.
	ErrInvalidSteamCmdConfig = errors.New("invalid steamcmd config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// LogLevel is the minimum level of log records written to stderr.
	LogLevel string

	// InvalidLogLevelError is returned when a LogLevel value is not recognized.
	InvalidLogLevelError struct {
		Value LogLevel
	}

	// BinaryFilePath is a path to the steamcmd executable. The zero value
	// means "resolve from STEAMCMD or PATH".
	BinaryFilePath string

	// InvalidBinaryFilePathError is returned when a BinaryFilePath value is
	// non-empty but whitespace-only.
	InvalidBinaryFilePathError struct {
		Value BinaryFilePath
	}

	// InvalidSteamCmdConfigError collects field-level errors of a SteamCmdConfig.
	InvalidSteamCmdConfigError struct {
		FieldErrors []error
	}

	// InvalidConfigError collects field-level errors of a Config.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// SteamCmd configures how steamcmd is located and driven.
		SteamCmd SteamCmdConfig `json:"steamcmd" mapstructure:"steamcmd"`
		// Game names the dedicated server app and the app owning its workshop items.
		Game GameConfig `json:"game" mapstructure:"game"`
		// Log configures diagnostic output.
		Log LogConfig `json:"log" mapstructure:"log"`

		// Servers is decoded outside Viper so names keep their case.
		Servers serverconfig.Config `json:"-" mapstructure:"-"`
		// SourcePath is the file the configuration was read from, empty when
		// only defaults and environment were used.
		SourcePath string `json:"-" mapstructure:"-"`
	}

	// SteamCmdConfig configures the steamcmd executable and session.
	SteamCmdConfig struct {
		// BinaryPath overrides PATH lookup. STEAMCMD still takes precedence.
		BinaryPath BinaryFilePath `json:"binary_path" mapstructure:"binary_path"`
		// InstallDir is passed to +force_install_dir when set.
		InstallDir types.FilesystemPath `json:"install_dir" mapstructure:"install_dir"`
		// User is passed to +login.
		User string `json:"user" mapstructure:"user"`
		// Retries is the number of extra attempts after a failed run.
		Retries int `json:"retries" mapstructure:"retries"`
		// RetryBackoff is the wait before the first retry; it doubles after each.
		RetryBackoff time.Duration `json:"retry_backoff" mapstructure:"retry_backoff"`
	}

	// GameConfig names the apps a server install touches.
	GameConfig struct {
		// App is the dedicated server app id; zero skips +app_update.
		App steamcmd.App `json:"app" mapstructure:"app"`
		// WorkshopApp owns the workshop items; zero means App.
		WorkshopApp steamcmd.App `json:"workshop_app" mapstructure:"workshop_app"`
		// Validate appends "validate" to the app update.
		Validate bool `json:"validate" mapstructure:"validate"`
	}

	// LogConfig configures diagnostic output.
	LogConfig struct {
		Level LogLevel `json:"level" mapstructure:"level"`
	}
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		SteamCmd: SteamCmdConfig{
			User:         DefaultUser,
			Retries:      0,
			RetryBackoff: DefaultRetryBackoff,
		},
		Game: GameConfig{
			Validate: true,
		},
		Log: LogConfig{
			Level: LogLevelInfo,
		},
		Servers: serverconfig.New(nil),
	}
}

// EffectiveWorkshopApp returns WorkshopApp, or App when WorkshopApp is unset.
func (g GameConfig) EffectiveWorkshopApp() steamcmd.App {
	if g.WorkshopApp != 0 {
		return g.WorkshopApp
	}
	return g.App
}

// IsValid returns whether the Config has valid fields.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.SteamCmd.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Log.Level.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %s", joinErrors(e.FieldErrors))
}

// Unwrap returns ErrInvalidConfig followed by the field errors.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// IsValid returns whether the SteamCmdConfig has valid fields.
func (c SteamCmdConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.BinaryPath.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if !c.InstallDir.IsZero() {
		if err := c.InstallDir.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if strings.TrimSpace(c.User) == "" {
		errs = append(errs, errors.New("user must be non-empty"))
	}
	if c.Retries < 0 || c.Retries > MaxRetries {
		errs = append(errs, fmt.Errorf("retries %d out of range [0, %d]", c.Retries, MaxRetries))
	}
	if c.RetryBackoff < 0 {
		errs = append(errs, fmt.Errorf("retry_backoff %s must not be negative", c.RetryBackoff))
	}
	if len(errs) > 0 {
		return false, []error{&InvalidSteamCmdConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidSteamCmdConfigError.
func (e *InvalidSteamCmdConfigError) Error() string {
	return fmt.Sprintf("invalid steamcmd config: %s", joinErrors(e.FieldErrors))
}

// Unwrap returns ErrInvalidSteamCmdConfig followed by the field errors.
func (e *InvalidSteamCmdConfigError) Unwrap() []error {
	return append([]error{ErrInvalidSteamCmdConfig}, e.FieldErrors...)
}

// String returns the string representation of the BinaryFilePath.
func (p BinaryFilePath) String() string { return string(p) }

// IsValid returns whether the BinaryFilePath is valid.
// The zero value is valid; non-zero values must not be whitespace-only.
func (p BinaryFilePath) IsValid() (bool, []error) {
	if p == "" {
		return true, nil
	}
	if strings.TrimSpace(string(p)) == "" {
		return false, []error{&InvalidBinaryFilePathError{Value: p}}
	}
	return true, nil
}

// Error implements the error interface for InvalidBinaryFilePathError.
func (e *InvalidBinaryFilePathError) Error() string {
	return fmt.Sprintf("invalid binary file path %q: non-empty value must not be whitespace-only", e.Value)
}

// Unwrap returns ErrInvalidBinaryFilePath for errors.Is() compatibility.
func (e *InvalidBinaryFilePathError) Unwrap() error { return ErrInvalidBinaryFilePath }

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string { return string(l) }

// IsValid returns whether the LogLevel is one of the defined levels.
func (l LogLevel) IsValid() (bool, []error) {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return true, nil
	default:
		return false, []error{&InvalidLogLevelError{Value: l}}
	}
}

// Error implements the error interface for InvalidLogLevelError.
func (e *InvalidLogLevelError) Error() string {
	return fmt.Sprintf("invalid log level %q (valid: debug, info, warn, error)", e.Value)
}

// Unwrap returns ErrInvalidLogLevel for errors.Is() compatibility.
func (e *InvalidLogLevelError) Unwrap() error { return ErrInvalidLogLevel }

func joinErrors(errs []error) string {
	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}
