// SPDX-License-Identifier: MPL-2.0

package types

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"testing"
)

func TestExitCodeValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		value     ExitCode
		wantValid bool
	}{
		{name: "zero is valid", value: 0, wantValid: true},
		{name: "one is valid", value: 1, wantValid: true},
		{name: "125 is valid", value: 125, wantValid: true},
		{name: "126 is valid", value: 126, wantValid: true},
		{name: "255 is valid", value: 255, wantValid: true},
		{name: "negative is invalid", value: -1, wantValid: false},
		{name: "256 is invalid", value: 256, wantValid: false},
		{name: "large positive is invalid", value: 1000, wantValid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.value.Validate()
			if (err == nil) != tt.wantValid {
				t.Errorf("ExitCode(%d).Validate() error = %v, wantValid %v", tt.value, err, tt.wantValid)
			}
			if tt.wantValid {
				if err != nil {
					t.Errorf("ExitCode(%d).Validate() returned error for valid value: %v", tt.value, err)
				}
			} else {
				if err == nil {
					t.Error("ExitCode.Validate() returned nil for invalid value")
				}
				if !errors.Is(err, ErrInvalidExitCode) {
					t.Errorf("error does not wrap ErrInvalidExitCode: %v", err)
				}
			}
		})
	}
}

func TestExitCodeIsSuccess(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code ExitCode
		want bool
	}{
		{0, true},
		{1, false},
		{125, false},
		{255, false},
	}

	for _, tt := range tests {
		if got := tt.code.IsSuccess(); got != tt.want {
			t.Errorf("ExitCode(%d).IsSuccess() = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestExitCodeString(t *testing.T) {
	t.Parallel()

	if got := ExitCode(42).String(); got != "42" {
		t.Errorf("ExitCode(42).String() = %q, want %q", got, "42")
	}
}

func TestExitCodeOf(t *testing.T) {
	t.Parallel()

	t.Run("nil error", func(t *testing.T) {
		t.Parallel()
		if _, ok := ExitCodeOf(nil); ok {
			t.Error("ExitCodeOf(nil) reported an exit code")
		}
	})

	t.Run("non-exit error", func(t *testing.T) {
		t.Parallel()
		if _, ok := ExitCodeOf(fmt.Errorf("wrapped: %w", context.Canceled)); ok {
			t.Error("ExitCodeOf(context.Canceled) reported an exit code")
		}
	})

	t.Run("process exit", func(t *testing.T) {
		t.Parallel()
		if runtime.GOOS == "windows" {
			t.Skip("skipping: relies on POSIX sh")
		}
		err := exec.CommandContext(context.Background(), "sh", "-c", "exit 7").Run()
		code, ok := ExitCodeOf(fmt.Errorf("run: %w", err))
		if !ok {
			t.Fatalf("ExitCodeOf(%v) did not report an exit code", err)
		}
		if code != 7 {
			t.Errorf("ExitCodeOf() = %d, want 7", code)
		}
	})
}
