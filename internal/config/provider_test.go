// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"testing"

	"github.com/modctl/modctl/pkg/types"
)

func TestLoadOptions_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		opts    LoadOptions
		wantErr bool
		nErrs   int
	}{
		{"all empty", LoadOptions{}, false, 0},
		{"all set", LoadOptions{ConfigFilePath: "/tmp/config.cue", ConfigDirPath: "/tmp/config", WorkDir: "/tmp/work"}, false, 0},
		{"relative paths", LoadOptions{ConfigFilePath: "config.toml", WorkDir: "."}, false, 0},
		{"whitespace file path", LoadOptions{ConfigFilePath: "   "}, true, 1},
		{"whitespace dir path", LoadOptions{ConfigDirPath: "\t"}, true, 1},
		{"whitespace work dir", LoadOptions{WorkDir: " \n"}, true, 1},
		{"every field invalid", LoadOptions{ConfigFilePath: " ", ConfigDirPath: " ", WorkDir: " "}, true, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.opts.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr {
				return
			}
			if !errors.Is(err, ErrInvalidLoadOptions) {
				t.Errorf("error should wrap ErrInvalidLoadOptions, got: %v", err)
			}
			var optsErr *InvalidLoadOptionsError
			if !errors.As(err, &optsErr) {
				t.Fatalf("error should be *InvalidLoadOptionsError, got %T", err)
			}
			if len(optsErr.FieldErrors) != tt.nErrs {
				t.Errorf("got %d field errors, want %d", len(optsErr.FieldErrors), tt.nErrs)
			}
			for _, fe := range optsErr.FieldErrors {
				if !errors.Is(fe, types.ErrInvalidFilesystemPath) {
					t.Errorf("field error %v should wrap ErrInvalidFilesystemPath", fe)
				}
			}
		})
	}
}

func TestNewProvider_ReturnsFileProvider(t *testing.T) {
	t.Parallel()

	if _, ok := NewProvider().(*fileProvider); !ok {
		t.Errorf("NewProvider() returned %T, want *fileProvider", NewProvider())
	}
}
