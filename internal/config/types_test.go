// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"testing"
)

func TestConfig_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "bad level", mutate: func(c *Config) { c.Log.Level = "loud" }, wantErr: ErrInvalidLogLevel},
		{name: "bad format", mutate: func(c *Config) { c.Log.Format = "xml" }, wantErr: ErrInvalidLogFormat},
		{name: "bad compression", mutate: func(c *Config) { c.Build.Compression = "lz4" }, wantErr: ErrInvalidCompression},
		{name: "zero workers", mutate: func(c *Config) { c.Build.Workers = 0 }, wantErr: ErrInvalidWorkers},
		{name: "too many workers", mutate: func(c *Config) { c.Build.Workers = MaxWorkers + 1 }, wantErr: ErrInvalidWorkers},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.mutate(cfg)
			ok, errs := cfg.IsValid()
			if tt.wantErr == nil {
				if !ok {
					t.Fatalf("IsValid() = false, %v", errs)
				}
				return
			}
			if ok || len(errs) != 1 {
				t.Fatalf("IsValid() = %v, %v; want one error", ok, errs)
			}
			if !errors.Is(errs[0], ErrInvalidConfig) || !errors.Is(errs[0], tt.wantErr) {
				t.Errorf("error %v should wrap ErrInvalidConfig and %v", errs[0], tt.wantErr)
			}
			var valErr *InvalidValueError
			if !errors.As(errs[0], &valErr) {
				t.Errorf("error should contain *InvalidValueError, got %T", errs[0])
			}
		})
	}
}
