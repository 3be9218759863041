// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"path/filepath"
	"runtime"
	"testing"
)

// SetConfigHome points the platform's user configuration directory at dir for
// the rest of the test and returns the directory fgmod will use inside it.
// It uses t.Setenv, so the calling test must not be parallel.
//
// Platform handling:
//   - Windows: sets APPDATA
//   - macOS: sets HOME (config lives in ~/Library/Application Support)
//   - others: sets XDG_CONFIG_HOME
func SetConfigHome(t *testing.T, dir string) string {
	t.Helper()

	switch runtime.GOOS {
	case "windows":
		t.Setenv("APPDATA", dir)
		return filepath.Join(dir, "fgmod")
	case "darwin":
		t.Setenv("HOME", dir)
		return filepath.Join(dir, "Library", "Application Support", "fgmod")
	default:
		t.Setenv("XDG_CONFIG_HOME", dir)
		return filepath.Join(dir, "fgmod")
	}
}
