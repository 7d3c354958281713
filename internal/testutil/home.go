// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"path/filepath"
	"runtime"
	"testing"
)

// SetHomeDir sets the appropriate HOME environment variable based on platform
// and returns a cleanup function to restore the original value.
//
// Platform handling:
//   - Windows: Sets USERPROFILE
//   - Linux/macOS: Sets HOME
func SetHomeDir(t testing.TB, dir string) func() {
	t.Helper()

	switch runtime.GOOS {
	case "windows":
		return MustSetenv(t, "USERPROFILE", dir)
	default:
		return MustSetenv(t, "HOME", dir)
	}
}

// SetConfigHome points the platform's user configuration root at dir and
// returns the directory an application named app would use under it, along
// with a cleanup function.
//
// On macOS the root cannot be overridden directly, so HOME is moved instead.
func SetConfigHome(t testing.TB, dir, app string) (string, func()) {
	t.Helper()

	switch runtime.GOOS {
	case "windows":
		return filepath.Join(dir, app), MustSetenv(t, "APPDATA", dir)
	case "darwin":
		return filepath.Join(dir, "Library", "Application Support", app), MustSetenv(t, "HOME", dir)
	default:
		return filepath.Join(dir, app), MustSetenv(t, "XDG_CONFIG_HOME", dir)
	}
}
