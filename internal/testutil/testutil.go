// SPDX-License-Identifier: MPL-2.0

// Package testutil provides small helpers shared by tests that need to
// manipulate process-wide state such as environment variables.
package testutil

import (
	"runtime"
	"testing"
)

// MustSetenv sets the environment variable key to value via t.Setenv and
// returns the previous behavior of failing fast on tests that cannot use
// t.Setenv directly (parallel callers must not use this helper).
func MustSetenv(t testing.TB, key, value string) {
	t.Helper()

	tt, ok := t.(*testing.T)
	if !ok {
		t.Fatalf("MustSetenv requires a *testing.T, got %T", t)
	}
	tt.Setenv(key, value)
}

// SetHomeDir points the platform home directory variable at dir for the
// duration of the test. Windows consults USERPROFILE, everything else HOME.
func SetHomeDir(t testing.TB, dir string) {
	t.Helper()

	switch runtime.GOOS {
	case "windows":
		MustSetenv(t, "USERPROFILE", dir)
	default:
		MustSetenv(t, "HOME", dir)
	}
}
