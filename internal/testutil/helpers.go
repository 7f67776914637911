// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package testutil

import (
	"os"
	"testing"
)

// RequireRawSocket skips the test if the AIRLOCK_NIC_TEST environment
// variable is not set. This ensures that tests requiring real AF_PACKET
// sockets and a pair of live interfaces are only run in an environment that
// actually has them.
func RequireRawSocket(t *testing.T) {
	t.Helper()
	if os.Getenv("AIRLOCK_NIC_TEST") == "" {
		t.Skip("Skipping test: requires AIRLOCK_NIC_TEST environment")
	}
}

// RequireRoot skips the test if not running as root, for raw-socket paths
// that need CAP_NET_RAW even with AIRLOCK_NIC_TEST set.
func RequireRoot(t *testing.T) {
	t.Helper()
	if os.Geteuid() != 0 {
		t.Skip("Skipping test: requires root")
	}
}
