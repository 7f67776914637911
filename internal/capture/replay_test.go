// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package capture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grimm.is/airlock/internal/airlock"
)

func minimalTCPFrame() []byte {
	// dst MAC, src MAC, EtherType 0x0800 (IPv4), then a 20-byte IPv4 header
	// (IHL=5, total length 40, TTL 64, proto TCP) followed by a 20-byte TCP
	// header with only the ACK flag set, zero-padded to the Ethernet minimum.
	f := make([]byte, 64)
	copy(f[0:6], []byte{0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff})
	copy(f[6:12], []byte{0x11, 0x22, 0x33, 0x44, 0x55, 0x66})
	f[12], f[13] = 0x08, 0x00
	f[14] = 0x45 // version 4, IHL 5
	f[16], f[17] = 0x00, 0x28
	f[22] = 64 // ttl
	f[23] = 6  // tcp
	copy(f[26:30], []byte{10, 0, 0, 1})
	copy(f[30:34], []byte{10, 0, 0, 2})
	f[46] = 0x50 // data offset 5
	f[47] = 0x10 // ACK
	return f
}

// newPrimedReplayer feeds one throwaway frame first: the machine's
// power-on flush_state discards the entire first frame as the
// synchronization boundary (spec.md §4.9), so every other test primes past
// it before asserting on a frame of interest.
func newPrimedReplayer(t *testing.T) *Replayer {
	t.Helper()
	engine := airlock.New(airlock.DefaultConfig())
	r := NewReplayer(engine, false, true)
	r.SetHeartbeat(true)
	primed := r.FeedFrame(minimalTCPFrame())
	require.Empty(t, primed.TxBytes, "boot flush should discard the priming frame entirely")
	return r
}

func TestFeedFrameForwardsCleanTraffic(t *testing.T) {
	r := newPrimedReplayer(t)

	frame := r.FeedFrame(minimalTCPFrame())
	require.NotEmpty(t, frame.TxBytes)
	assert.False(t, frame.AnyViolation)
	assert.False(t, r.engine.Snapshot().Locked)
}

func TestFeedFrameFlagsLowTTL(t *testing.T) {
	r := newPrimedReplayer(t)

	data := minimalTCPFrame()
	data[22] = 5 // below the 60 floor
	frame := r.FeedFrame(data)
	assert.True(t, frame.AnyViolation)
}
