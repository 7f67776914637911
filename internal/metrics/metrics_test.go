// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grimm.is/airlock/internal/airlock"
)

func TestObserveUpdatesGauges(t *testing.T) {
	r := NewRegistry()
	r.Observe(airlock.Status{Locked: true, VolumeCount: 512, ArpBucket: 7})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	r.Handler().ServeHTTP(rec, req)

	body := rec.Body.String()
	assert.Contains(t, body, "airlock_locked 1")
	assert.Contains(t, body, "airlock_volume_bytes 512")
	assert.Contains(t, body, "airlock_arp_bucket_level 7")
}

func TestRecordViolationAndFrame(t *testing.T) {
	r := NewRegistry()
	r.RecordViolation("ttl")
	r.RecordViolation("ttl")
	r.RecordFrame("eth0", true)
	r.RecordFrame("eth0", false)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	r.Handler().ServeHTTP(rec, req)

	body := rec.Body.String()
	require.True(t, strings.Contains(body, `airlock_violations_total{kind="ttl"} 2`))
	assert.Contains(t, body, `airlock_frames_forwarded_total{interface="eth0"} 1`)
	assert.Contains(t, body, `airlock_frames_dropped_total{interface="eth0"} 1`)
}
