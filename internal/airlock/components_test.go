// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package airlock

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStepHeartbeatReloadsOnEdge(t *testing.T) {
	c := &Counters{watchdogTimer: 3}
	cfg := Config{HeartbeatTimeout: 10}

	assert.False(t, stepHeartbeat(c, cfg, false)) // first sample, no edge vs zero-value false
	assert.Equal(t, uint32(2), c.watchdogTimer)

	assert.False(t, stepHeartbeat(c, cfg, true)) // edge: reload
	assert.Equal(t, uint32(10), c.watchdogTimer)
}

func TestStepHeartbeatTimesOutAtZero(t *testing.T) {
	c := &Counters{watchdogTimer: 1, lastHeartbeat: true}
	cfg := Config{HeartbeatTimeout: 10}
	assert.True(t, stepHeartbeat(c, cfg, true))
	assert.Equal(t, uint32(0), c.watchdogTimer)
}

func TestStepArpBucketCountsARPBytes(t *testing.T) {
	c := &Counters{}
	cfg := Config{ArpLeakInterval: 1000}
	for i := 0; i < 10; i++ {
		stepArpBucket(c, cfg, true, true, false)
	}
	assert.Equal(t, uint16(10), c.arpBucket)
}

func TestStepArpBucketIgnoresNonARPAndFlush(t *testing.T) {
	c := &Counters{}
	cfg := Config{ArpLeakInterval: 1000}
	stepArpBucket(c, cfg, true, false, false)
	assert.Equal(t, uint16(0), c.arpBucket)
	stepArpBucket(c, cfg, true, true, true)
	assert.Equal(t, uint16(0), c.arpBucket)
}

func TestStepArpBucketLeaks(t *testing.T) {
	c := &Counters{arpBucket: 5}
	cfg := Config{ArpLeakInterval: 2}
	stepArpBucket(c, cfg, false, false, false) // timer 0->1
	assert.Equal(t, uint16(5), c.arpBucket)
	stepArpBucket(c, cfg, false, false, false) // timer reaches interval-1, leaks
	assert.Equal(t, uint16(4), c.arpBucket)
}

func TestStepVolumeSaturatesAndRespectsLock(t *testing.T) {
	c := &Counters{volumeCnt: maxVolumeCount - 1}
	stepVolume(c, true, false)
	assert.Equal(t, uint32(maxVolumeCount), c.volumeCnt)
	stepVolume(c, true, false)
	assert.Equal(t, uint32(maxVolumeCount), c.volumeCnt) // saturates

	c2 := &Counters{}
	stepVolume(c2, true, true) // locked: no increment
	assert.Equal(t, uint32(0), c2.volumeCnt)
}

func TestStepResyncTransitions(t *testing.T) {
	r := stepResync(true, false, Inputs{RxValid: false})
	assert.False(t, r.nextFlush)
	assert.False(t, r.frameReset)

	r = stepResync(true, true, Inputs{RxValid: true, RxLast: true})
	assert.False(t, r.nextFlush)
	assert.True(t, r.frameReset)

	r = stepResync(true, true, Inputs{RxValid: true, RxLast: false})
	assert.True(t, r.nextFlush)
	assert.False(t, r.frameReset)

	r = stepResync(false, true, Inputs{RxValid: true, RxLast: true})
	assert.False(t, r.nextFlush)
	assert.True(t, r.frameReset)
}

func TestLockDecisionRstLockClearsEverything(t *testing.T) {
	locked, drop := lockDecision(true, true, true, true, true, Inputs{RstLock: true})
	assert.False(t, locked)
	assert.False(t, drop)
}

func TestLockDecisionIngressModeLocksOnAnyViolation(t *testing.T) {
	locked, _ := lockDecision(false, false, true, false, false, Inputs{EgressMode: false})
	assert.True(t, locked)
}

func TestLockDecisionEgressModeDropsNotLocks(t *testing.T) {
	locked, drop := lockDecision(false, false, true, false, false, Inputs{EgressMode: true, RxLast: false})
	assert.False(t, locked)
	assert.True(t, drop)
}

func TestLockDecisionDropClearsAtRxLast(t *testing.T) {
	_, drop := lockDecision(false, true, false, false, false, Inputs{RxLast: true})
	assert.False(t, drop, "drop_current must clear at rx_last regardless of this cycle's violation")
}

func TestLockDecisionRuntForcesLockInIngressModeOnly(t *testing.T) {
	locked, _ := lockDecision(false, false, false, false, true, Inputs{EgressMode: false})
	assert.True(t, locked)

	locked, _ = lockDecision(false, false, false, false, true, Inputs{EgressMode: true})
	assert.False(t, locked)
}

func TestEgressGateForceTerminateZeroesData(t *testing.T) {
	out := egressGate(false, true, false, false, false, false, Inputs{RxData: 0xAB, RxLast: true, TxReady: true})
	assert.True(t, out.ForceTerminate)
	assert.Equal(t, byte(0x00), out.TxData)
	assert.True(t, out.TxValid)
}

func TestEgressGateLockedNeverForwards(t *testing.T) {
	out := egressGate(true, false, false, false, false, false, Inputs{RxData: 0xAB, RxValid: true, TxReady: true})
	assert.False(t, out.TxValid)
}

func TestAdvanceParserCapturesEtherTypeAndIPFields(t *testing.T) {
	p := newParserState()
	p.bytePtr = 12
	advanceParser(&p, Inputs{RxData: 0x08})
	assert.True(t, p.isIP)

	advanceParser(&p, Inputs{RxData: 0x00})
	assert.True(t, p.isIP)
	assert.False(t, p.isArp)

	for p.bytePtr < 22 {
		advanceParser(&p, Inputs{RxData: 0x45})
	}
	advanceParser(&p, Inputs{RxData: 64})
	assert.Equal(t, uint8(64), p.ttl)
}

func TestAdvanceParserPlaintextCounterSaturates(t *testing.T) {
	p := newParserState()
	p.bytePtr = 34
	for i := 0; i < 300; i++ {
		advanceParser(&p, Inputs{RxData: 'A'})
	}
	assert.Equal(t, uint8(maxPlaintext), p.plaintextCnt)
}

func TestEvaluateRulesSuppressedWithoutRxValid(t *testing.T) {
	p := newParserState()
	fired, any := evaluateRules(&p, Counters{}, DefaultConfig(), Inputs{RxValid: false})
	assert.False(t, any)
	for _, f := range fired {
		assert.False(t, f)
	}
}
