// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package airlock

// lockDecision implements LockDecision (spec.md §4.7): given the registered
// state at the start of the cycle plus this cycle's combinatorial violation
// pulse, decide the next locked/dropCurrent state. Priority, highest first:
// rst_lock, heartbeat violation (mode-independent), then any_violation
// gated by egress_mode. A runt frame additionally forces LOCK in ingress
// mode outside the normal predicate path.
func lockDecision(prevLocked, prevDropCurrent bool, anyViolation, heartbeatViolation, runt bool, in Inputs) (nextLocked, nextDropCurrent bool) {
	if in.RstLock {
		return false, false
	}

	nextLocked = prevLocked
	nextDropCurrent = prevDropCurrent

	if heartbeatViolation {
		nextLocked = true
	}

	if anyViolation {
		if !in.EgressMode {
			nextLocked = true
		} else if !in.RxLast {
			nextDropCurrent = true
		}
	}

	if runt && !in.EgressMode {
		nextLocked = true
	}

	if in.RxLast {
		// drop_current is frame-scoped: the frame ends this cycle, so no
		// persistent drop action is armed for it and the flag clears for
		// the frame that follows, regardless of any_violation this cycle.
		nextDropCurrent = false
	}

	return nextLocked, nextDropCurrent
}

// mergeLatches folds this cycle's per-rule violation pulse, the heartbeat
// and volume/arp-rate overflow flags, into the next registered latch set.
// Per-frame latches clear at end-of-frame (frameReset); the two
// lifecycle-scoped latches (volume, heartbeat) only clear on rst_lock.
func mergeLatches(prev [numViolationKinds]bool, pulse [numViolationKinds]bool, heartbeatViolation bool, frameReset, rstLock bool) [numViolationKinds]bool {
	var next [numViolationKinds]bool
	for k := ViolationKind(0); k < numViolationKinds; k++ {
		if rstLock {
			continue // stays false; on rst_lock the caller also replaces the whole GuardState
		}
		v := prev[k] || pulse[k]
		if k == ViolationHeartbeat {
			v = v || heartbeatViolation
		}
		if frameReset && !k.lifecycleScoped() {
			v = pulse[k]
		}
		next[k] = v
	}
	return next
}
