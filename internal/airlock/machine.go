// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package airlock

// Step advances the SecurityAirlock state machine by exactly one cycle. It
// is a pure function of (*State, Config, Inputs): every combinatorial
// output is computed from the registered state as it stood at the start of
// the call, and every register update performed during the call becomes
// visible starting with the next call — the same discipline the hardware
// description uses, reformulated as a synchronous software stepper
// (spec.md §9).
func Step(s *State, cfg Config, in Inputs) Outputs {
	prevLocked := s.Guard.locked
	prevDropCurrent := s.Guard.dropCurrent
	prevFlush := s.Guard.flushState
	prevLatches := s.Guard.latches
	p := s.Parser // snapshot for combinatorial evaluation this cycle

	// 1. PolicyPredicates: combinatorial per-byte violation pulse, evaluated
	// against the registered parser state and this cycle's ingress byte.
	// While flushing, byte_ptr and every other parser field are frozen (the
	// data is a discarded partial frame), so no rule but the lifecycle-scoped
	// volume/heartbeat ones may latch (spec.md §4.9, P8).
	pulse, violationNow := evaluateRules(&p, s.Counters, cfg, in)
	if prevFlush {
		pulse = [numViolationKinds]bool{}
		violationNow = false
	}

	trafficViolation := false
	for k := ViolationKind(0); k < numViolationKinds; k++ {
		if k == ViolationHeartbeat {
			continue
		}
		if prevLatches[k] {
			trafficViolation = true
		}
	}
	heartbeatLatched := prevLatches[ViolationHeartbeat]

	// 2. EgressGate: derive tx_*/rx_ready from registered state + this
	// cycle's violation pulse.
	gate := egressGate(prevLocked, prevDropCurrent, prevFlush, trafficViolation, heartbeatLatched, violationNow, in)
	fire := in.RxValid && gate.RxReady

	// 3. HeartbeatWatchdog runs every cycle regardless of the data path.
	heartbeatTimedOut := stepHeartbeat(&s.Counters, cfg, in.HeartbeatIn)

	// 4. ResyncController decides flush transitions for next cycle.
	resync := stepResync(prevFlush, fire, in)

	// 5. ArpLeakyBucket and VolumeCounter update on the fired byte.
	stepArpBucket(&s.Counters, cfg, fire, p.isArp, prevFlush)
	stepVolume(&s.Counters, fire, prevLocked)
	arpOverflow := s.Counters.arpBucket >= cfg.ArpBurstLimit
	volumeOverflow := s.Counters.volumeCnt >= cfg.VolumeLimit

	// 6. PacketParser: field captures + byte_ptr advance, only for a byte
	// that fired, outside flush, and not the frame's final byte (the final
	// byte's capture would be overwritten by the frame reset below anyway).
	if fire && !prevFlush && !in.RxLast {
		advanceParser(&p, in)
	}

	runt := !prevFlush && in.RxLast && p.bytePtr < 13

	// 7. LockDecision: fold this cycle's violations into next locked/drop state.
	nextLocked, nextDropCurrent := lockDecision(prevLocked, prevDropCurrent, violationNow || trafficViolation, heartbeatTimedOut || heartbeatLatched, runt, in)

	// 8. Latches: merge this cycle's pulse plus watchdog/volume/arp overflow
	// flags into the next registered latch set.
	pulse[ViolationVolume] = pulse[ViolationVolume] || volumeOverflow
	pulse[ViolationArpRate] = pulse[ViolationArpRate] || (p.isArp && arpOverflow)
	nextLatches := mergeLatches(prevLatches, pulse, heartbeatTimedOut, resync.frameReset, in.RstLock)

	// 9. Commit registered state for next cycle.
	if in.RstLock {
		s.Parser = newParserState()
		s.Counters.volumeCnt = 0
		s.Counters.arpBucket = 0
		s.Counters.watchdogTimer = cfg.HeartbeatTimeout
		s.Guard = GuardState{flushState: true}
	} else {
		if resync.frameReset {
			p.reset()
		}
		s.Parser = p
		s.Guard.locked = nextLocked
		s.Guard.dropCurrent = nextDropCurrent
		s.Guard.flushState = resync.nextFlush
		s.Guard.latches = nextLatches
	}

	firstKind, hasKind := firstViolation(pulse)
	return Outputs{
		RxReady:   gate.RxReady,
		TxData:    gate.TxData,
		TxValid:   gate.TxValid,
		TxLast:    gate.TxLast,
		StatusLED: !s.Guard.locked,
		Violation: ViolationPulse{
			Now:     violationNow,
			Kind:    firstKind,
			HasKind: hasKind,
			Latched: s.Guard.latches,
		},
	}
}

func firstViolation(pulse [numViolationKinds]bool) (ViolationKind, bool) {
	for k := ViolationKind(0); k < numViolationKinds; k++ {
		if pulse[k] {
			return k, true
		}
	}
	return 0, false
}
