// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package airlock implements the SecurityAirlock streaming packet guard: a
// stateless, fail-closed predicate over a byte-at-a-time Ethernet frame
// stream. One Step call advances the machine by exactly one cycle, mirroring
// the synchronous hardware logic it was distilled from.
package airlock

import "github.com/google/uuid"

// Saturation ceilings for the counters the spec requires to saturate rather
// than wrap. Wrap-around on byte_ptr or plaintext_cnt would let a
// pathologically large frame's payload be reinterpreted as header bytes.
const (
	maxByteIndex   = 0x1FFFF // u17
	maxPlaintext   = 255     // u8
	maxArpBucket   = 0xFFFF  // u16
	maxVolumeCount = 1<<27 - 1
)

// Config holds every construction-time tunable named in spec.md §6.
type Config struct {
	// HeartbeatTimeout is the number of cycles without a heartbeat edge
	// before violation_heartbeat latches.
	HeartbeatTimeout uint32
	// VolumeLimit is the byte count at which violation_volume fires.
	VolumeLimit uint32
	// ArpLeakInterval is the cycle count between leaky-bucket decrements.
	ArpLeakInterval uint16
	// ArpBurstLimit is the bucket level at which violation_arp_rate fires.
	ArpBurstLimit uint16
	// PlaintextThreshold is the saturating plaintext_cnt level at which
	// violation_plaintext fires.
	PlaintextThreshold uint8
}

// DefaultConfig returns the spec.md §6 default parameters.
func DefaultConfig() Config {
	return Config{
		HeartbeatTimeout:   25_000_000,
		VolumeLimit:        99_614_720,
		ArpLeakInterval:    10_000,
		ArpBurstLimit:      4_000,
		PlaintextThreshold: 127,
	}
}

// ParserState is reset at every end-of-frame and while flushing (spec.md §3).
type ParserState struct {
	bytePtr         uint32
	isIP            bool
	isArp           bool
	ipHdrLen        uint8
	ipLen           uint16
	ttl             uint8
	ipProto         uint8
	srcIP           uint32
	dstIP           uint32
	udpLenHigh      uint16
	tcpFlagsHighBit uint8
	arpOpcodeHigh   uint8
	plaintextCnt    uint8
}

func newParserState() ParserState {
	return ParserState{ipHdrLen: 5}
}

// reset clears per-frame parser state, as performed at end-of-frame (spec.md §4.5).
func (p *ParserState) reset() {
	*p = newParserState()
}

// ViolationKind names one of the 17 latched violation classes (spec.md §7).
type ViolationKind int

const (
	ViolationVolume ViolationKind = iota
	ViolationTTL
	ViolationWgSize // IPv4 frame size: min-size, trailing-garbage, truncation and runt rules ("wg_size", §7)
	ViolationPlaintext
	ViolationHeartbeat
	ViolationEtherType
	ViolationArpRate
	ViolationIPProto
	ViolationArpSize
	ViolationFrag
	ViolationIPOptions
	ViolationArpOpcode
	ViolationLand
	ViolationLoopback
	ViolationTCPFlags
	ViolationTCPOptions
	ViolationUDPLen
	numViolationKinds
)

func (k ViolationKind) String() string {
	switch k {
	case ViolationVolume:
		return "volume"
	case ViolationTTL:
		return "ttl"
	case ViolationWgSize:
		return "wg_size"
	case ViolationPlaintext:
		return "plaintext"
	case ViolationHeartbeat:
		return "heartbeat"
	case ViolationEtherType:
		return "ethertype"
	case ViolationArpRate:
		return "arp_rate"
	case ViolationIPProto:
		return "ip_proto"
	case ViolationArpSize:
		return "arp_size"
	case ViolationFrag:
		return "frag"
	case ViolationIPOptions:
		return "ip_options"
	case ViolationArpOpcode:
		return "arp_opcode"
	case ViolationLand:
		return "land"
	case ViolationLoopback:
		return "loopback"
	case ViolationTCPFlags:
		return "tcp_flags"
	case ViolationTCPOptions:
		return "tcp_options"
	case ViolationUDPLen:
		return "udp_len"
	default:
		return "unknown"
	}
}

// lifecycleScoped reports whether a latch clears only on rst_lock rather
// than at every end-of-frame (spec.md §4.5, §7: volume and heartbeat).
func (k ViolationKind) lifecycleScoped() bool {
	return k == ViolationVolume || k == ViolationHeartbeat
}

// GuardState is sticky across frames until a manual reset (spec.md §3).
type GuardState struct {
	locked      bool
	dropCurrent bool
	flushState  bool
	latches     [numViolationKinds]bool
}

// Counters holds the free-running and leaky-bucket counters (spec.md §3).
type Counters struct {
	volumeCnt     uint32
	arpBucket     uint16
	arpLeakTimer  uint16
	watchdogTimer uint32
	lastHeartbeat bool
}

// Inputs is the full set of per-cycle inputs sampled by Step (spec.md §6).
type Inputs struct {
	RxData      byte
	RxValid     bool
	RxLast      bool
	TxReady     bool
	HeartbeatIn bool
	RstLock     bool
	EgressMode  bool
	Ingress     bool // informational only; see DESIGN.md Open Question 1
}

// Outputs is the full set of per-cycle outputs produced by Step (spec.md §6).
type Outputs struct {
	RxReady bool

	TxData  byte
	TxValid bool
	TxLast  bool

	StatusLED bool
	Violation ViolationPulse
}

// ViolationPulse reports the combinatorial violation state for the cycle
// just stepped, for telemetry callers (spec.md §7: "available for external
// telemetry but do not themselves gate the egress stream").
type ViolationPulse struct {
	Now     bool
	Kind    ViolationKind
	HasKind bool
	Latched [numViolationKinds]bool
}

// Status is a read-only diagnostic snapshot (SPEC_FULL.md §4.1).
type Status struct {
	Locked      bool
	DropCurrent bool
	FlushState  bool
	Latches     map[string]bool
	VolumeCount uint32
	ArpBucket   uint16
}

// SecurityAirlock is the stateful wrapper around the pure Step function: it
// owns the Config and identity, and re-applies Step to its own State on
// every Advance call so callers don't have to thread state by hand.
type SecurityAirlock struct {
	InstanceID uuid.UUID

	cfg    Config
	state  State
}

// State bundles every piece of mutable state the stepper touches. It is
// exported so tests and embedders can construct a Step call directly,
// without going through the SecurityAirlock convenience wrapper.
type State struct {
	Parser   ParserState
	Guard    GuardState
	Counters Counters
}

// NewState returns a freshly power-on-reset State (spec.md §3: "all state is
// created at power-on").
func NewState(cfg Config) State {
	return State{
		Parser: newParserState(),
		Counters: Counters{
			watchdogTimer: cfg.HeartbeatTimeout,
		},
		Guard: GuardState{
			flushState: true, // ResyncController arms flush on power-on (§4.9)
		},
	}
}

// New constructs a SecurityAirlock instance with the given configuration.
func New(cfg Config) *SecurityAirlock {
	return &SecurityAirlock{
		InstanceID: uuid.New(),
		cfg:        cfg,
		state:      NewState(cfg),
	}
}

// Advance steps the machine by one cycle, mutating its own state.
func (a *SecurityAirlock) Advance(in Inputs) Outputs {
	out := Step(&a.state, a.cfg, in)
	return out
}

// Snapshot returns a read-only view of the current state for telemetry.
func (a *SecurityAirlock) Snapshot() Status {
	return snapshot(&a.state)
}

func snapshot(s *State) Status {
	latches := make(map[string]bool, numViolationKinds)
	for k := ViolationKind(0); k < numViolationKinds; k++ {
		latches[k.String()] = s.Guard.latches[k]
	}
	return Status{
		Locked:      s.Guard.locked,
		DropCurrent: s.Guard.dropCurrent,
		FlushState:  s.Guard.flushState,
		Latches:     latches,
		VolumeCount: s.Counters.volumeCnt,
		ArpBucket:   s.Counters.arpBucket,
	}
}
