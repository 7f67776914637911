// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package airlock

// PolicyPredicates: the 16 rule classes of spec.md §4.6, expressed as a table
// of (active, allowed) closures evaluated combinatorially against the
// registered parser state from the *start* of the cycle plus the current
// ingress byte. This keeps a 1-to-1 mapping to the hardware description
// while remaining a plain data table to unit-test.
//
// active/allowed receive the pre-capture ParserState snapshot (p), the
// pre-update Counters (c), the Config, and this cycle's Inputs.
type rule struct {
	kind ViolationKind
	// lastExempt is true for the two rules (C-trunc, C-runt) whose own
	// active condition already encodes rx_last; every other rule is
	// suppressed outright on an rx_last cycle (spec.md §4.6).
	lastExempt bool
	active     func(p *ParserState, c Counters, cfg Config, in Inputs) bool
	allowed    func(p *ParserState, c Counters, cfg Config, in Inputs) bool
}

func printable(b byte) bool {
	return (b >= 0x20 && b <= 0x7E) || b == 0x09 || b == 0x0A || b == 0x0D
}

// ipHdrBytes returns the IPv4 header length in bytes (4 * IHL).
func ipHdrBytes(p *ParserState) uint32 {
	return 4 * uint32(p.ipHdrLen)
}

var rules = []rule{
	{ // A EtherType
		kind: ViolationEtherType,
		active: func(p *ParserState, _ Counters, _ Config, _ Inputs) bool {
			return p.bytePtr == 13
		},
		allowed: func(p *ParserState, _ Counters, _ Config, in Inputs) bool {
			return p.isIP && (in.RxData == 0x00 || in.RxData == 0x06)
		},
	},
	{ // A' IP version
		kind: ViolationEtherType,
		active: func(p *ParserState, _ Counters, _ Config, _ Inputs) bool {
			return p.isIP && p.bytePtr == 14
		},
		allowed: func(_ *ParserState, _ Counters, _ Config, in Inputs) bool {
			return in.RxData>>4 == 4
		},
	},
	{ // B TTL
		kind: ViolationTTL,
		active: func(p *ParserState, _ Counters, _ Config, _ Inputs) bool {
			return p.isIP && p.bytePtr == 22
		},
		allowed: func(_ *ParserState, _ Counters, _ Config, in Inputs) bool {
			return in.RxData >= 60
		},
	},
	{ // C Min-size
		kind: ViolationWgSize,
		active: func(p *ParserState, _ Counters, _ Config, _ Inputs) bool {
			return p.isIP && p.bytePtr > 14 && p.bytePtr == 14+ipHdrBytes(p)-1
		},
		allowed: func(p *ParserState, _ Counters, _ Config, _ Inputs) bool {
			return p.ipLen >= 28 && (p.ipProto != 6 || p.ipLen >= 40)
		},
	},
	{ // C-trail Trailing garbage
		kind: ViolationWgSize,
		active: func(p *ParserState, _ Counters, _ Config, _ Inputs) bool {
			return p.isIP && p.bytePtr > 17 && p.bytePtr >= 14+uint32(p.ipLen) && p.bytePtr >= 64
		},
		allowed: func(*ParserState, Counters, Config, Inputs) bool { return false },
	},
	{ // C-trunc Truncation
		kind:       ViolationWgSize,
		lastExempt: true,
		active: func(p *ParserState, _ Counters, _ Config, in Inputs) bool {
			return p.isIP && in.RxLast
		},
		allowed: func(p *ParserState, _ Counters, _ Config, _ Inputs) bool {
			return p.bytePtr >= 14+uint32(p.ipLen)-1 && p.ipLen >= 28 && (p.ipProto != 6 || p.ipLen >= 40)
		},
	},
	{ // C-runt Runt
		kind:       ViolationWgSize,
		lastExempt: true,
		active: func(p *ParserState, _ Counters, _ Config, in Inputs) bool {
			return in.RxLast && p.bytePtr < 14
		},
		allowed: func(*ParserState, Counters, Config, Inputs) bool { return false },
	},
	{ // D Plaintext
		kind: ViolationPlaintext,
		active: func(p *ParserState, _ Counters, _ Config, in Inputs) bool {
			return (p.isIP || p.isArp) && printable(in.RxData)
		},
		allowed: func(p *ParserState, _ Counters, cfg Config, _ Inputs) bool {
			return p.plaintextCnt < cfg.PlaintextThreshold
		},
	},
	{ // E Volume
		kind:    ViolationVolume,
		active:  func(*ParserState, Counters, Config, Inputs) bool { return true },
		allowed: func(_ *ParserState, c Counters, cfg Config, _ Inputs) bool { return c.volumeCnt < cfg.VolumeLimit },
	},
	{ // F Frag-flags
		kind: ViolationFrag,
		active: func(p *ParserState, _ Counters, _ Config, _ Inputs) bool {
			return p.isIP && p.bytePtr == 20
		},
		allowed: func(_ *ParserState, _ Counters, _ Config, in Inputs) bool {
			return in.RxData&0xBF == 0
		},
	},
	{ // F' Frag-offset
		kind: ViolationFrag,
		active: func(p *ParserState, _ Counters, _ Config, _ Inputs) bool {
			return p.isIP && p.bytePtr == 21
		},
		allowed: func(_ *ParserState, _ Counters, _ Config, in Inputs) bool {
			return in.RxData == 0
		},
	},
	{ // G IP options
		kind: ViolationIPOptions,
		active: func(p *ParserState, _ Counters, _ Config, _ Inputs) bool {
			return p.isIP && p.bytePtr == 14
		},
		allowed: func(_ *ParserState, _ Counters, _ Config, in Inputs) bool {
			return in.RxData == 0x45
		},
	},
	{ // H Protocol
		kind: ViolationIPProto,
		active: func(p *ParserState, _ Counters, _ Config, _ Inputs) bool {
			return p.isIP && p.bytePtr == 23
		},
		allowed: func(_ *ParserState, _ Counters, _ Config, in Inputs) bool {
			return in.RxData == 6 || in.RxData == 17
		},
	},
	{ // I ARP opcode
		kind: ViolationArpOpcode,
		active: func(p *ParserState, _ Counters, _ Config, _ Inputs) bool {
			return p.isArp && p.bytePtr == 21
		},
		allowed: func(p *ParserState, _ Counters, _ Config, in Inputs) bool {
			return p.arpOpcodeHigh == 0 && (in.RxData == 1 || in.RxData == 2)
		},
	},
	{ // J ARP size
		kind: ViolationArpSize,
		active: func(p *ParserState, _ Counters, _ Config, _ Inputs) bool {
			return p.isArp && p.bytePtr > 63
		},
		allowed: func(*ParserState, Counters, Config, Inputs) bool { return false },
	},
	{ // K ARP rate
		kind: ViolationArpRate,
		active: func(p *ParserState, _ Counters, _ Config, _ Inputs) bool {
			return p.isArp
		},
		allowed: func(_ *ParserState, c Counters, cfg Config, _ Inputs) bool {
			return c.arpBucket < cfg.ArpBurstLimit
		},
	},
	{ // L LAND
		kind: ViolationLand,
		active: func(p *ParserState, _ Counters, _ Config, _ Inputs) bool {
			return p.isIP && p.bytePtr == 33
		},
		allowed: func(p *ParserState, _ Counters, _ Config, in Inputs) bool {
			fullDst := (p.dstIP << 8) | uint32(in.RxData)
			return p.srcIP != fullDst
		},
	},
	{ // M Loopback
		kind: ViolationLoopback,
		active: func(p *ParserState, _ Counters, _ Config, _ Inputs) bool {
			return p.isIP && (p.bytePtr == 26 || p.bytePtr == 30)
		},
		allowed: func(_ *ParserState, _ Counters, _ Config, in Inputs) bool {
			return in.RxData != 127
		},
	},
	{ // N TCP options
		kind: ViolationTCPOptions,
		active: func(p *ParserState, _ Counters, _ Config, _ Inputs) bool {
			return p.isIP && p.ipProto == 6 && p.bytePtr == 46
		},
		allowed: func(_ *ParserState, _ Counters, _ Config, in Inputs) bool {
			return in.RxData == 0x50
		},
	},
	{ // O TCP flags
		kind: ViolationTCPFlags,
		active: func(p *ParserState, _ Counters, _ Config, _ Inputs) bool {
			return p.isIP && p.ipProto == 6 && p.bytePtr == 47
		},
		allowed: func(p *ParserState, _ Counters, _ Config, in Inputs) bool {
			full := (uint16(p.tcpFlagsHighBit) << 8) | uint16(in.RxData)
			switch full {
			case 0x002, 0x012, 0x010, 0x018, 0x001, 0x011, 0x004, 0x014:
				return true
			default:
				return false
			}
		},
	},
	{ // P UDP length
		kind: ViolationUDPLen,
		active: func(p *ParserState, _ Counters, _ Config, _ Inputs) bool {
			return p.isIP && p.ipProto == 17 && p.bytePtr == 39
		},
		allowed: func(p *ParserState, _ Counters, _ Config, in Inputs) bool {
			fullUDPLen := (p.udpLenHigh << 8) | uint16(in.RxData)
			return fullUDPLen >= 8 && fullUDPLen == p.ipLen-20
		},
	},
}

// evaluateRules runs the full PolicyPredicates table for the current byte
// and returns the per-kind violation pulse plus whether any rule violated.
func evaluateRules(p *ParserState, c Counters, cfg Config, in Inputs) (fired [numViolationKinds]bool, any bool) {
	if !in.RxValid {
		return fired, false
	}
	for _, r := range rules {
		active := r.active(p, c, cfg, in)
		if active && !r.lastExempt && in.RxLast {
			active = false
		}
		if active && !r.allowed(p, c, cfg, in) {
			fired[r.kind] = true
			any = true
		}
	}
	return fired, any
}
