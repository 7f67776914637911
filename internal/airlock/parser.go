// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package airlock

// advanceParser applies the PacketParser's per-byte field captures
// (spec.md §4.5) for a byte that has fired this cycle, is not the frame's
// last byte, and is not being discarded by the resync controller. It reads
// and writes p in place; the snapshot used for this cycle's rule evaluation
// must have already been taken by the caller before calling this.
func advanceParser(p *ParserState, in Inputs) {
	switch p.bytePtr {
	case 12:
		if in.RxData == 0x08 {
			p.isIP = true
		}
	case 13:
		switch {
		case p.isIP && in.RxData == 0x00:
			// confirmed IPv4
		case p.isIP && in.RxData == 0x06:
			p.isArp = true
			p.isIP = false
		default:
			p.isIP = false
			p.isArp = false
		}
	case 14:
		if p.isIP {
			p.ipHdrLen = in.RxData & 0x0F
		}
	case 16:
		p.ipLen = uint16(in.RxData) << 8
	case 17:
		p.ipLen |= uint16(in.RxData)
	case 20:
		if p.isArp {
			p.arpOpcodeHigh = in.RxData
		}
	case 22:
		p.ttl = in.RxData
	case 23:
		p.ipProto = in.RxData
	case 26, 27, 28, 29:
		p.srcIP = (p.srcIP << 8) | uint32(in.RxData)
	case 30, 31, 32, 33:
		p.dstIP = (p.dstIP << 8) | uint32(in.RxData)
	case 38:
		if p.ipProto == 17 {
			p.udpLenHigh = uint16(in.RxData)
		}
	case 46:
		if p.ipProto == 6 {
			p.tcpFlagsHighBit = in.RxData & 0x01
		}
	}

	if p.bytePtr > 14+4*uint32(p.ipHdrLen)-1 {
		if printable(in.RxData) {
			if p.plaintextCnt < maxPlaintext {
				p.plaintextCnt++
			}
		} else if p.plaintextCnt > 0 {
			p.plaintextCnt--
		}
	}

	if p.bytePtr < maxByteIndex {
		p.bytePtr++
	}
}
