// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package netutil holds small MAC/Ethernet helpers used by the raw-socket
// bridge's frame logging.
package netutil

import (
	"fmt"
)

// FormatMAC renders a 6-byte hardware address the way the bridge's frame
// logging does: lowercase, colon-separated.
func FormatMAC(mac []byte) string {
	if len(mac) != 6 {
		return ""
	}
	return fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x",
		mac[0], mac[1], mac[2], mac[3], mac[4], mac[5])
}

// IsMulticast reports whether a destination MAC has the multicast bit set
// (the low bit of the first octet). The core predicate table never treats
// multicast traffic as weaker than unicast, but telemetry callers surface
// this to distinguish broadcast/multicast storms from directed traffic.
func IsMulticast(mac []byte) bool {
	if len(mac) != 6 {
		return false
	}
	return mac[0]&0x01 == 1
}

// IsBroadcast reports whether a destination MAC is the all-ones broadcast
// address.
func IsBroadcast(mac []byte) bool {
	if len(mac) != 6 {
		return false
	}
	for _, b := range mac {
		if b != 0xFF {
			return false
		}
	}
	return true
}
