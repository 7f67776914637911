// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package netutil

import "testing"

func TestFormatMAC(t *testing.T) {
	mac := []byte{0x02, 0x67, 0x63, 0x11, 0x22, 0x33}
	got := FormatMAC(mac)
	want := "02:67:63:11:22:33"
	if got != want {
		t.Errorf("FormatMAC() = %q, want %q", got, want)
	}
}

func TestFormatMACWrongLength(t *testing.T) {
	if got := FormatMAC([]byte{0x01, 0x02}); got != "" {
		t.Errorf("FormatMAC() with short input = %q, want empty", got)
	}
}

func TestIsMulticast(t *testing.T) {
	cases := []struct {
		mac  []byte
		want bool
	}{
		{[]byte{0x01, 0x00, 0x5e, 0x00, 0x00, 0x01}, true},  // IPv4 multicast
		{[]byte{0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff}, false}, // unicast
		{[]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff}, true},  // broadcast is also multicast bit
	}
	for _, c := range cases {
		if got := IsMulticast(c.mac); got != c.want {
			t.Errorf("IsMulticast(%v) = %v, want %v", c.mac, got, c.want)
		}
	}
}

func TestIsBroadcast(t *testing.T) {
	if !IsBroadcast([]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff}) {
		t.Error("expected all-ones MAC to be broadcast")
	}
	if IsBroadcast([]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xfe}) {
		t.Error("expected non-all-ones MAC to not be broadcast")
	}
}
