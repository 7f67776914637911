// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package airlock

// stepArpBucket implements ArpLeakyBucket (spec.md §4.3). The leak timer
// free-runs every cycle; the bucket itself only increments on a fired
// ingress byte belonging to an ARP frame, and only outside flush (the
// resync controller suppresses all state updates except volume during
// flush).
func stepArpBucket(c *Counters, cfg Config, fire, isArp, flushing bool) {
	if c.arpLeakTimer < cfg.ArpLeakInterval-1 {
		c.arpLeakTimer++
	} else {
		c.arpLeakTimer = 0
		if c.arpBucket > 0 {
			c.arpBucket--
		}
	}

	if fire && isArp && !flushing {
		if c.arpBucket < maxArpBucket {
			c.arpBucket++
		}
	}
}

// stepVolume implements VolumeCounter (spec.md §4.4): one increment per
// fired ingress byte while not locked, saturating at the u27 ceiling.
func stepVolume(c *Counters, fire, locked bool) {
	if fire && !locked {
		if c.volumeCnt < maxVolumeCount {
			c.volumeCnt++
		}
	}
}
