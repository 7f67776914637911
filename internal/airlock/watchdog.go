// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package airlock

// stepHeartbeat implements HeartbeatWatchdog (spec.md §4.2). It samples
// heartbeat_in every cycle, reloads the countdown on any edge, and reports
// whether the timer is at zero after this cycle's update (true on every
// cycle it stays there; the violation latches irreversibly until rst_lock,
// handled by the caller).
func stepHeartbeat(c *Counters, cfg Config, heartbeatIn bool) (timedOut bool) {
	if heartbeatIn != c.lastHeartbeat {
		c.watchdogTimer = cfg.HeartbeatTimeout
	} else if c.watchdogTimer > 0 {
		c.watchdogTimer--
	}
	c.lastHeartbeat = heartbeatIn
	return c.watchdogTimer == 0
}
