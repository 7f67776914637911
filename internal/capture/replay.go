// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package capture bridges a recorded packet stream into the byte-at-a-time
// handshake the core machine expects, for replay-driven testing and
// scenario verification.
package capture

import (
	"fmt"

	"github.com/gopacket/gopacket"
	"github.com/gopacket/gopacket/pcap"

	"grimm.is/airlock/internal/airlock"
	"grimm.is/airlock/internal/logging"
)

// Frame is the result of replaying one captured packet through the airlock:
// the bytes the egress side actually emitted, and whether any per-rule
// violation fired while it was in flight.
type Frame struct {
	TxBytes      []byte
	AnyViolation bool
}

// Replayer drives a *airlock.SecurityAirlock byte-by-byte from a PCAP file,
// honoring the ready/valid handshake exactly as a live bridge would.
type Replayer struct {
	engine *airlock.SecurityAirlock
	logger *logging.Logger

	heartbeatIn bool
	egressMode  bool
	ingress     bool
}

// NewReplayer constructs a Replayer over an already-configured airlock
// instance.
func NewReplayer(engine *airlock.SecurityAirlock, egressMode, ingress bool) *Replayer {
	return &Replayer{
		engine:     engine,
		logger:     logging.WithComponent("capture"),
		egressMode: egressMode,
		ingress:    ingress,
	}
}

// SetHeartbeat sets the heartbeat_in level sampled on every subsequent
// cycle.
func (r *Replayer) SetHeartbeat(v bool) { r.heartbeatIn = v }

// ReplayFile opens path with gopacket/pcap and feeds every packet's bytes
// through the airlock in order, returning one Frame per packet.
func (r *Replayer) ReplayFile(path string) ([]Frame, error) {
	handle, err := pcap.OpenOffline(path)
	if err != nil {
		return nil, fmt.Errorf("open pcap: %w", err)
	}
	defer handle.Close()

	var frames []Frame
	source := gopacket.NewPacketSource(handle, handle.LinkType())
	for packet := range source.Packets() {
		frames = append(frames, r.FeedFrame(packet.Data()))
	}
	r.logger.Info("replay complete", "frames", len(frames), "source", path)
	return frames, nil
}

// FeedFrame drives a single Ethernet frame's raw bytes through the airlock,
// one Step call per byte accepted by the ready/valid handshake, honoring
// tx_ready backpressure by holding rx_valid on an unaccepted byte.
func (r *Replayer) FeedFrame(data []byte) Frame {
	var out Frame
	for i, b := range data {
		last := i == len(data)-1
		for {
			outputs := r.engine.Advance(airlock.Inputs{
				RxData:      b,
				RxValid:     true,
				RxLast:      last,
				TxReady:     true,
				HeartbeatIn: r.heartbeatIn,
				EgressMode:  r.egressMode,
				Ingress:     r.ingress,
			})
			if outputs.Violation.Now {
				out.AnyViolation = true
			}
			if outputs.TxValid {
				out.TxBytes = append(out.TxBytes, outputs.TxData)
			}
			if outputs.RxReady {
				break
			}
		}
	}
	return out
}
