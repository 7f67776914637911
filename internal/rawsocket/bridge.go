// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package rawsocket bridges a live dual-NIC deployment (one ingress, one
// egress interface) into the byte-at-a-time handshake the core airlock
// machine expects, using AF_PACKET sockets.
package rawsocket

import (
	"context"
	"net"

	"github.com/mdlayher/packet"
	"github.com/safchain/ethtool"
	"github.com/vishvananda/netlink"
	"golang.org/x/sys/unix"

	"grimm.is/airlock/internal/airlock"
	"grimm.is/airlock/internal/errors"
	"grimm.is/airlock/internal/logging"
	"grimm.is/airlock/internal/netutil"
)

// Bridge owns one AF_PACKET socket per physical interface and drives a
// *airlock.SecurityAirlock from whatever arrives on the ingress side.
type Bridge struct {
	engine *airlock.SecurityAirlock
	logger *logging.Logger

	rxConn *packet.Conn
	txConn *packet.Conn

	egressMode bool
	ingress    bool
}

// Config names the two physical interfaces a Bridge binds to.
type Config struct {
	RxInterface string
	TxInterface string
	EgressMode  bool
	Ingress     bool
}

// Open binds raw AF_PACKET sockets to both named interfaces and checks link
// state via netlink before returning a ready Bridge.
func Open(engine *airlock.SecurityAirlock, cfg Config) (*Bridge, error) {
	rxIface, err := net.InterfaceByName(cfg.RxInterface)
	if err != nil {
		return nil, errors.Wrap(err, errors.KindSocket, "resolve rx interface")
	}
	txIface, err := net.InterfaceByName(cfg.TxInterface)
	if err != nil {
		return nil, errors.Wrap(err, errors.KindSocket, "resolve tx interface")
	}

	if err := requireLinkUp(cfg.RxInterface); err != nil {
		return nil, err
	}
	if err := requireLinkUp(cfg.TxInterface); err != nil {
		return nil, err
	}

	rxConn, err := packet.Listen(rxIface, packet.Raw, unix.ETH_P_ALL, nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.KindSocket, "open rx raw socket")
	}
	txConn, err := packet.Listen(txIface, packet.Raw, unix.ETH_P_ALL, nil)
	if err != nil {
		rxConn.Close()
		return nil, errors.Wrap(err, errors.KindSocket, "open tx raw socket")
	}

	return &Bridge{
		engine:     engine,
		logger:     logging.WithComponent("rawsocket"),
		rxConn:     rxConn,
		txConn:     txConn,
		egressMode: cfg.EgressMode,
		ingress:    cfg.Ingress,
	}, nil
}

// requireLinkUp rejects an interface whose netlink operational state is
// neither up nor unknown, so the bridge fails fast instead of blocking on a
// dead link. It also makes an ethtool features query, whose outcome does not
// affect the result.
func requireLinkUp(name string) error {
	link, err := netlink.LinkByName(name)
	if err != nil {
		return errors.Wrap(err, errors.KindSocket, "lookup link")
	}
	if link.Attrs().OperState != netlink.OperUp && link.Attrs().OperState != netlink.OperUnknown {
		return errors.Errorf(errors.KindSocket, "interface %s is not up (state=%s)", name, link.Attrs().OperState)
	}

	eth, err := ethtool.NewEthtool()
	if err != nil {
		// ethtool access is a diagnostic nicety, not a hard requirement
		// (it needs CAP_NET_ADMIN); absence does not fail Open.
		return nil
	}
	defer eth.Close()
	if _, err := eth.Features(name); err != nil {
		return nil
	}
	return nil
}

// Run drives frames from the rx socket to the tx socket until ctx is
// canceled, one Ethernet frame read at a time.
func (b *Bridge) Run(ctx context.Context) error {
	buf := make([]byte, 65536)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		n, _, err := b.rxConn.ReadFrom(buf)
		if err != nil {
			return errors.Wrap(err, errors.KindSocket, "read rx frame")
		}
		if err := b.feedAndForward(buf[:n]); err != nil {
			return err
		}
	}
}

func (b *Bridge) feedAndForward(frame []byte) error {
	var out []byte
	for i, bt := range frame {
		last := i == len(frame)-1
		o := b.engine.Advance(airlock.Inputs{
			RxData:     bt,
			RxValid:    true,
			RxLast:     last,
			TxReady:    true,
			EgressMode: b.egressMode,
			Ingress:    b.ingress,
		})
		if o.TxValid {
			out = append(out, o.TxData)
		}
	}
	if len(out) == 0 {
		return nil
	}
	var dst net.HardwareAddr
	if len(out) >= 6 {
		dstBytes := out[0:6]
		dst = net.HardwareAddr(dstBytes)
		if netutil.IsBroadcast(dstBytes) || netutil.IsMulticast(dstBytes) {
			b.logger.Debug("forwarding to non-unicast destination",
				"dst_mac", netutil.FormatMAC(dstBytes),
				"broadcast", netutil.IsBroadcast(dstBytes))
		}
	}
	_, err := b.txConn.WriteTo(out, &packet.Addr{HardwareAddr: dst})
	if err != nil {
		return errors.Wrap(err, errors.KindSocket, "write tx frame")
	}
	return nil
}

// Close releases both raw sockets.
func (b *Bridge) Close() error {
	rxErr := b.rxConn.Close()
	txErr := b.txConn.Close()
	if rxErr != nil {
		return rxErr
	}
	return txErr
}
