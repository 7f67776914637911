// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package airlock

// egressGateOutputs implements EgressGate (spec.md §4.8). All inputs are the
// registered state from the *start* of the cycle (pre-LockDecision) plus
// this cycle's combinatorial violation pulse, matching the hardware's
// same-cycle combinational path from registers + inputs to tx_*/rx_ready.
type egressGateOutputs struct {
	TxData         byte
	TxValid        bool
	TxLast         bool
	RxReady        bool
	GateTx         bool
	ForceTerminate bool
}

func egressGate(prevLocked, prevDropCurrent, prevFlush, trafficViolation, heartbeatViolation, violationNow bool, in Inputs) egressGateOutputs {
	gateTx := prevLocked || prevDropCurrent || in.RstLock || prevFlush || trafficViolation || heartbeatViolation || violationNow
	forceTerminate := (prevDropCurrent || violationNow) && in.RxLast && !prevLocked

	txData := in.RxData
	if forceTerminate {
		txData = 0x00
	}

	return egressGateOutputs{
		TxData:         txData,
		TxValid:        (in.RxValid && !gateTx) || forceTerminate,
		TxLast:         in.RxLast,
		RxReady:        in.TxReady || gateTx,
		GateTx:         gateTx,
		ForceTerminate: forceTerminate,
	}
}
