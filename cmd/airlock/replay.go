// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package main

import (
	"log"

	"grimm.is/airlock/internal/airlock"
	"grimm.is/airlock/internal/capture"
	"grimm.is/airlock/internal/config"
	"grimm.is/airlock/internal/logging"
)

// replayEngine drives every packet in pcapFile through engine and logs a
// summary: frames forwarded, frames that triggered a violation, and the
// engine's final lock state.
func replayEngine(logger *logging.Logger, engine *airlock.SecurityAirlock, file *config.File, pcapFile string) {
	replayer := capture.NewReplayer(engine, file.EgressModeBool(), file.Ingress)
	replayer.SetHeartbeat(true)

	frames, err := replayer.ReplayFile(pcapFile)
	if err != nil {
		log.Fatalf("replay %s: %v", pcapFile, err)
	}

	var forwarded, violated int
	for _, f := range frames {
		if len(f.TxBytes) > 0 {
			forwarded++
		}
		if f.AnyViolation {
			violated++
		}
	}

	status := engine.Snapshot()
	logger.Info("replay summary",
		"file", pcapFile,
		"frames", len(frames),
		"forwarded", forwarded,
		"violated", violated,
		"locked", status.Locked,
	)
}
