// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Command airlock runs the SecurityAirlock packet guard, either bridging a
// live pair of interfaces or replaying a capture file against it.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"grimm.is/airlock/internal/airlock"
	"grimm.is/airlock/internal/config"
	"grimm.is/airlock/internal/errors"
	"grimm.is/airlock/internal/logging"
	"grimm.is/airlock/internal/metrics"
	"grimm.is/airlock/internal/rawsocket"
)

// metricsSampleInterval is how often the background goroutine snapshots the
// running engine into the metrics registry.
const metricsSampleInterval = 250 * time.Millisecond

// dieOn logs err and exits if its Kind is Fatal, otherwise logs it as a
// warning and lets the caller continue.
func dieOn(logger *logging.Logger, msg string, err error) {
	if err == nil {
		return
	}
	if errors.GetKind(err).Fatal() {
		logger.Error(msg, errors.LogArgs(err)...)
		os.Exit(1)
	}
	logger.Warn(msg, errors.LogArgs(err)...)
}

func main() {
	flag.Parse()
	args := flag.Args()

	subcmd := "serve"
	if len(args) > 0 {
		subcmd = args[0]
		args = args[1:]
	}

	switch subcmd {
	case "serve":
		runServe(args)
	case "replay":
		runReplay(args)
	default:
		log.Fatalf("unknown command %q (expected serve or replay)", subcmd)
	}
}

func runServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "", "path to an HCL or JSON config file")
	metricsAddr := fs.String("metrics-addr", ":9110", "address to serve /metrics on")
	fs.Parse(args)

	logger := logging.New(logging.Config{Level: logging.LevelInfo})
	logging.SetDefault(logger)

	var file *config.File
	if *configPath != "" {
		loaded, err := config.LoadFile(*configPath)
		dieOn(logger, "load config failed", err)
		file = loaded
	} else {
		file = config.DefaultFile()
	}

	engine := airlock.New(file.AirlockConfig())
	logger.Info("airlock instance started", "instance_id", engine.InstanceID.String())

	reg := metrics.NewRegistry()
	if *metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", reg.Handler())
			logger.Info("metrics listening", "addr", *metricsAddr)
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				logger.Error("metrics server exited", "error", err)
			}
		}()
	}

	if file.RxInterface == "" || file.TxInterface == "" {
		log.Fatal("serve requires rx_interface and tx_interface to be set in the config")
	}

	bridge, err := rawsocket.Open(engine, rawsocket.Config{
		RxInterface: file.RxInterface,
		TxInterface: file.TxInterface,
		EgressMode:  file.EgressModeBool(),
		Ingress:     file.Ingress,
	})
	if err != nil {
		log.Fatalf("open raw sockets: %v", err)
	}
	defer bridge.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go func() {
		ticker := time.NewTicker(metricsSampleInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				reg.Observe(engine.Snapshot())
			}
		}
	}()

	if err := bridge.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error("bridge run failed", errors.LogArgs(err)...)
		os.Exit(1)
	}
	logger.Info("airlock shutting down")
}

func runReplay(args []string) {
	fs := flag.NewFlagSet("replay", flag.ExitOnError)
	configPath := fs.String("config", "", "path to an HCL or JSON config file")
	fs.Parse(args)
	if fs.NArg() < 1 {
		log.Fatal("usage: airlock replay [-config path] <pcap-file>")
	}
	pcapFile := fs.Arg(0)

	logger := logging.New(logging.Config{Level: logging.LevelInfo})
	logging.SetDefault(logger)

	file := config.DefaultFile()
	if *configPath != "" {
		loaded, err := config.LoadFile(*configPath)
		dieOn(logger, "load config failed", err)
		file = loaded
	}

	engine := airlock.New(file.AirlockConfig())
	replayEngine(logger, engine, file, pcapFile)
}
