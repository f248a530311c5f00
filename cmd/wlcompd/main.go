package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wlbind/waycompd"
	"github.com/wlbind/waycompd/internal/constants"
	"github.com/wlbind/waycompd/internal/logging"
)

func main() {
	var (
		socketPath = flag.String("socket", constants.DefaultSocketPath, "Unix socket path to listen on")
		backlog    = flag.Int("backlog", constants.ListenBacklog, "listen(2) backlog for the socket")
		verbose    = flag.Bool("v", false, "Verbose (debug-level) logging")
	)
	flag.Parse()

	logConfig := logging.DefaultConfig()
	if *verbose {
		logConfig.Level = logging.LevelDebug
	}
	logger := logging.NewLogger(logConfig)
	logging.SetDefault(logger)

	cfg := compositor.DefaultConfig()
	cfg.SocketPath = *socketPath
	cfg.Backlog = *backlog

	metrics := compositor.NewMetrics()
	observer := compositor.NewMetricsObserver(metrics)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	server, err := compositor.Listen(cfg, &compositor.Options{
		Context:  ctx,
		Logger:   logger,
		Observer: observer,
	})
	if err != nil {
		log.Fatalf("failed to listen: %v", err)
	}

	logger.Info("listening", "socket", cfg.SocketPath, "backlog", cfg.Backlog)
	fmt.Printf("waycompd listening on %s\n", cfg.SocketPath)
	fmt.Printf("Press Ctrl+C to stop...\n")

	serveErrCh := make(chan error, 1)
	go func() { serveErrCh <- server.Serve(ctx) }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", "signal", sig.String())
		server.Shutdown()
		select {
		case err := <-serveErrCh:
			if err != nil {
				logger.Error("serve exited with error", "error", err)
			}
		case <-time.After(5 * time.Second):
			logger.Warn("shutdown timed out waiting for clients to drain")
		}
	case err := <-serveErrCh:
		if err != nil {
			logger.Error("serve exited with error", "error", err)
			os.Exit(1)
		}
	}

	snap := metrics.Snapshot()
	logger.Info("final metrics",
		"connections_accepted", snap.ConnectionsAccepted,
		"connections_closed", snap.ConnectionsClosed,
		"requests_dispatched", snap.RequestsDispatched,
	)
}
