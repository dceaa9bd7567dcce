// Command redis-server runs the RESP TCP key/value server.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/vh012/wiredaemon/internal/config"
	"github.com/vh012/wiredaemon/internal/resp/rdb"
	"github.com/vh012/wiredaemon/internal/resp/server"
	"github.com/vh012/wiredaemon/internal/resp/store"
	"github.com/vh012/wiredaemon/internal/transport"
)

const defaultListenAddr = "127.0.0.1:6379"

func main() {
	listenAddr := flag.String("listen", defaultListenAddr, "address to listen for RESP connections on")
	dir := flag.String("dir", "", "directory containing an RDB snapshot to load at startup")
	dbfilename := flag.String("dbfilename", "", "RDB snapshot filename within --dir")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	logger.Info("platform", "info", transport.PlatformInfo())

	if *dir != "" {
		config.SetDir(*dir)
	}
	if *dbfilename != "" {
		config.SetDBFilename(*dbfilename)
	}

	st := store.New()

	cfg := config.Get()
	if cfg.Dir != nil && cfg.DBFilename != nil {
		loader := rdb.NotImplementedLoader{}
		if err := loader.Load(*cfg.Dir, *cfg.DBFilename); err != nil {
			logger.Warn("snapshot load skipped", "dir", *cfg.Dir, "dbfilename", *cfg.DBFilename, "error", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := server.New(ctx, *listenAddr, st, logger)
	if err != nil {
		logger.Error("failed to bind listener", "address", *listenAddr, "error", err)
		os.Exit(1)
	}
	defer srv.Close()

	logger.Info("redis-server listening", "address", *listenAddr)

	if err := srv.Serve(ctx); err != nil && ctx.Err() == nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}

	logger.Info("redis-server shutting down")
}
