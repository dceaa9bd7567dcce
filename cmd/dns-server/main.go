// Command dns-server runs the UDP DNS forwarder: a local stub resolver by
// default, or a forwarding resolver when --resolver is given.
package main

import (
	"context"
	"flag"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/vh012/wiredaemon/internal/dns/forward"
	"github.com/vh012/wiredaemon/internal/dns/protocol"
	"github.com/vh012/wiredaemon/internal/dns/server"
	"github.com/vh012/wiredaemon/internal/transport"
)

func main() {
	listenAddr := flag.String("listen", protocol.ListenAddr, "address to listen for DNS queries on")
	resolverAddr := flag.String("resolver-bind", protocol.ResolverAddr, "local address to bind the upstream resolver socket to, when --resolver is set")
	upstream := flag.String("resolver", "", "upstream resolver address (host:port); when empty, queries are answered by the local stub resolver")
	timeout := flag.Duration("resolver-timeout", forward.DefaultUpstreamTimeout, "how long to wait for upstream replies before giving up")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	logger.Info("platform", "info", transport.PlatformInfo())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var dispatcher *forward.Dispatcher
	var upstreamAddr net.Addr

	if *upstream != "" {
		resolved, err := net.ResolveUDPAddr("udp", *upstream)
		if err != nil {
			logger.Error("failed to resolve upstream address", "address", *upstream, "error", err)
			os.Exit(1)
		}
		upstreamAddr = resolved

		resolverConn, err := transport.ListenUDP(ctx, *resolverAddr)
		if err != nil {
			logger.Error("failed to bind resolver socket", "address", *resolverAddr, "error", err)
			os.Exit(1)
		}
		defer resolverConn.Close()

		dispatcher = forward.NewDispatcher(resolverConn, *timeout)
		logger.Info("forwarding enabled", "upstream", *upstream, "resolver_bind", *resolverAddr)
	}

	srv, err := server.New(ctx, *listenAddr, dispatcher, upstreamAddr, logger)
	if err != nil {
		logger.Error("failed to bind listener", "address", *listenAddr, "error", err)
		os.Exit(1)
	}
	defer srv.Close()

	logger.Info("dns-server listening", "address", *listenAddr)

	if err := srv.Serve(ctx); err != nil && ctx.Err() == nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}

	logger.Info("dns-server shutting down")
}
