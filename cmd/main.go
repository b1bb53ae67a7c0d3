package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/angeloszaimis/udp-relay/config"
	"github.com/angeloszaimis/udp-relay/internal/backend"
	"github.com/angeloszaimis/udp-relay/internal/metrics"
	"github.com/angeloszaimis/udp-relay/internal/relay"
	"github.com/angeloszaimis/udp-relay/internal/strategy"
	"github.com/angeloszaimis/udp-relay/internal/udpserver"
	"github.com/angeloszaimis/udp-relay/pkg/logger"
)

func main() {
	configPath := pflag.StringP("config", "c", config.DefaultPath, "path to the relay configuration file")
	pflag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", slog.Any("err", err))
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel, true, cfg.Environment)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	backends, err := initializeBackends(cfg)
	if err != nil {
		log.Error("Failed to resolve upstreams", slog.Any("err", err))
		os.Exit(1)
	}

	strat := createStrategy(cfg)

	collector := metrics.NewCollector(1024, log)
	collector.Start(ctx)

	srv, err := udpserver.New(log, cfg.Listen, udpserver.Options{
		SendBuffer: cfg.SendBuffer,
		RecvBuffer: cfg.RecvBuffer,
		Listeners:  cfg.Listeners,
	})
	if err != nil {
		log.Error("Failed to bind listen socket",
			slog.String("listen", cfg.Listen),
			slog.Any("err", err))
		os.Exit(1)
	}

	if cfg.MetricsAddress != "" {
		mux := setupRouter(collector, strategyName(cfg))
		go func() {
			if err := http.ListenAndServe(cfg.MetricsAddress, mux); err != nil {
				log.Error("Metrics server stopped", slog.Any("err", err))
			}
		}()
	}

	relayErrCh := make(chan error, len(srv.Conns()))
	for _, conn := range srv.Conns() {
		rl := relay.New(log, conn, strat, backends, collector)
		go func() {
			relayErrCh <- rl.Run()
		}()
	}

	log.Info("Relay started",
		slog.String("listen", cfg.Listen),
		slog.Int("upstreams", len(backends)),
		slog.Bool("handle_gelf", cfg.HandleGELF),
		slog.Int("listeners", cfg.Listeners))

	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
		srv.Close()
		for range srv.Conns() {
			<-relayErrCh
		}
	case err := <-relayErrCh:
		log.Error("Relay loop terminated", slog.Any("err", err))
		srv.Close()
		os.Exit(1)
	}
}

func initializeBackends(cfg *config.Config) ([]*backend.Backend, error) {
	var backends []*backend.Backend

	for _, upstream := range cfg.Upstreams {
		b, err := backend.Resolve(upstream)
		if err != nil {
			return nil, err
		}
		backends = append(backends, b)
	}

	if len(backends) == 0 {
		return nil, os.ErrInvalid
	}

	return backends, nil
}

func createStrategy(cfg *config.Config) strategy.Strategy {
	roundRobin := strategy.NewRoundRobinStrategy()

	if cfg.HandleGELF {
		return strategy.NewChunkAffinityStrategy(roundRobin)
	}

	return roundRobin
}

func strategyName(cfg *config.Config) string {
	if cfg.HandleGELF {
		return "gelf-affinity"
	}

	return "round-robin"
}
