// Command engine runs the options position engine: it reconciles broker
// snapshots against stored trade records and serves the results over a
// local JSON API.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ogostos/optledger/internal/broker"
	"github.com/ogostos/optledger/internal/config"
	"github.com/ogostos/optledger/internal/engine"
	"github.com/ogostos/optledger/internal/server"
	"github.com/ogostos/optledger/internal/storage"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.WithError(err).Fatal("loading config")
	}
	if lvl, err := logrus.ParseLevel(cfg.Environment.LogLevel); err == nil {
		logger.SetLevel(lvl)
	}

	store, err := storage.NewStorage(cfg.Storage.Path)
	if err != nil {
		logger.WithError(err).Fatal("opening trade store")
	}

	var provider broker.SnapshotProvider = broker.NewClient(
		cfg.Broker.Endpoint, cfg.Broker.APIKey, cfg.Broker.AccountID, cfg.BrokerTimeout())
	if cfg.Broker.UseCircuitBreaker {
		provider = broker.NewCircuitBreakerProvider(provider)
	}

	eng := engine.New(provider, store, logger)
	srv := server.New(eng, server.Config{Port: cfg.ServerPort()}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-errCh:
		if err != nil {
			logger.WithError(err).Error("server stopped")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("graceful shutdown failed")
	}
}
