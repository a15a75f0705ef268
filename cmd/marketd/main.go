// Command marketd starts the in-memory marketplace API for local
// development and demos. State lives only in process memory.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/vlasovmk/marketctl/internal/stubapi"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	jwtKey := flag.String("jwt-key", "", "HS256 signing key (required)")
	seed := flag.Bool("seed", false, "seed demo account and listings")
	flag.Parse()

	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()
	logger.Info("starting",
		zap.String("version", version),
		zap.String("buildDate", buildDate),
		zap.String("addr", *addr),
	)

	if *jwtKey == "" {
		logger.Fatal("missing jwt signing key (--jwt-key)")
	}

	srv := stubapi.New([]byte(*jwtKey), logger)
	if *seed {
		if err := srv.Seed(); err != nil {
			logger.Fatal("seeding store", zap.Error(err))
		}
		logger.Info("seeded demo data (demo@example.com / demo1234)")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hs := &http.Server{
		Addr:              *addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", *addr))
		errCh <- hs.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := hs.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", zap.Error(err))
		}
		logger.Info("stopped")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("serve", zap.Error(err))
		}
	}
}
