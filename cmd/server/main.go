// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"certchain/internal/audit"
	"certchain/internal/certificate/handler"
	"certchain/internal/certificate/service"
	"certchain/internal/contentstore/ipfs"
	"certchain/internal/ledger/peercli"
	"certchain/internal/platform/config"
	"certchain/internal/platform/httpserver"
	"certchain/internal/platform/logger"
	"certchain/internal/platform/metrics"
	"certchain/internal/platform/middleware"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()
	m := metrics.New()

	led := peercli.New(cfg.Ledger, log)
	store := ipfs.New(cfg.IPFSAPIAddr, cfg.StoreTimeout)
	auditLog := audit.NewPublisher(audit.NewInMemoryStore())
	svc := service.New(led, store, auditLog, cfg, log, m)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Logger(log))
	r.Use(chimw.Timeout(60 * time.Second))
	handler.New(svc, log, cfg.MaxUploadBytes).Register(r)
	r.Handle("/metrics", promhttp.Handler())

	srv := httpserver.New(cfg.Addr, r)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connectivity probe; the server still starts when the ledger is down so
	// the status endpoint can report the outage.
	probeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	if err := svc.Ping(probeCtx); err != nil {
		log.Warn("ledger connectivity check failed at startup", "error", err)
	} else {
		log.Info("ledger connection successful")
	}
	cancel()

	log.Info("starting certchain",
		"addr", cfg.Addr,
		"public_url", cfg.PublicBaseURL,
		"ipfs_gateway", cfg.GatewayBaseURL,
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
	}
}
