package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/shiwanibaghel76/dairybook/internal/config"
	"github.com/shiwanibaghel76/dairybook/internal/customers"
	"github.com/shiwanibaghel76/dairybook/internal/db"
	"github.com/shiwanibaghel76/dairybook/internal/entries"
	"github.com/shiwanibaghel76/dairybook/internal/metrics"
	"github.com/shiwanibaghel76/dairybook/internal/migrations"
	"github.com/shiwanibaghel76/dairybook/internal/seed"
	"github.com/shiwanibaghel76/dairybook/internal/settings"
	"github.com/shiwanibaghel76/dairybook/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Must(logger.New(cfg.Env))
	defer func() { _ = log.Sync() }()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Fatal("open database", zap.Error(err))
	}
	defer database.Close()

	if cfg.IsDev() {
		if err := migrations.Up(database, "migrations"); err != nil {
			log.Fatal("run migrations", zap.Error(err))
		}
	}

	stats, err := seed.Run(database)
	if err != nil {
		log.Fatal("seed defaults", zap.Error(err))
	}
	if stats.Inserts > 0 {
		log.Info("seeded default settings", zap.Int("inserts", stats.Inserts))
	}

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New()
	}

	srv := &server{
		log:       log.Named("http"),
		settings:  settings.NewRepo(database),
		customers: customers.NewRepo(database),
		entries:   entries.NewRepo(database),
		metrics:   m,
	}

	httpServer := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: srv.routes(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", zap.Error(err))
	}
	log.Info("shutdown complete")
}
