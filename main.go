package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"idl-tracker/config"
	"idl-tracker/logging"
	"idl-tracker/metrics"
	"idl-tracker/packages/core"

	"go.uber.org/zap"
)

// The rating worker: rates newly recorded games on a schedule and optionally
// exposes Prometheus metrics.
func main() {
	cfg := config.MustLoad()
	defer logging.Sync()

	config.ConnectDatabase(cfg)

	recorder := metrics.NewRecorder()
	coreModule := core.NewModule(config.DB, core.Options{
		DefaultElo: cfg.DefaultElo,
		Rounding:   cfg.RatingRounding,
		RatingCron: cfg.RatingCron,
		Metrics:    recorder,
	})

	// Catch up on anything recorded while the worker was down
	coreModule.RunRatingNow()

	if err := coreModule.StartScheduler(); err != nil {
		logging.Fatal("Failed to start scheduler", zap.Error(err))
	}

	var srv *http.Server
	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", recorder.Handler())
		mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
		})

		srv = &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logging.Info("Metrics server starting", zap.String("addr", cfg.MetricsAddr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logging.Error("Metrics server failed", zap.Error(err))
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logging.Info("Shutting down...")
	coreModule.StopScheduler()

	if srv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logging.Error("Metrics server shutdown failed", zap.Error(err))
		}
	}
}
