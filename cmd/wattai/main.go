package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wattai/wattai/internal/cache"
	"github.com/wattai/wattai/internal/catalog"
	"github.com/wattai/wattai/internal/config"
	"github.com/wattai/wattai/internal/costmodel"
	"github.com/wattai/wattai/internal/metrics"
	"github.com/wattai/wattai/internal/server"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if os.Getenv("WATTAI_PPROF") == "1" {
		go func() {
			logger.Info("pprof enabled on :6060")
			if err := http.ListenAndServe(":6060", nil); err != nil {
				logger.Error("pprof server error", "error", err)
			}
		}()
	}

	configPath := "config/config.yaml"
	if p := os.Getenv("WATTAI_CONFIG"); p != "" {
		configPath = p
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	var cat *catalog.Catalog
	if cfg.Catalog.File != "" {
		cat, err = catalog.Load(cfg.Catalog.File)
		if err != nil {
			logger.Error("failed to load catalog", "error", err)
			os.Exit(1)
		}
		logger.Info("loaded catalog", "file", cfg.Catalog.File, "gpus", cat.Len())
	} else {
		cat = catalog.Builtin()
		logger.Info("using builtin catalog", "gpus", cat.Len())
	}
	metrics.CatalogSize.Set(float64(cat.Len()))
	if cat.Len() == 0 {
		logger.Warn("catalog is empty, every estimate will fail until one is configured")
	}

	costModel := costmodel.New(cat)

	var resultCache *cache.ResultCache
	if cfg.Cache.Enabled {
		resultCache = cache.New(cfg.Cache.TTL, cfg.Cache.MaxEntries)
		logger.Info("cheapest-option cache enabled", "ttl", cfg.Cache.TTL, "max_entries", cfg.Cache.MaxEntries)
	}

	handler := server.NewHandler(cat, costModel, resultCache, cfg.Defaults, logger)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	mux.HandleFunc("POST /admin/cache/clear", func(w http.ResponseWriter, r *http.Request) {
		if resultCache != nil {
			resultCache.Clear()
		}
		logger.Info("cheapest-option cache cleared via admin endpoint")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	wrapped := server.Chain(mux,
		server.RequestID,
		server.Logger(logger),
		server.Recovery(logger),
		server.CORS,
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           wrapped,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("starting wattai", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}
	logger.Info("server stopped")
}
