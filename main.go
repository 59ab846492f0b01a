package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"sensor-analytics-api/analytics"
	"sensor-analytics-api/broadcast"
	"sensor-analytics-api/config"
	"sensor-analytics-api/handlers"

	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("err", err))
		os.Exit(1)
	}

	level, _ := config.ParseLevel(cfg.Log.Level)
	logger := slog.New(tint.NewHandler(os.Stdout, &tint.Options{Level: level}))
	slog.SetDefault(logger)

	// Рассылка снимков в Redis включается только при заданном адресе
	var publisher broadcast.Publisher = broadcast.Nop{}
	if cfg.Redis.Addr != "" {
		rp, err := broadcast.NewRedisPublisher(context.Background(), cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.Channel, cfg.Redis.PublishTimeout)
		if err != nil {
			logger.Error("failed to connect to Redis", slog.String("addr", cfg.Redis.Addr), slog.Any("err", err))
			os.Exit(1)
		}
		publisher = rp
		logger.Info("broadcasting snapshots", slog.String("addr", cfg.Redis.Addr), slog.String("channel", rp.Channel()))
	}
	defer publisher.Close()

	// Prometheus метрики
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := handlers.NewMetrics(reg)

	engine := analytics.NewAnalyticsEngine(analytics.NewGenerator(), cfg.Analytics.RecordCount, logger, metrics.ObserveGenerated)

	router := handlers.NewRouter(handlers.RouterOptions{
		Greeting:       cfg.Greeting,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Analytics:      handlers.NewAnalyticsHandler(engine, publisher, metrics, logger),
		Gatherer:       reg,
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:           cfg.Server.Addr,
		Handler:        router,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	// Graceful shutdown
	go func() {
		logger.Info("server starting", slog.String("addr", cfg.Server.Addr), slog.Int("record_count", cfg.Analytics.RecordCount))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed to start", slog.Any("err", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", slog.Any("err", err))
		return
	}

	logger.Info("server exited")
}
