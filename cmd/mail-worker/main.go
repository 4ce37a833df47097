package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pribylovaa/bookly/internal/cache"
	"github.com/pribylovaa/bookly/internal/config"
	"github.com/pribylovaa/bookly/internal/mail"
	"github.com/pribylovaa/bookly/internal/metrics"
	logpkg "github.com/pribylovaa/bookly/internal/pkg/log"
)

func main() {
	var (
		configPath  string
		metricsAddr string
	)
	flag.StringVar(&configPath, "config", "", "path to config file (overrides CONFIG_PATH env)")
	flag.StringVar(&metricsAddr, "metrics-addr", ":9101", "listen address for /metrics (empty disables)")
	flag.Parse()

	cfg := config.MustLoad(configPath)

	log := logpkg.Setup(cfg.Env, cfg.Log)
	slog.SetDefault(log)
	log.Info("starting mail-worker", "env", cfg.Env)

	rootCtx, rootCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer rootCancel()

	sender, err := mail.NewSMTPSender(cfg.Mail)
	if err != nil {
		log.Error("smtp_init_failed", slog.String("err", err.Error()))
		rootCancel()
		os.Exit(1)
	}

	redisCtx, redisCancel := context.WithTimeout(rootCtx, 5*time.Second)
	rdb, err := cache.NewRedisClient(redisCtx, cfg.Redis.RedisURL)
	redisCancel()
	if err != nil {
		log.Error("redis_connect_failed", slog.String("err", err.Error()))
		rootCancel()
		os.Exit(1)
	}
	defer func() {
		if cerr := rdb.Close(); cerr != nil {
			log.Warn("redis_close_failed", slog.String("err", cerr.Error()))
		}
	}()
	log.Info("redis_connected")

	m, err := metrics.New(prometheus.DefaultRegisterer)
	if err != nil {
		log.Error("metrics_init_failed", slog.String("err", err.Error()))
		_ = rdb.Close()
		rootCancel()
		os.Exit(1)
	}

	var metricsSrv *http.Server
	if metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsSrv = &http.Server{Addr: metricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

		go func() {
			log.Info("metrics_listen_start", slog.String("addr", metricsAddr))
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("metrics_serve_failed", slog.String("err", err.Error()))
			}
		}()
	}

	worker := mail.NewWorker(
		mail.NewQueue(rdb, cfg.Redis.MailQueue),
		sender,
		cfg.Mail.MaxAttempts,
		mail.WithObserver(m.MailResult),
	)

	if err := worker.Run(logpkg.Into(rootCtx, log)); err != nil {
		log.Error("mail_worker_failed", slog.String("err", err.Error()))
	}

	if metricsSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Timeouts.Shutdown)
		defer cancel()
		_ = metricsSrv.Shutdown(shutdownCtx)
	}

	log.Info("service_stopped")
}
