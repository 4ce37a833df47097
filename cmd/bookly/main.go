package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pribylovaa/bookly/internal/auth"
	"github.com/pribylovaa/bookly/internal/cache"
	"github.com/pribylovaa/bookly/internal/config"
	bookhttp "github.com/pribylovaa/bookly/internal/http"
	"github.com/pribylovaa/bookly/internal/mail"
	"github.com/pribylovaa/bookly/internal/metrics"
	logpkg "github.com/pribylovaa/bookly/internal/pkg/log"
	"github.com/pribylovaa/bookly/internal/service"
	"github.com/pribylovaa/bookly/internal/storage"
	"github.com/pribylovaa/bookly/internal/storage/minio"
	"github.com/pribylovaa/bookly/internal/storage/postgres"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to config file (overrides CONFIG_PATH env)")
	flag.Parse()

	cfg := config.MustLoad(configPath)

	log := logpkg.Setup(cfg.Env, cfg.Log)
	slog.SetDefault(log)
	log.Info("starting bookly", "env", cfg.Env)

	rootCtx, rootCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer rootCancel()

	dbCtx, dbCancel := context.WithTimeout(rootCtx, 10*time.Second)
	store, err := postgres.New(dbCtx, cfg.DB.DatabaseURL)
	dbCancel()
	if err != nil {
		log.Error("postgres_connect_failed", slog.String("err", err.Error()))
		rootCancel()
		os.Exit(1)
	}
	defer store.Close()
	log.Info("postgres_connected")

	redisCtx, redisCancel := context.WithTimeout(rootCtx, 5*time.Second)
	rdb, err := cache.NewRedisClient(redisCtx, cfg.Redis.RedisURL)
	redisCancel()
	if err != nil {
		log.Error("redis_connect_failed", slog.String("err", err.Error()))
		store.Close()
		rootCancel()
		os.Exit(1)
	}
	defer func() {
		if cerr := rdb.Close(); cerr != nil {
			log.Warn("redis_close_failed", slog.String("err", cerr.Error()))
		}
	}()
	log.Info("redis_connected")

	// Обложки опциональны: без S3 эндпойнты обложек отвечают 501.
	var covers storage.CoversStorage
	if cfg.S3.Enabled() {
		s3Ctx, s3Cancel := context.WithTimeout(rootCtx, 10*time.Second)
		cs, err := minio.New(s3Ctx, cfg.S3, cfg.Covers)
		s3Cancel()
		if err != nil {
			log.Error("minio_connect_failed", slog.String("err", err.Error()))
			_ = rdb.Close()
			store.Close()
			rootCancel()
			os.Exit(1)
		}
		covers = cs
		log.Info("minio_connected", slog.String("bucket", cfg.S3.Bucket))
	} else {
		log.Info("covers_disabled")
	}

	authn, err := auth.New(cfg.Auth, cache.NewRevocationCache(rdb, cfg.Redis.RevocationPrefix))
	if err != nil {
		log.Error("auth_init_failed", slog.String("err", err.Error()))
		_ = rdb.Close()
		store.Close()
		rootCancel()
		os.Exit(1)
	}

	queue := mail.NewQueue(rdb, cfg.Redis.MailQueue)
	svc := service.New(store, covers, authn, queue, cfg)
	log.Info("service_initialized")

	m, err := metrics.New(prometheus.DefaultRegisterer)
	if err != nil {
		log.Error("metrics_init_failed", slog.String("err", err.Error()))
		_ = rdb.Close()
		store.Close()
		rootCancel()
		os.Exit(1)
	}

	apiHandler := bookhttp.NewRouter(svc, authn, bookhttp.Options{
		Logger:       log,
		Timeout:      cfg.Timeouts.Service,
		BasePath:     cfg.App.APIPrefix,
		TrustedHosts: cfg.HTTP.TrustedHosts,
		CORSOrigins:  cfg.HTTP.CORSOrigins,
		Metrics:      m,
	})

	var ready int32 // 0 — not ready; 1 — ready

	mux := http.NewServeMux()
	mux.HandleFunc("/livez", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if atomic.LoadInt32(&ready) != 1 {
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := store.Ping(ctx); err != nil {
			http.Error(w, "postgres unavailable", http.StatusServiceUnavailable)
			return
		}

		if err := rdb.Ping(ctx).Err(); err != nil {
			http.Error(w, "redis unavailable", http.StatusServiceUnavailable)
			return
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.Handle("/metrics", promhttp.Handler())

	mux.Handle("/", apiHandler)

	httpAddr := cfg.HTTP.Addr()
	httpSrv := &http.Server{
		Addr:              httpAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ln, err := net.Listen("tcp", httpAddr)
	if err != nil {
		log.Error("http_listen_failed", slog.String("addr", httpAddr), slog.String("err", err.Error()))
		_ = rdb.Close()
		store.Close()
		rootCancel()
		os.Exit(1)
	}

	log.Info("http_listen_start", slog.String("addr", httpAddr))

	serveErrCh := make(chan error, 1)
	go func() {
		if err := httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErrCh <- err
		}
		close(serveErrCh)
	}()

	atomic.StoreInt32(&ready, 1)
	log.Info("bookly_ready")

	select {
	case <-rootCtx.Done():
		log.Info("shutdown_requested")
	case err := <-serveErrCh:
		if err != nil {
			log.Error("http_serve_failed", slog.String("err", err.Error()))
		}
	}

	atomic.StoreInt32(&ready, 0)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Timeouts.Shutdown)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http_shutdown_incomplete", slog.String("err", err.Error()))
	} else {
		log.Info("http_stopped")
	}

	log.Info("service_stopped")
}
