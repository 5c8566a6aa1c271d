package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/Adda-Baaj/unit-service/internal/config"
	"github.com/Adda-Baaj/unit-service/internal/converter"
	"github.com/Adda-Baaj/unit-service/internal/logger"
	"github.com/Adda-Baaj/unit-service/internal/metrics"
	"github.com/Adda-Baaj/unit-service/internal/server"
	"github.com/Adda-Baaj/unit-service/internal/storage"
	"github.com/Adda-Baaj/unit-service/internal/tracing"
)

// Version is reported to the tracing backend.
var Version = "dev"

// Service is the unit conversion HTTP runtime. It owns the storage backend and
// tracer provider and releases both when Run returns.
type Service struct {
	cfg      *config.Config
	log      logger.Logger
	store    storage.Store
	shutdown tracing.ShutdownFunc
	srv      *server.Server
}

// NewService builds the conversion service from config.
func NewService(ctx context.Context, cfg *config.Config, log logger.Logger) (*Service, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	log = logger.Ensure(log)
	if ctx == nil {
		ctx = context.Background()
	}

	shutdown, err := tracing.Init(cfg.AppName, Version, cfg.ZipkinURL)
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storage.Options{
		EntryTTL:        cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	})
	if err != nil {
		_ = shutdown(ctx)
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"entry_ttl_seconds":        int(cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New()
	}

	srv := server.New(converter.New(), store, log, server.Options{
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		Metrics:            m,
	})

	return &Service{
		cfg:      cfg,
		log:      log,
		store:    store,
		shutdown: shutdown,
		srv:      srv,
	}, nil
}

// Handler exposes the wrapped HTTP handler.
func (s *Service) Handler() http.Handler {
	return s.srv.Handler()
}

// Run listens on the configured address until ctx is cancelled, then drains
// in-flight requests within the shutdown timeout.
func (s *Service) Run(ctx context.Context) error {
	if s == nil || s.srv == nil {
		return fmt.Errorf("service is not initialized")
	}
	defer s.release()

	ln, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.ListenAddr, err)
	}
	return s.serve(ctx, ln)
}

func (s *Service) serve(ctx context.Context, ln net.Listener) error {
	httpSrv := &http.Server{
		Handler:           s.srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpSrv.Serve(ln)
	}()

	s.log.InfoObj("unit service listening", "server_state", map[string]any{
		"addr":                  ln.Addr().String(),
		"rate_limit_per_minute": s.cfg.RateLimitPerMinute,
		"metrics_enabled":       s.cfg.MetricsEnabled,
	})

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	s.log.InfoObj("unit service shutting down", "reason", ctx.Err().Error())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

// release closes the store and flushes the tracer, logging failures.
func (s *Service) release() {
	if err := s.store.Close(); err != nil {
		s.log.ErrorObj("storage close failed", "error", err.Error())
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := s.shutdown(ctx); err != nil {
		s.log.ErrorObj("tracer shutdown failed", "error", err.Error())
	}
}
