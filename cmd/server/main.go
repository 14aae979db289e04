package main

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"

	"couple-scheduler/internal/auth"
	"couple-scheduler/internal/cache"
	"couple-scheduler/internal/config"
	"couple-scheduler/internal/handler"
	"couple-scheduler/internal/logger"
	"couple-scheduler/internal/middleware"
	"couple-scheduler/internal/realtime"
	"couple-scheduler/internal/service"
	"couple-scheduler/internal/store"
	"couple-scheduler/internal/store/memstore"
	"couple-scheduler/internal/stream"
)

type backend interface {
	service.UserStore
	service.AppointmentStore
	handler.Pinger
}

func main() {
	log, err := logger.New(logger.ConfigFromEnv())
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	if err := run(log); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}

func run(log *zap.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// storage
	var st backend
	if cfg.DatabaseURL == "" {
		log.Warn("DATABASE_URL not set, using in-memory store")
		st = memstore.New()
	} else {
		pool, err := store.Connect(ctx, cfg.DatabaseURL, log)
		if err != nil {
			return err
		}
		defer pool.Close()
		if err := store.Migrate(ctx, pool, log); err != nil {
			return err
		}
		st = store.New(pool)
	}

	var profiles cache.Cache
	if cfg.RedisURL != "" {
		c, err := cache.NewRedisCache(ctx, cfg.RedisURL)
		if err != nil {
			log.Warn("redis unavailable, continuing without cache", zap.Error(err))
		} else {
			profiles = c
			if cl, ok := c.(io.Closer); ok {
				defer cl.Close()
			}
		}
	}

	tokens := auth.NewTokens(cfg.JWTSecret, cfg.JWTTTL)
	dir := realtime.NewDirectory()
	ids := service.NewIdentity(st, tokens, profiles, cfg.CacheTTL, log)
	appts := service.NewAppointments(st, ids, realtime.NewDispatcher(dir, log),
		service.Config{NotifyUnchangedStatus: cfg.NotifyUnchangedStatus}, log)

	authLimit := middleware.NewRateLimiter(cfg.RateLimitAuthRPS, cfg.RateLimitAuthBurst)
	defer authLimit.Stop()
	streamLimit := middleware.NewRateLimiter(cfg.RateLimitAuthRPS, cfg.RateLimitAuthBurst)
	defer streamLimit.Stop()

	// http gateway
	h := handler.New(ids, appts, tokens, dir, st, handler.Config{OutboxSize: cfg.OutboxSize}, log)
	httpSrv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           h.Router(authLimit),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// grpc events stream
	grpcSrv := grpc.NewServer(grpc.ChainStreamInterceptor(
		middleware.StreamLogger(log),
		middleware.StreamRateLimit(streamLimit),
	))
	stream.Register(grpcSrv, stream.NewServer(dir, tokens, cfg.OutboxSize, log))

	lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
	if err != nil {
		return err
	}

	errCh := make(chan error, 2)
	go func() {
		log.Info("grpc listening", zap.String("addr", lis.Addr().String()))
		if err := grpcSrv.Serve(lis); err != nil {
			errCh <- err
		}
	}()
	go func() {
		log.Info("http listening", zap.String("addr", httpSrv.Addr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case err := <-errCh:
		log.Error("listener failed", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http shutdown", zap.Error(err))
	}

	// open event streams never finish on their own
	done := make(chan struct{})
	go func() {
		grpcSrv.GracefulStop()
		close(done)
	}()
	select {
	case <-done:
	case <-shutdownCtx.Done():
		grpcSrv.Stop()
	}
	return nil
}
