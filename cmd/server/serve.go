package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Semicile17/Campus-Connect/internal/cache"
	identitygrpc "github.com/Semicile17/Campus-Connect/internal/grpc"
	internalhttp "github.com/Semicile17/Campus-Connect/internal/http"
	"github.com/Semicile17/Campus-Connect/internal/metrics"
)

func serveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP site and the gRPC identity service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}
}

func (a *app) serve(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := a.cfg
	logger := a.logger
	if cfg.JWTSecret == "" {
		logger.Warn("JWT_SECRET is not set; logins will fail and every session is rejected")
	}

	store, closeStore, err := a.openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	if cfg.SeedUsersPath != "" {
		created, err := store.SeedUsersFromFile(ctx, cfg.SeedUsersPath)
		if err != nil {
			return errors.Wrap(err, "seed users")
		}
		logger.Info("seed users loaded", "created", created, "path", cfg.SeedUsersPath)
	}

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := redisClient.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			logger.Warn("redis unavailable, catalog cache disabled", "addr", cfg.RedisAddr, "error", err)
			_ = redisClient.Close()
			redisClient = nil
		} else {
			defer func() {
				if err := redisClient.Close(); err != nil {
					logger.Error("redis close error", "error", err)
				}
			}()
		}
	}

	server, err := internalhttp.NewServer(cfg, store,
		internalhttp.WithLogger(logger),
		internalhttp.WithMetrics(metrics.New()),
		internalhttp.WithCatalog(cache.NewCatalog(redisClient, cfg.CatalogCacheTTL)),
	)
	if err != nil {
		return errors.Wrap(err, "server init failed")
	}
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Info("http listening", "addr", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return errors.Wrap(err, "http server")
		}
		return nil
	})

	if cfg.ServiceAuthToken != "" {
		grpcServer, err := identitygrpc.NewServer(store, server.Issuer(), cfg.ServiceAuthToken, logger)
		if err != nil {
			return errors.Wrap(err, "grpc init failed")
		}
		listener, err := net.Listen("tcp", cfg.GRPCAddr)
		if err != nil {
			return errors.Wrap(err, "grpc listen")
		}
		group.Go(func() error {
			logger.Info("grpc listening", "addr", cfg.GRPCAddr)
			return grpcServer.Serve(listener)
		})
		group.Go(func() error {
			<-gctx.Done()
			grpcServer.GracefulStop()
			return nil
		})
	} else {
		logger.Info("SERVICE_AUTH_TOKEN not set, grpc identity service disabled")
	}

	group.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown error", "error", err)
		}
		return nil
	})

	return group.Wait()
}
