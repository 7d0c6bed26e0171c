package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"dealdesk/api-service/internal/api"
	"dealdesk/api-service/internal/buybox"
	"dealdesk/api-service/internal/config"
	"dealdesk/api-service/internal/contact"
	"dealdesk/api-service/internal/db"
	"dealdesk/api-service/internal/events"
	"dealdesk/api-service/internal/grpcserver"
	"dealdesk/api-service/internal/logging"
	"dealdesk/api-service/internal/matching"
	"dealdesk/api-service/internal/notify"
	"dealdesk/api-service/internal/pipeline"
	"dealdesk/api-service/internal/property"
	"dealdesk/api-service/internal/scheduler"
)

// serveCmd starts the HTTP API, the gRPC health server and the digest cron.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the API server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	// ── Config ──────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// ── PostgreSQL ───────────────────────────────────────────────────────────
	pool, err := db.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	defer pool.Close()
	logger.Info("postgres connected")

	// ── Redis ────────────────────────────────────────────────────────────────
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	defer rdb.Close()
	logger.Info("redis connected")

	// ── Domain wiring ────────────────────────────────────────────────────────
	pub := events.NewRedisPublisher(rdb)
	notes := notify.NewPostgresStore(pool)
	notifier := notify.NewCreator(notes, pub, logger.Named("notify"))

	boxes := buybox.NewPostgresRepository(pool)
	deals := pipeline.NewPostgresRepository(pool)
	matcher := matching.NewMatcher(boxes, boxes, notifier, logger.Named("matching"))
	dealSvc := pipeline.NewService(deals, matcher, notifier, pub, logger.Named("pipeline"))

	// ── HTTP server ──────────────────────────────────────────────────────────
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)
	property.NewHandler(property.NewPostgresRepository(pool), cfg.TenantID).RegisterRoutes(mux)
	buybox.NewHandler(boxes, cfg.TenantID).RegisterRoutes(mux)
	pipeline.NewHandler(dealSvc, deals, cfg.TenantID).RegisterRoutes(mux)
	contact.NewHandler(contact.NewPostgresRepository(pool), notifier, cfg.TenantID).RegisterRoutes(mux)
	notify.NewHandler(notes, notifier, cfg.TenantID).RegisterRoutes(mux)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      api.Logged(logger.Named("http"), mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	grpcSrv := grpcserver.NewServer(map[string]grpcserver.Check{
		"postgres": pool.Ping,
		"redis":    func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
	}, 15*time.Second, logger)

	// ── Digests ──────────────────────────────────────────────────────────────
	var sched *scheduler.Scheduler
	if cfg.DigestsEnabled {
		sched = scheduler.New(boxes, notifier, logger)
		if err := sched.Start(ctx); err != nil {
			return fmt.Errorf("scheduler: %w", err)
		}
	}

	// Both ports are bound before anything serves, so a bind failure leaves
	// nothing running.
	httpLis, grpcLis, err := listen(":"+cfg.Port, ":"+cfg.GRPCPort)
	if err != nil {
		if sched != nil {
			sched.Stop()
		}
		return err
	}

	errCh := make(chan error, 2)
	go func() {
		logger.Info("http listening", zap.String("port", cfg.Port), zap.String("version", version))
		if err := srv.Serve(httpLis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	// ── gRPC health ──────────────────────────────────────────────────────────
	go grpcSrv.Watch(ctx)
	go func() {
		if err := grpcSrv.Serve(grpcLis); err != nil {
			errCh <- fmt.Errorf("grpc server: %w", err)
		}
	}()

	// ── Graceful shutdown ────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case err = <-errCh:
		logger.Error("server failed", zap.Error(err))
	}

	if sched != nil {
		sched.Stop()
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if serr := srv.Shutdown(shutdownCtx); serr != nil {
		logger.Warn("http shutdown error", zap.Error(serr))
	}
	grpcSrv.Stop()
	logger.Info("stopped")
	return err
}

// listen binds the HTTP and gRPC addresses. If the second bind fails the
// first listener is closed again.
func listen(httpAddr, grpcAddr string) (net.Listener, net.Listener, error) {
	httpLis, err := net.Listen("tcp", httpAddr)
	if err != nil {
		return nil, nil, fmt.Errorf("http listen: %w", err)
	}
	grpcLis, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		httpLis.Close()
		return nil, nil, fmt.Errorf("grpc listen: %w", err)
	}
	return httpLis, grpcLis, nil
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"service": serviceName,
		"version": version,
	})
}
