// cmd/immigria/serve.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"immigria-site/internal/assessment"
	"immigria-site/internal/common/config"
	"immigria-site/internal/common/database"
	sitehttp "immigria-site/internal/common/http"
	"immigria-site/internal/common/logger"
	"immigria-site/internal/common/observability"
	"immigria-site/internal/site"
)

const shutdownGrace = 30 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the site and the ops listener",
	Long: `Run the public site and the health/metrics listener until SIGINT or SIGTERM.

Examples:
  immigria serve
  immigria serve --config configs/config.production.yaml
  APP_ENVIRONMENT=production SESSIONS_BACKEND=redis immigria serve`,
	RunE: runServe,
}

// retryWithBackoff attempts to execute a function with exponential backoff.
// It gives up early when ctx is done.
func retryWithBackoff(ctx context.Context, operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return fmt.Errorf("%s aborted after %d attempts: %w", operationName, i+1, ctx.Err())
			case <-timer.C:
			}
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting site...",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := buildSessionStore(ctx, cfg, zapLog, log)
	if err != nil {
		return err
	}
	defer closeStore()

	st, err := site.New(cfg, store, obs, log)
	if err != nil {
		return err
	}
	srv, submitter := st.Server, st.Submitter
	ops := &http.Server{
		Addr:    cfg.Server.OpsAddr(),
		Handler: st.Ops,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Start)
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		zapLog.Info("Health/Metrics server listening", zap.String("addr", ops.Addr))
		return sitehttp.ListenAndServeUntil(gctx, ops, shutdownGrace)
	})

	err = g.Wait()

	// let in-flight submissions finish so their metrics land
	submitter.Wait()

	if err != nil {
		zapLog.Error("site stopped with error", zap.Error(err))
		return err
	}
	zapLog.Info("Site stopped gracefully")
	return nil
}

// buildSessionStore picks the wizard session backend. The returned func
// releases it.
func buildSessionStore(ctx context.Context, cfg *config.Config, zapLog *zap.Logger, log logger.Logger) (assessment.SessionStore, func(), error) {
	if cfg.Sessions.Backend != config.SessionBackendRedis {
		zapLog.Info("Using in-memory session store", zap.Duration("ttl", cfg.Sessions.TTL()))
		return assessment.NewMemoryStore(cfg.Sessions.TTL()), func() {}, nil
	}

	client := database.NewRedis(cfg.Sessions.Redis)
	err := retryWithBackoff(ctx, func() error {
		return client.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("redis failed after retries: %w", err)
	}
	zapLog.Info("Redis connected successfully", zap.String("address", cfg.Sessions.Redis.Address))

	closeFn := func() {
		if err := client.Close(); err != nil {
			zapLog.Error("Error closing Redis client", zap.Error(err))
		}
	}
	return assessment.NewRedisStore(client.Cmdable(), cfg.Sessions.TTL(), log), closeFn, nil
}
