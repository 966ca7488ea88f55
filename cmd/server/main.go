package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ErlanBelekov/passauth/config"
	"github.com/ErlanBelekov/passauth/internal/email"
	"github.com/ErlanBelekov/passauth/internal/health"
	"github.com/ErlanBelekov/passauth/internal/infrastructure/postgres"
	ctxlog "github.com/ErlanBelekov/passauth/internal/log"
	"github.com/ErlanBelekov/passauth/internal/metrics"
	"github.com/ErlanBelekov/passauth/internal/password"
	"github.com/ErlanBelekov/passauth/internal/stats"
	"github.com/ErlanBelekov/passauth/internal/token"
	httptransport "github.com/ErlanBelekov/passauth/internal/transport/http"
	"github.com/ErlanBelekov/passauth/internal/transport/http/handler"
	"github.com/ErlanBelekov/passauth/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := newLogger(cfg.Env, cfg.SlogLevel())

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		stop()
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool, "up"); err != nil {
		stop()
		log.Fatalf("migrate: %v", err)
	}

	// Auth
	userRepo := postgres.NewUserRepository(pool)
	authUsecase := usecase.NewAuthUsecase(
		userRepo,
		password.NewBcryptHasher(cfg.BcryptCost),
		token.NewService([]byte(cfg.JWTSecret)),
		usecase.AuthOptions{
			LoginTokenTTL: cfg.TokenTTL,
			ResetTokenTTL: cfg.ResetTokenTTL,
			ResetLinkBase: cfg.ResetLinkBase,
		},
	)
	mailer := email.NewSender(cfg.Env, cfg.ResendAPIKey, cfg.ResendFrom, logger)
	authHandler := handler.NewAuthHandler(authUsecase, mailer, logger)

	metrics.Register()
	checker := health.NewChecker(pool, logger, prometheus.DefaultRegisterer).
		WithDependency("users_table", health.PingFunc(func(ctx context.Context) error {
			_, err := userRepo.Count(ctx)
			return err
		}))

	reporter, err := stats.NewReporter(userRepo, metrics.UsersRegistered, cfg.UserStatsCron, logger)
	if err != nil {
		stop()
		log.Fatalf("stats: %v", err)
	}
	go reporter.Start(ctx)

	srv := http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httptransport.NewRouter(logger, authHandler, authUsecase),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)

	go func() {
		logger.Info("server started", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}
}

func newLogger(env string, level slog.Level) *slog.Logger {
	var inner slog.Handler
	if env == "local" {
		inner = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		inner = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}
	return slog.New(ctxlog.NewContextHandler(inner))
}
