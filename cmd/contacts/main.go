package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"contacts/internal/avatar"
	"contacts/internal/cache"
	"contacts/internal/config"
	"contacts/internal/mailer"
	"contacts/internal/observability/logging"
	"contacts/internal/observability/metrics"
	impl "contacts/internal/service/impl"
	"contacts/internal/store"
	httpx "contacts/internal/transport/http"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "dev"
	}

	logger := logging.NewLogger(logging.Config{
		ServiceName: "contacts",
		Environment: env,
		Level:       os.Getenv("LOG_LEVEL"),
	})
	slog.SetDefault(logger)

	logger.Info("starting service")

	cfg := config.Load()
	metrics.MustRegister("contacts")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1) Data store + migrations
	st, err := store.Open(cfg.DatabaseURL)
	if err != nil {
		logger.Error("db open", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	if err := st.RunMigrations(ctx); err != nil {
		logger.Error("migrations", "error", err)
		os.Exit(1)
	}

	// 2) User cache: constructed once here, injected below, closed at exit.
	userCache := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisDB)
	defer userCache.Close()

	// 3) Services
	passwords := impl.NewPasswordServiceBcrypt()
	tokens := impl.NewTokenServiceHS256(impl.TokenConfig{
		Secret:     []byte(cfg.JWTSecret),
		AccessTTL:  cfg.AccessTTL,
		ConfirmTTL: cfg.ConfirmTTL,
		ResetTTL:   cfg.ResetTTL,
	})
	emails := mailer.New(mailer.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
		BaseURL:  cfg.BaseURL,
	})
	avatars, err := avatar.NewS3Store(ctx, avatar.Config{
		Endpoint:  cfg.S3Endpoint,
		Region:    cfg.S3Region,
		Bucket:    cfg.S3Bucket,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		PublicURL: cfg.S3PublicURL,
	})
	if err != nil {
		logger.Error("avatar store", "error", err)
		os.Exit(1)
	}

	authSvc := impl.NewAuthServiceImpl(st.Users(), passwords, tokens, emails, userCache)
	contactSvc := impl.NewContactServiceImpl(st.Contacts())
	resolver := impl.NewSessionResolver(tokens, st.Users(), userCache, cfg.UserCacheTTL)

	// 4) HTTP router
	mux := httpx.NewRouter(
		httpx.RouterConfig{CORSOrigins: cfg.CORSOrigins, RateLimit: cfg.RateLimit},
		httpx.NewAuthHandler(authSvc),
		httpx.NewUserHandler(avatars, st.Users()),
		httpx.NewContactHandler(contactSvc),
		resolver,
	)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}
}
