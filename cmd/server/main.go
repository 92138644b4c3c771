package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"writers-api/internal/auth"
	"writers-api/internal/config"
	apphttp "writers-api/internal/http"
	"writers-api/internal/metrics"
	"writers-api/internal/notify"
	"writers-api/internal/repository/sqlite"
	"writers-api/internal/service"
	"writers-api/internal/throttle"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	configureLogger(logger, cfg)

	if err := cfg.Validate(); err != nil {
		logger.Fatalf("invalid config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	defer db.Close()

	applied, err := sqlite.Migrate(ctx, db)
	if err != nil {
		logger.Fatalf("migrate database: %v", err)
	}
	logger.WithField("applied", applied).Info("database migrations up to date")

	m := metrics.New()
	signer := auth.NewURLSigner(cfg.Auth.SigningKey, cfg.Auth.VerificationTTL)
	tokens := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	mailer := service.NewVerificationMailer(signer, buildNotifier(cfg, logger), cfg.Server.BaseURL, logger)
	mailer.OnResult(m.NotificationSent)

	limiter, closeLimiter := buildLimiter(ctx, cfg, logger)
	defer closeLimiter()

	userService := service.NewUserService(
		sqlite.NewUserRepository(db),
		mailer,
		service.WithResendLimiter(limiter),
	)
	articleService := service.NewArticleService(sqlite.NewArticleRepository(db), logger)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	apphttp.NewHandler(apphttp.Dependencies{
		Users:    userService,
		Articles: articleService,
		Tokens:   tokens,
		Signer:   signer,
		DB:       db,
		Metrics:  m,
		Logger:   logger,
	}).RegisterRoutes(router)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}
	if err := mailer.WaitContext(shutdownCtx); err != nil {
		logger.Warnf("verification mail still sending: %v", err)
	}

	logger.Info("bye")
}

func configureLogger(logger *logrus.Logger, cfg config.Config) {
	if cfg.Log.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.Warnf("unknown log level %q, using info", cfg.Log.Level)
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
}

func buildNotifier(cfg config.Config, logger *logrus.Logger) notify.Notifier {
	if !cfg.MailConfigured() {
		logger.Warn("smtp not configured, verification links will be logged")
		return notify.NewLogNotifier(logger)
	}
	logger.Infof("sending verification mail via %s:%d", cfg.Mail.Host, cfg.Mail.Port)
	return notify.NewEmailNotifier(notify.SMTPConfig{
		Host:     cfg.Mail.Host,
		Port:     cfg.Mail.Port,
		Username: cfg.Mail.Username,
		Password: cfg.Mail.Password,
		From:     cfg.Mail.From,
	}, logger)
}

func buildLimiter(ctx context.Context, cfg config.Config, logger *logrus.Logger) (throttle.Limiter, func()) {
	if cfg.Redis.Addr == "" {
		return throttle.Nop{}, func() {}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		logger.Fatalf("connect redis: %v", err)
	}
	logger.Infof("throttling verification resends via redis %s", cfg.Redis.Addr)
	return throttle.NewRedisLimiter(rdb, cfg.Redis.ResendWindow), func() { _ = rdb.Close() }
}
