package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	httpctx "github.com/dtroode/cride-server/internal/api/http/context"
	"github.com/dtroode/cride-server/internal/api/http/router"
	httpServer "github.com/dtroode/cride-server/internal/api/http/server"
	"github.com/dtroode/cride-server/internal/config"
	"github.com/dtroode/cride-server/internal/logger"
	"github.com/dtroode/cride-server/internal/mail"
	"github.com/dtroode/cride-server/internal/model"
	"github.com/dtroode/cride-server/internal/repository/postgres"
	"github.com/dtroode/cride-server/internal/repository/redis"
	"github.com/dtroode/cride-server/internal/server"
	"github.com/dtroode/cride-server/internal/service"
	storage "github.com/dtroode/cride-server/internal/storage/minio"
	"github.com/dtroode/cride-server/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	// .env is optional; real environment variables take precedence.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("failed to load .env: %v", err)
	}

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	logAppVersion()

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer db.Close()

	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Fatal("failed to connect to redis", "error", err)
	}

	minioClient, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
		Secure: cfg.Storage.UseSSL,
	})
	if err != nil {
		logger.Fatal("failed to create minio client", "error", err)
	}
	storageClient, err := storage.NewClient(ctx, minioClient, cfg.Storage.Bucket)
	if err != nil {
		logger.Fatal("failed to initialize storage client", "error", err)
	}

	renderer, err := mail.NewRenderer(cfg.Mail.VerifyURL, cfg.JWT.VerificationTTL)
	if err != nil {
		logger.Fatal("failed to load email templates", "error", err)
	}
	mailer, err := mail.NewSMTP(mail.SMTPConfig{
		Host:     cfg.Mail.Host,
		Port:     cfg.Mail.Port,
		Username: cfg.Mail.Username,
		Password: cfg.Mail.Password,
		UseTLS:   cfg.Mail.UseTLS,
		From:     cfg.Mail.From,
	})
	if err != nil {
		logger.Fatal("failed to initialize mailer", "error", err)
	}

	accountRepo := postgres.NewAccountRepository(db)
	profileRepo := postgres.NewProfileRepository(db)
	sessionTokenRepo := postgres.NewSessionTokenRepository(db)
	queue := redis.NewNotificationQueue(rdb)
	tokenManager := token.NewJWT(cfg.JWT.Secret, cfg.JWT.VerificationTTL)

	notifier := service.NewNotifier(tokenManager, renderer, mailer, queue, cfg.Mail.SendTimeout, logger.With("component", "notifier"))
	authService := service.NewAuth(accountRepo, sessionTokenRepo, tokenManager, notifier, logger.With("component", "auth"),
		service.WithPasswordSimilarityCheck(cfg.Password.CheckSimilarity))
	profileService := service.NewProfile(accountRepo, profileRepo, storageClient, logger.With("component", "profile"))
	resender := service.NewResender(accountRepo, queue, notifier, cfg.Mail.MaxRetries, logger.With("component", "resender"))

	r := router.New(authService, profileService, db, httpctx.NewManager(), cfg.HTTP.AllowOrigins, logger.With("component", "http"))
	srv := httpServer.NewHTTPServer(r.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port), httpServer.Timeouts{
		Read:  cfg.HTTP.ReadTimeout,
		Write: cfg.HTTP.WriteTimeout,
		Idle:  cfg.HTTP.IdleTimeout,
	})

	var sl model.SecurityLayer
	if cfg.HTTP.EnableHTTPS {
		sl = server.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting server on", "address", srv.Address())
		return srv.Start(sl)
	})

	g.Go(func() error {
		return resender.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Stop(shutdownCtx); err != nil {
			return fmt.Errorf("error during server shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("server stopped with error", "error", err)
	}
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
