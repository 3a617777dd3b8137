package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"post-board/internal/auth"
	"post-board/internal/config"
	apphttp "post-board/internal/http"
	"post-board/internal/repository/sqlite"
	"post-board/internal/service"
	"post-board/internal/storage"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	defer db.Close()

	postRepo := sqlite.NewPostRepository(db)
	if err := postRepo.Init(ctx); err != nil {
		logger.Fatalf("init post repository: %v", err)
	}

	uow := sqlite.NewUnitOfWork(db)
	postService := service.NewPostService(uow)

	handler := apphttp.NewHandler(postService, buildVerifier(cfg, logger))

	if cfg.Auth.Mode == config.AuthModeLocal {
		userRepo := sqlite.NewUserRepository(db)
		if err := userRepo.Init(ctx); err != nil {
			logger.Fatalf("init user repository: %v", err)
		}
		userService := service.NewUserService(userRepo, cfg.Auth.RegisterPassword)
		issuer := auth.NewLocalIssuer(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute)
		handler = handler.WithLocalAuth(userService, issuer)
	}

	if cfg.Storage.Bucket != "" {
		storageSvc, err := buildStorage(ctx, cfg, logger)
		if err != nil {
			logger.Fatalf("setup storage: %v", err)
		}
		handler = handler.WithStorage(storageSvc, cfg.Storage.Bucket, cfg.Storage.KeyPrefix)
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
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

	logger.Info("bye")
}

func buildVerifier(cfg config.Config, logger *logrus.Logger) auth.Verifier {
	switch cfg.Auth.Mode {
	case config.AuthModeRemote:
		if cfg.Auth.Domain == "" || cfg.Auth.Audience == "" {
			logger.Fatalf("auth domain and audience are required in remote mode")
		}
		logger.Infof("verifying tokens against %s", cfg.Auth.Domain)
		return auth.NewJWKSVerifier(strings.TrimSuffix(cfg.Auth.Domain, "/"), cfg.Auth.Audience)
	default:
		if strings.TrimSpace(cfg.Auth.JWTSecret) == "" {
			logger.Fatalf("auth jwt secret is required in local mode")
		}
		if strings.TrimSpace(cfg.Auth.RegisterPassword) == "" {
			logger.Fatalf("auth registration password is required in local mode")
		}
		return auth.NewLocalVerifier(cfg.Auth.JWTSecret)
	}
}

func buildStorage(ctx context.Context, cfg config.Config, logger *logrus.Logger) (storage.Service, error) {
	loadOpts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(cfg.Storage.Region),
	}
	if cfg.AWS.Profile != "" {
		loadOpts = append(loadOpts, awscfg.WithSharedConfigProfile(cfg.AWS.Profile))
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Storage.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Storage.Endpoint)
			o.UsePathStyle = true
		}
	})
	logger.Infof("using s3 bucket %s (region %s)", cfg.Storage.Bucket, cfg.Storage.Region)
	return storage.NewS3Service(client), nil
}
