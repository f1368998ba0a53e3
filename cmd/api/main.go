package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"lessons-api/internal/config"
	"lessons-api/internal/db"
	"lessons-api/internal/email"
	apihttp "lessons-api/internal/http"
	"lessons-api/internal/repository"
	"lessons-api/internal/service"
	"lessons-api/internal/ws"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	userRepo := repository.NewPgUserRepository(pool)
	lessonRepo := repository.NewPgLessonRepository(pool)
	projectRepo := repository.NewPgProjectRepository(pool)
	subCategoryRepo := repository.NewPgSubCategoryRepository(pool)
	documentRepo := repository.NewPgDocumentRepository(pool)
	auditLogRepo := repository.NewPgAuditLogRepository(pool)
	messageRepo := repository.NewPgMessageRepository(pool)

	notifier := email.NewDisabledSender("email sender not configured")
	if cfg.SMTPHost != "" {
		sender, err := email.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.SMTPFromName, cfg.SMTPUseTLS)
		if err != nil {
			logger.Warn("smtp sender init failed", zap.Error(err))
		} else {
			notifier = sender
		}
	}

	var (
		loginLimiter service.LoginRateLimiter
		tokenStore   service.RefreshTokenStore
		redisClient  *redis.Client
	)
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			loginLimiter = service.NewRedisLoginRateLimiter(redisClient, 10*time.Minute, 10)
			tokenStore = service.NewRedisRefreshTokenStore(redisClient)
		}
		cancel()
	}

	jwtSvc := service.NewJWTServiceWithStore(
		cfg.JWTSecret,
		time.Duration(cfg.JWTAccessTTLMinutes)*time.Minute,
		time.Duration(cfg.JWTRefreshTTLMinutes)*time.Minute,
		tokenStore,
	)
	if cfg.JWTSecret == "" {
		logger.Warn("jwt secret not configured")
	}

	userSvc := service.NewUserService(logger, userRepo, loginLimiter)

	// El registry vive una sola vez por proceso y se inyecta donde haga falta.
	registry := ws.NewRegistry()
	dispatcher := ws.NewDispatcher(logger, messageRepo, userRepo, registry, notifier)

	userHandler := apihttp.NewUserHandler(logger, userSvc, jwtSvc)
	lessonHandler := apihttp.NewLessonHandler(logger, lessonRepo, auditLogRepo)
	projectHandler := apihttp.NewProjectHandler(logger, projectRepo)
	subCategoryHandler := apihttp.NewSubCategoryHandler(logger, subCategoryRepo)
	documentHandler := apihttp.NewDocumentHandler(logger, documentRepo)
	auditLogHandler := apihttp.NewAuditLogHandler(logger, auditLogRepo)
	messageHandler := apihttp.NewMessageHandler(logger, dispatcher)
	wsHandler := apihttp.NewWSHandler(logger, jwtSvc, registry, dispatcher)

	router := apihttp.NewRouter(
		logger,
		apihttp.JWTAuthMiddleware(jwtSvc),
		userHandler,
		lessonHandler,
		projectHandler,
		subCategoryHandler,
		documentHandler,
		auditLogHandler,
		messageHandler,
		wsHandler,
	)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
