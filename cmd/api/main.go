package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/marketzone/marketzone-backend/internal/config"
	"github.com/marketzone/marketzone-backend/internal/handler"
	"github.com/marketzone/marketzone-backend/internal/migration"
	"github.com/marketzone/marketzone-backend/internal/repository"
	"github.com/marketzone/marketzone-backend/internal/routes"
	"github.com/marketzone/marketzone-backend/internal/service"
	"github.com/marketzone/marketzone-backend/internal/ws"
	pkgjwt "github.com/marketzone/marketzone-backend/pkg/jwt"
	pkglogger "github.com/marketzone/marketzone-backend/pkg/logger"
	pkgredis "github.com/marketzone/marketzone-backend/pkg/redis"
	pkgstorage "github.com/marketzone/marketzone-backend/pkg/storage"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// getConfigPath returns config file path based on APP_ENV environment variable
func getConfigPath() string {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf("configs/config.%s.yaml", env)
}

func main() {
	config.LoadDotEnv()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	pkglogger.Init(env)
	logg := pkglogger.GetLogger()

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config from %s: %v", configPath, err)
	}
	logg.Info().Str("env", env).Str("config", configPath).Msg("configuration loaded")

	// MySQL
	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := migration.Run(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	logg.Info().Str("host", cfg.Database.Host).Msg("connected to MySQL")

	// Redis (optional; without it room broadcasts stay instance-local)
	redisClient, err := pkgredis.NewClient(
		cfg.Redis.Host,
		cfg.Redis.Port,
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.Redis.PoolSize,
	)
	if err != nil {
		logg.Warn().Err(err).Msg("Redis unavailable, chat fan-out limited to this instance")
		redisClient = nil
	} else {
		logg.Info().Str("host", cfg.Redis.Host).Msg("connected to Redis")
	}

	// Object storage
	s3Client, err := pkgstorage.NewS3Client(pkgstorage.S3Config{
		Endpoint:        cfg.Storage.Endpoint,
		Region:          cfg.Storage.Region,
		AccessKeyID:     cfg.Storage.AccessKeyID,
		SecretAccessKey: cfg.Storage.SecretAccessKey,
		Bucket:          cfg.Storage.Bucket,
		CDNURL:          cfg.Storage.CDNURL,
		BasePath:        cfg.Storage.BasePath,
		ForcePathStyle:  cfg.Storage.ForcePathStyle,
	})
	if err != nil {
		log.Fatalf("Failed to initialize object storage: %v", err)
	}

	// Repositories
	messageRepo := repository.NewMessageRepository(db)
	adRepo := repository.NewAdRepository(db)
	userRepo := repository.NewUserRepository(db)

	// Services
	chatService := service.NewChatService(messageRepo, adRepo, userRepo)
	imageService := service.NewImageService(s3Client)

	// Live delivery channel
	hub := ws.NewHub(redisClient)
	go hub.Run()

	// Auth
	jwtManager := pkgjwt.NewManager(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)

	// Handlers
	chatHandler := handler.NewChatHandler(chatService, imageService)
	wsHandler := handler.NewWSHandler(hub, chatService, cfg.CORS.AllowedOrigins)

	if env != "local" && env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	routes.Setup(router, chatHandler, wsHandler, jwtManager, cfg)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logg.Info().Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logg.Info().Msg("shutting down")

	hub.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logg.Error().Err(err).Msg("forced shutdown")
	}
}

func initDB(cfg *config.Config) (*gorm.DB, error) {
	return gorm.Open(mysql.Open(cfg.Database.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
}
