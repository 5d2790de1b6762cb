package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"inventory/internal/auth"
	"inventory/internal/cache"
	"inventory/internal/config"
	"inventory/internal/database"
	"inventory/internal/handlers"
	"inventory/internal/middleware"
	"inventory/internal/repository"
	"inventory/internal/routes"
	"inventory/internal/service"
	"inventory/internal/upload"
	"inventory/internal/web"
)

// memoryURIPrefix arranca la app sin MongoDB, con datos en memoria
const memoryURIPrefix = "memory://"

func main() {
	cfg := config.LoadConfig()

	logger, err := newLogger(cfg)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		repo   repository.ProductRepository
		pinger handlers.Pinger
	)
	if strings.HasPrefix(cfg.MongoURI, memoryURIPrefix) {
		logger.Warn("⚠️ Using in-memory storage; data is lost on restart")
		repo = repository.NewMemoryProductRepository()
	} else {
		db, err := database.Connect(ctx, cfg.MongoURI, cfg.MongoDB, logger)
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := db.Disconnect(shutdownCtx); err != nil {
				logger.Error("failed to disconnect from MongoDB", zap.Error(err))
			}
		}()

		mongoRepo := repository.NewMongoProductRepository(db.Products())
		if err := mongoRepo.EnsureIndexes(ctx); err != nil {
			return err
		}
		repo = mongoRepo
		pinger = db
	}

	productCache := cache.New(5*time.Minute, time.Minute)
	defer productCache.Close()

	if !cfg.AuthEnabled() {
		logger.Warn("⚠️ APP_PIN is not set; every page and API is open to anyone")
	}
	sessions := auth.NewSessions(cfg.AppPIN, cfg.SessionSecret, cfg.CookieSecure)

	loginLimiter := middleware.NewLoginRateLimiter()
	go loginLimiter.Run(ctx.Done())

	uploads := upload.NewClient(cfg.CloudinaryCloudName, cfg.CloudinaryUploadPreset)
	if !uploads.Enabled() {
		logger.Info("image uploads disabled; set CLOUDINARY_CLOUD_NAME and CLOUDINARY_UPLOAD_PRESET to enable")
	}

	templates, err := web.Templates()
	if err != nil {
		return err
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	routes.RegisterRoutes(router, routes.Dependencies{
		Service:      service.NewProductService(repo, productCache, logger),
		Sessions:     sessions,
		Uploads:      uploads,
		LoginLimiter: loginLimiter,
		Health:       pinger,
		Templates:    templates,
		Web: web.Options{
			SiteURL:        cfg.SiteURL,
			DashboardLimit: cfg.DashboardLimit,
		},
		Logger: logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("🚀 Server running",
			zap.String("port", cfg.Port),
			zap.String("env", cfg.Env),
			zap.String("site_url", cfg.SiteURL),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("🛑 Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logger.Info("✅ Server exited")
	return nil
}
