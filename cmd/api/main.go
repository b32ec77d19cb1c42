package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"facade_backend/internal/controller"
	"facade_backend/internal/model"
	"facade_backend/pkg/cache"
	"facade_backend/pkg/config"
	"facade_backend/pkg/database"
	"facade_backend/pkg/logger"
	"facade_backend/pkg/seed"
	"facade_backend/pkg/utils/cloudflare"
)

func main() {
	cfg := config.Load()
	logger.Init("facade", cfg.LogLevel)

	if cfg.Database.URL == "" {
		logger.Log.Fatal("DATABASE_URL is not set in .env")
	}

	db, err := database.Open(cfg.Database.URL)
	if err != nil {
		logger.Log.WithError(err).Fatal("Could not connect to database")
	}

	err = database.MigrateDatabase(db,
		&model.Building{},
		&model.FacadePoint{},
		&model.Amenity{},
	)
	if err != nil {
		logger.Log.WithError(err).Warn("Migration warning")
	}

	if cfg.SeedDemo {
		if err := seed.SeedDemoBuilding(db); err != nil {
			logger.Log.WithError(err).Error("Could not seed demo building")
		}
	}

	deps := controller.Deps{
		Config:    cfg,
		DB:        db,
		Cache:     cache.Noop{},
		AccessLog: true,
	}

	if cfg.Redis.Addr != "" {
		redisCache := cache.NewRedis(cfg.Redis.Addr, cfg.Redis.Password)
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := redisCache.Ping(ctx); err != nil {
			logger.Log.WithError(err).Warn("Redis unreachable, serving without cache")
			redisCache.Close()
		} else {
			deps.Cache = redisCache
			defer redisCache.Close()
			logger.Log.WithField("addr", cfg.Redis.Addr).Info("Redis cache enabled")
		}
		cancel()
	}

	if cfg.R2.Enabled() {
		r2, err := cloudflare.NewR2(context.Background(), cfg.R2)
		if err != nil {
			logger.Log.WithError(err).Fatal("Could not initialize R2 client")
		}
		deps.Media = r2
		logger.Log.WithField("bucket", cfg.R2.Bucket).Info("Media storage enabled")
	} else {
		logger.Log.Warn("R2_BUCKET_NAME not set, media routes disabled")
	}

	app := controller.NewApp(deps)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		logger.Log.Info("Shutting down server")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.Log.WithError(err).Error("Server shutdown failed")
		}
	}()

	logger.Log.Infof("Server is running on port %s", cfg.Server.Port)
	if err := app.Listen(":" + cfg.Server.Port); err != nil {
		logger.Log.WithError(err).Fatal("Server stopped")
	}
}
