package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/cppla/dollarblog/config"
	"github.com/cppla/dollarblog/models"
	"github.com/cppla/dollarblog/routes"
	"github.com/cppla/dollarblog/services"
	"github.com/cppla/dollarblog/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	logger, err := utils.InitLogger(cfg)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := config.OpenDatabase(cfg, logger, models.All()...)
	if err != nil {
		logger.Fatal("database init failed", zap.String("driver", cfg.DBDriver), zap.Error(err))
	}

	rc := utils.NewRedisClient(cfg)

	var storage utils.CoverStorage
	maxUpload := int64(cfg.MaxUploadMB) << 20
	if cfg.CloudinaryURL != "" {
		storage, err = utils.NewCloudinaryStorage(cfg.CloudinaryURL, "dollarblog/covers", maxUpload)
	} else {
		storage, err = utils.NewLocalStorage(cfg.UploadDir, maxUpload)
	}
	if err != nil {
		logger.Fatal("cover storage init failed", zap.Error(err))
	}

	cache := utils.NewCache(rc, logger)
	r := routes.SetupRouter(routes.Dependencies{
		Config:       cfg,
		DB:           db,
		Logger:       logger,
		AccessLogger: utils.NewRollingFileLogger(cfg, cfg.GinPath),
		Tokens:       utils.NewTokenManager(cfg.JWTSecret, time.Duration(cfg.TokenTTLDays)*24*time.Hour),
		Blacklist:    utils.NewTokenBlacklist(rc),
		Cache:        cache,
		Storage:      storage,
		Gateway:      services.NewStripeGateway(cfg.StripeSecretKey),
	})

	ctx, cancel := context.WithCancel(context.Background())
	reconciled := services.StartCounterReconciler(ctx, services.NewLedger(db, logger), cache, time.Duration(cfg.ReconcileIntervalMin)*time.Minute)

	srv := utils.NewServer(":"+cfg.AppPort, r, logger)
	srv.OnShutdown(func(context.Context) {
		cancel()
		<-reconciled
		if rc != nil {
			_ = rc.Close()
		}
		if err := config.CloseDatabase(db); err != nil {
			logger.Warn("database close failed", zap.Error(err))
		}
	})

	logger.Info("starting server", zap.String("port", cfg.AppPort), zap.String("db", cfg.DBDriver))
	if err := srv.ListenAndServe(); err != nil {
		cancel()
		logger.Fatal("server stopped with error", zap.Error(err))
	}
}
