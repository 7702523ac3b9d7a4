package cmd

import (
	"context"

	"rule-one/config"
	"rule-one/internal/delivery/http"
	"rule-one/pkg/cache"
	"rule-one/pkg/logger"
	"rule-one/pkg/postgres"
	"rule-one/pkg/ratelimit"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

type AppDependency struct {
	db        *postgres.DB
	cfg       *config.Config
	log       *logger.Logger
	validator *goValidator.Validate
	echo      *echo.Echo
	cache     cache.Cache
	limiters  *ratelimit.LimiterStore
}

func NewAppDependency(ctx context.Context) (*AppDependency, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Encoding)
	if err != nil {
		return nil, err
	}

	db, err := postgres.NewDB(cfg.DB, log)
	if err != nil {
		log.Error("Failed to connect to database", logger.ErrorField(err))
		return nil, err
	}

	return &AppDependency{
		cfg:       cfg,
		log:       log,
		validator: http.NewValidator(),
		db:        db,
		echo:      echo.New(),
		cache:     cache.NewCache(cfg.Cache.DefaultExpiration, cfg.Cache.CleanupInterval),
		limiters:  ratelimit.NewLimiterStore(rate.Inf, 1),
	}, nil
}

func (d *AppDependency) Close() error {
	d.log.Info("Closing app dependency")
	_ = d.log.Sync()
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}
