package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bher20/locadora/internal/config"
	"github.com/bher20/locadora/internal/listings"
	"github.com/bher20/locadora/internal/logger"
	"github.com/bher20/locadora/internal/migrate"
	"github.com/bher20/locadora/internal/quote"
	"github.com/bher20/locadora/internal/storage"
)

// app bundles the services shared by the serve, worker and quote commands.
type app struct {
	cfg      *config.Config
	log      *slog.Logger
	store    storage.Storage
	listings *listings.Service
	quotes   *quote.Service
	loc      *time.Location
	ceiling  decimal.Decimal
}

func loadApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log := logger.Initialize(cfg.LogLevel, cfg.LogFormat)

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	ceiling, err := cfg.LeadCeiling()
	if err != nil {
		return nil, err
	}

	if cfg.AutoMigrate && isSQLDriver(cfg.DBDriver) {
		if err := migrate.Up(ctx, cfg.DBDriver, cfg.DBDSN); err != nil {
			return nil, fmt.Errorf("auto migrate: %w", err)
		}
	}

	store, err := storage.Open(ctx, storage.Config{Driver: cfg.DBDriver, DSN: cfg.DBDSN, RedisAddr: cfg.RedisAddr})
	if err != nil {
		return nil, err
	}

	src, err := listings.NewSource(cfg.ListingsURL, listings.NewHTTPClient(cfg.FetchTimeout, cfg.FetchInsecureTLS))
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	ls := listings.NewServiceWithStorage(listings.Config{
		CacheTTL:   cfg.ListingsCacheTTL,
		MirrorPath: cfg.ListingsMirrorPath,
	}, src, store)

	log.Info("locadora: initialized",
		"storage", cfg.DBDriver,
		"source", src.Name(),
		"cache_ttl", cfg.ListingsCacheTTL,
		"timezone", loc.String(),
	)

	return &app{
		cfg:      cfg,
		log:      log,
		store:    store,
		listings: ls,
		quotes:   quote.NewService(ls, ceiling, loc),
		loc:      loc,
		ceiling:  ceiling,
	}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.log.Warn("locadora: close storage", "error", err)
	}
}

func isSQLDriver(driver string) bool {
	switch driver {
	case "sqlite", "postgres", "postgrespool":
		return true
	}
	return false
}
