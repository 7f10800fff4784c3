package main

import (
	"context"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/leadpoint/site-api/internal/api/metrics"
	"github.com/leadpoint/site-api/internal/core/service"
	"github.com/leadpoint/site-api/internal/infrastructure/config"
	mongostore "github.com/leadpoint/site-api/internal/infrastructure/db/mongo"
	"github.com/leadpoint/site-api/pkg/logger"
)

const serviceName = "site-api"

// app holds what both subcommands need: configuration, logging and the
// lazily connected database with its first-connect hooks.
type app struct {
	cfg    *config.Config
	log    zerolog.Logger
	db     *mongostore.Connector
	admins *mongostore.AdminRepository
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: serviceName,
	})

	db := mongostore.NewConnector(mongostore.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		Timeout:  cfg.Mongo.ConnectTimeout,
	}, logger.Component("mongo"), mongostore.WithAttemptObserver(metrics.ObserveDBConnect))

	admins := mongostore.NewAdminRepository(db)
	bootstrap := service.NewBootstrap(admins, service.BootstrapConfig{
		Email:    cfg.Admin.Email,
		Name:     cfg.Admin.Name,
		Password: cfg.Admin.BootstrapPassword,
	}, logger.Component("bootstrap"))

	db.OnFirstConnect("indexes", mongostore.EnsureIndexes)
	db.OnFirstConnect("seed-admin", func(ctx context.Context, _ *mongo.Database) error {
		created, err := bootstrap.EnsureAdminSeeded(ctx)
		if err != nil {
			return err
		}
		if created {
			metrics.AdminSeedTotal.Inc()
		}
		return nil
	})

	return &app{cfg: cfg, log: log, db: db, admins: admins}, nil
}
