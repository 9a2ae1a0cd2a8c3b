package app

import (
	"context"
	"log"
	"time"

	"blog-api/internal/config"
	"blog-api/internal/database"
	"blog-api/internal/database/migration"
	dbpostgres "blog-api/internal/database/postgres"
	"blog-api/internal/infrastructure/cache"
	"blog-api/internal/infrastructure/mail"
	"blog-api/internal/infrastructure/storage"
	"blog-api/internal/ws"
)

// Container holds every long-lived dependency. Construction connects, runs
// migrations, and starts the websocket hub.
type Container struct {
	Config  config.Config
	Logger  *log.Logger
	DB      database.DB
	Cache   *cache.Redis
	Storage storage.ObjectStorage
	Mailer  mail.Mailer
	Hub     *ws.Hub
}

func NewContainer(cfg config.Config, logger *log.Logger) (*Container, error) {
	if logger == nil {
		logger = log.Default()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := migration.Run(ctx, db.SQLDB()); err != nil {
		_ = db.Close()
		return nil, err
	}

	store, err := storage.NewS3Client(ctx, cfg.Storage)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	hub := ws.NewHub(logger)
	go hub.Run()

	return &Container{
		Config:  cfg,
		Logger:  logger,
		DB:      db,
		Cache:   cache.NewRedis(cfg.Redis, logger),
		Storage: store,
		Mailer:  mail.NewSMTPMailer(cfg.SMTP),
		Hub:     hub,
	}, nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	c.Hub.Close()
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
