package bootstrap

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"propertyhub/internal/config"
	"propertyhub/internal/logger"
	"propertyhub/internal/model"
	postgresClient "propertyhub/internal/platform/postgres"
	rabbitmqClient "propertyhub/internal/platform/rabbitmq"
	redisClient "propertyhub/internal/platform/redis"
	"propertyhub/internal/repository"
	"propertyhub/internal/worker"
)

type App struct {
	Config           *config.Config
	Log              zerolog.Logger
	Postgres         *gorm.DB
	Redis            *redis.Client
	MQConn           *amqp.Connection
	SubmissionWorker *worker.SubmissionPersistWorker

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	log := logger.New(cfg.App.Env)

	db, err := postgresClient.New(ctx, cfg.PostgresDSN())
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(
		&model.User{},
		&model.Resource{},
		&model.ContentChunk{},
		&model.Listing{},
		&model.PropertyEnquiry{},
		&model.PropertyDocument{},
		&model.EligibilitySubmission{},
	); err != nil {
		return nil, fmt.Errorf("auto migrate tables failed: %w", err)
	}

	redisCli, err := redisClient.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, err
	}

	mqConn, err := rabbitmqClient.New(ctx, cfg.RabbitMQ.URL)
	if err != nil {
		return nil, err
	}

	submissionRepo := repository.NewSubmissionRepository(db)
	submissionWorker := worker.NewSubmissionPersistWorker(
		mqConn, submissionRepo, cfg.RabbitMQ.SubmissionPersistQueue, log)
	if err := submissionWorker.Start(ctx); err != nil {
		return nil, fmt.Errorf("start submission worker failed: %w", err)
	}

	return &App{
		Config:           cfg,
		Log:              log,
		Postgres:         db,
		Redis:            redisCli,
		MQConn:           mqConn,
		SubmissionWorker: submissionWorker,
		StartedAt:        time.Now(),
	}, nil
}

func (a *App) Close() error {
	var closeErr error
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.SubmissionWorker != nil {
		a.SubmissionWorker.Close()
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.Postgres != nil {
		sqlDB, err := a.Postgres.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	return closeErr
}
