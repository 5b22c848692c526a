package main

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/lingua-go-api/internal/config"
	"github.com/noah-isme/lingua-go-api/internal/database"
	"github.com/noah-isme/lingua-go-api/internal/handler"
	"github.com/noah-isme/lingua-go-api/internal/repository"
	"github.com/noah-isme/lingua-go-api/internal/service"
	"github.com/noah-isme/lingua-go-api/pkg/ai"
)

// infra holds the connections shared by every command.
type infra struct {
	cfg    config.Config
	logger zerolog.Logger
	db     *gorm.DB
	redis  *redis.Client
	nats   *nats.Conn
}

// connect opens postgres and, when configured, redis and nats. Redis and nats
// are optional: without them progress locking falls back to in-process locks
// and events are not broadcast.
func connect(cfg config.Config, logger zerolog.Logger) (*infra, error) {
	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	deps := &infra{cfg: cfg, logger: logger, db: db}

	if cfg.RedisURL != "" {
		client, err := database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		deps.redis = client
	} else {
		logger.Warn().Msg("redis url not set; progress cache and distributed locks disabled")
	}

	if cfg.NATSURL != "" {
		conn, err := database.ConnectNATS(cfg.NATSURL, cfg.AppName, logger)
		if err != nil {
			deps.Close()
			return nil, err
		}
		deps.nats = conn
	}

	return deps, nil
}

func (i *infra) Close() {
	if i.nats != nil {
		i.nats.Close()
	}
	if i.redis != nil {
		_ = i.redis.Close()
	}
	if sqlDB, err := i.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func (i *infra) healthProbes() map[string]handler.HealthProbe {
	probes := map[string]handler.HealthProbe{
		"postgres": func(ctx context.Context) error {
			sqlDB, err := i.db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if i.redis != nil {
		probes["redis"] = func(ctx context.Context) error {
			return i.redis.Ping(ctx).Err()
		}
	}
	if i.nats != nil {
		probes["nats"] = func(context.Context) error {
			if !i.nats.IsConnected() {
				return nats.ErrConnectionClosed
			}
			return nil
		}
	}
	return probes
}

// services is the wired service layer.
type services struct {
	progress   service.ProgressService
	lessons    service.LessonService
	catalog    service.TaskCatalogService
	levelCheck service.LevelCheckService
	seed       service.SeedService
}

func (i *infra) services(ctx context.Context) services {
	cfg := i.cfg
	validate := validator.New(validator.WithRequiredStructEnabled())

	lessonRepo := repository.NewLessonRepository(i.db)
	taskRepo := repository.NewTaskRepository(i.db)
	quizRepo := repository.NewQuizRepository(i.db)
	userRepo := repository.NewUserRepository(i.db)

	progress := service.NewProgressService(service.ProgressDeps{
		Lessons:    lessonRepo,
		Activities: repository.NewActivityRepository(i.db),
		Progress:   repository.NewProgressRepository(i.db),
		Users:      userRepo,
		Locker:     service.NewProgressLocker(i.redis, cfg.ProgressLockTTL, i.logger),
		Publisher:  service.NewProgressPublisher(i.redis, cfg.EventChannel, i.nats),
		Cache:      i.redis,
		CacheTTL:   cfg.ProgressCacheTTL,
	}, validate, i.logger)

	evaluator, err := ai.NewEvaluator(ctx, ai.ProviderConfig{
		Provider:     cfg.AIProvider,
		Model:        cfg.AIModel,
		OpenAIKey:    cfg.OpenAIAPIKey,
		AnthropicKey: cfg.AnthropicAPIKey,
		GeminiKey:    cfg.GeminiAPIKey,
		BaseURL:      cfg.AIBaseURL,
		Logger:       i.logger,
	})
	if err != nil {
		i.logger.Warn().Err(err).Str("provider", cfg.AIProvider).Msg("level check evaluator disabled")
		evaluator = nil
	}

	return services{
		progress:   progress,
		lessons:    service.NewLessonService(lessonRepo, taskRepo, quizRepo, userRepo, progress, validate, i.logger, service.LessonServiceConfig{EvaluationWorkers: cfg.EvaluationWorkers}),
		catalog:    service.NewTaskCatalogService(lessonRepo, taskRepo, quizRepo, i.logger),
		levelCheck: service.NewLevelCheckService(repository.NewLevelCheckRepository(i.db), evaluator, validate, cfg.AITimeout, i.logger),
		seed:       service.NewSeedService(repository.NewCourseRepository(i.db), validate, cfg.SeedEnabled, cfg.SeedToken, i.logger),
	}
}
