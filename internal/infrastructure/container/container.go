// Package container provides dependency injection using Uber FX
package container

import (
	"context"
	"fmt"

	"github.com/mealforge/v2/internal/application/planner"
	"github.com/mealforge/v2/internal/infrastructure/ai/ollama"
	"github.com/mealforge/v2/internal/infrastructure/ai/openai"
	"github.com/mealforge/v2/internal/infrastructure/config"
	"github.com/mealforge/v2/internal/infrastructure/http/apiserver"
	gormRepo "github.com/mealforge/v2/internal/infrastructure/persistence/gorm"
	redisRepo "github.com/mealforge/v2/internal/infrastructure/persistence/redis"
	"github.com/mealforge/v2/internal/infrastructure/persistence/sqlite"
	"github.com/mealforge/v2/internal/infrastructure/search/lexical"
	"github.com/mealforge/v2/internal/infrastructure/search/vector"
	"github.com/mealforge/v2/internal/ports/inbound"
	"github.com/mealforge/v2/internal/ports/outbound"
	"github.com/mealforge/v2/pkg/logger"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// Module provides all dependency injection modules
var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	DatabaseModule,
	RepositoryModule,
	AIModule,
	SearchModule,
	ServiceModule,
	HTTPModule,
	LifecycleModule,
)

// ConfigModule provides configuration
var ConfigModule = fx.Provide(
	func() (*config.Config, error) {
		return config.Load("")
	},
)

// LoggerModule provides logging
var LoggerModule = fx.Provide(
	func(cfg *config.Config) (*zap.Logger, error) {
		return logger.New(logger.Config{
			Level:       cfg.App.LogLevel,
			Format:      cfg.App.LogFormat,
			Development: cfg.App.Debug,
		})
	},
)

// DatabaseModule provides the SQLite corpus database
var DatabaseModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
		logLevel := gormLogger.Silent
		if cfg.App.Debug {
			logLevel = gormLogger.Info
		}

		db, err := sqlite.SetupDatabase(cfg.Database.Path, logLevel)
		if err != nil {
			return nil, fmt.Errorf("failed to setup SQLite database: %w", err)
		}

		if cfg.Database.Seed {
			if err := sqlite.SeedDatabase(db); err != nil {
				log.Warn("Failed to seed corpus", zap.Error(err))
			}
		}

		log.Info("Connected to SQLite corpus database",
			zap.String("path", cfg.Database.Path),
			zap.Bool("in_memory", cfg.Database.Path == ""),
		)
		return db, nil
	},
)

// RepositoryModule provides repository implementations
var RepositoryModule = fx.Provide(
	gormRepo.NewCorpusRepository,
	gormRepo.NewPlanRepository,
	gormRepo.NewProfileRepository,

	// Conversation history on Redis
	func(cfg *config.Config, log *zap.Logger) outbound.HistoryProvider {
		client := redisRepo.NewClient(cfg.Redis)
		return redisRepo.NewHistoryRepository(client, cfg.Redis, log)
	},
)

// AIModule provides the text generator and embedder
var AIModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) (outbound.TextGenerator, outbound.Embedder) {
		switch cfg.AI.Provider {
		case "openai":
			client := openai.NewClient(cfg.AI, log)
			return client, client
		default:
			client := ollama.NewClient(cfg.AI, log)
			return client, client
		}
	},
)

// SearchModule provides the configured candidate store backend
var SearchModule = fx.Provide(
	func(
		cfg *config.Config,
		corpus outbound.CorpusRepository,
		embedder outbound.Embedder,
		log *zap.Logger,
	) outbound.CandidateStore {
		if cfg.Search.Backend == "vector" {
			return vector.NewStore(corpus, embedder, cfg.Search.CandidateCeiling, log)
		}
		return lexical.NewStore(corpus, cfg.Search.CandidateCeiling, log)
	},
)

// ServiceModule provides application services
var ServiceModule = fx.Provide(
	fx.Annotate(
		func(
			store outbound.CandidateStore,
			generator outbound.TextGenerator,
			history outbound.HistoryProvider,
			plans outbound.PlanRepository,
			cfg *config.Config,
			log *zap.Logger,
		) *planner.Service {
			return planner.NewService(store, generator, history, plans, cfg.Planner, log)
		},
		fx.As(new(inbound.PlannerService)),
	),
)

// HTTPModule provides the API server
var HTTPModule = fx.Provide(
	apiserver.NewAPIServer,
)

// LifecycleModule provides lifecycle hooks
var LifecycleModule = fx.Invoke(
	RegisterLifecycleHooks,
)

// RegisterLifecycleHooks registers application lifecycle hooks
func RegisterLifecycleHooks(
	lc fx.Lifecycle,
	cfg *config.Config,
	log *zap.Logger,
	db *gorm.DB,
	store outbound.CandidateStore,
	server *apiserver.APIServer,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting MealForge",
				zap.String("version", cfg.App.Version),
				zap.String("environment", cfg.App.Environment),
				zap.String("search_backend", cfg.Search.Backend),
			)

			// Backfill embeddings before serving when the vector backend
			// is active.
			if vectorStore, ok := store.(*vector.Store); ok {
				if _, err := vectorStore.IndexCorpus(ctx); err != nil {
					log.Warn("Failed to index corpus embeddings", zap.Error(err))
				}
			}

			go func() {
				if err := server.Start(); err != nil {
					log.Error("HTTP server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down MealForge")

			if err := server.Shutdown(ctx); err != nil {
				log.Error("Failed to shutdown HTTP server", zap.Error(err))
			}

			sqlDB, err := db.DB()
			if err == nil {
				if err := sqlDB.Close(); err != nil {
					log.Error("Failed to close database connection", zap.Error(err))
				}
			}

			_ = log.Sync()
			return nil
		},
	})
}
