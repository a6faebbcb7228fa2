package internal

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	token_adapter "session-service/internal/adapters/jwt"
	logger_adapter "session-service/internal/adapters/logger"
	"session-service/internal/adapters/marketplace_client"
	memory_adapter "session-service/internal/adapters/memory"
	postgres_adapter "session-service/internal/adapters/postgres"
	rabbitmq_adapter "session-service/internal/adapters/rabbitmq"
	redis_adapter "session-service/internal/adapters/redis"
	"session-service/internal/adapters/rest"
	"session-service/internal/configs"
	"session-service/internal/constants"
	"session-service/internal/contracts"
	"session-service/internal/core/domain"
	"session-service/internal/core/port"
	"session-service/internal/core/usecase"
	"session-service/internal/session"
	fluentlogger "session-service/pkg/fluent_logger"
	"session-service/pkg/postgres"
	"session-service/pkg/rabbitmq/rabbitmq_common"
	"session-service/pkg/rabbitmq/rabbitmq_producer"
	"syscall"
	"time"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const shutdownTimeout = 15 * time.Second

type App struct {
	config    *configs.AppConfig
	apiServer *rest.Server
	sweeper   *session.Sweeper

	dbPool        *pgxpool.Pool
	redisClient   *redis.Client
	connManager   *rabbitmq_common.ConnectionManager
	eventProducer *rabbitmq_producer.Publisher

	logger       port.LoggerPort
	fluentClient *fluent.Fluent
}

func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	app := &App{config: appConfig}
	if err := app.initLogger(); err != nil {
		return nil, err
	}

	// Если сборка упала на середине, закрываем то, что успели открыть.
	ok := false
	defer func() {
		if !ok {
			app.closeResources()
		}
	}()

	baseLogger := app.logger.WithFields(port.Fields{"service_name": appConfig.AppName})
	appLogger := baseLogger.WithFields(port.Fields{"component": "app"})
	ctx := context.Background()

	// --- ВНЕШНИЕ ЗАВИСИМОСТИ ---
	marketplaceClient := marketplace_client.NewClient(marketplace_client.Config{
		BaseURL: appConfig.Marketplace.URL,
		Timeout: appConfig.Marketplace.Timeout,
		RPS:     appConfig.Marketplace.RPS,
		Burst:   appConfig.Marketplace.Burst,
	})

	tokenValidator, err := token_adapter.NewTokenValidator(appConfig.JWT.Secret, appConfig.JWT.Issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to create token validator: %w", err)
	}

	formValidator, err := contracts.NewFormValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to compile form schemas: %w", err)
	}

	var searchCache port.SearchCachePort
	if appConfig.Redis.Addr != "" {
		app.redisClient, err = redis_adapter.NewClient(ctx, redis_adapter.Config{
			Addr:     appConfig.Redis.Addr,
			Password: appConfig.Redis.Password,
			DB:       appConfig.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		cache, err := redis_adapter.NewSearchCache(app.redisClient, appConfig.Redis.TTL)
		if err != nil {
			return nil, err
		}
		searchCache = cache
		appLogger.Info("Search cache enabled", port.Fields{"addr": appConfig.Redis.Addr, "ttl": appConfig.Redis.TTL.String()})
	} else {
		appLogger.Warn("REDIS_ADDR is not set, search cache disabled", nil)
	}

	var savedSearchRepo port.SavedSearchRepositoryPort
	if appConfig.Postgres.DatabaseURL != "" {
		app.dbPool, err = postgres.NewClient(ctx, postgres.Config{
			DatabaseURL: appConfig.Postgres.DatabaseURL,
			MaxConns:    appConfig.Postgres.MaxConns,
		})
		if err != nil {
			return nil, err
		}
		repo, err := postgres_adapter.NewPostgresSavedSearchRepository(app.dbPool)
		if err != nil {
			return nil, err
		}
		if err := repo.Migrate(ctx); err != nil {
			return nil, err
		}
		savedSearchRepo = repo
		appLogger.Info("PostgreSQL saved searches repository initialized", nil)
	} else {
		appLogger.Warn("DATABASE_URL is not set, saved searches are kept in memory", nil)
		savedSearchRepo = memory_adapter.NewSavedSearchRepository()
	}

	var activityPublisher port.ActivityPublisherPort = rabbitmq_adapter.NoopActivityPublisher{}
	if appConfig.RabbitMQ.URL != "" {
		connManagerBridge := rabbitmq_adapter.NewPkgLoggerBridge(baseLogger.WithFields(port.Fields{"component": "rabbitmq_conn_manager"}))
		app.connManager, err = rabbitmq_common.NewManager(rabbitmq_common.Config{URL: appConfig.RabbitMQ.URL}, connManagerBridge)
		if err != nil {
			return nil, fmt.Errorf("failed to create connection manager: %w", err)
		}

		app.eventProducer, err = rabbitmq_producer.NewPublisher(rabbitmq_producer.PublisherConfig{
			Config:                   rabbitmq_common.Config{URL: appConfig.RabbitMQ.URL},
			ExchangeName:             appConfig.RabbitMQ.Exchange,
			ExchangeType:             constants.ActivityExchangeType,
			DurableExchange:          true,
			DeclareExchangeIfMissing: true,
			Logger:                   rabbitmq_adapter.NewPkgLoggerBridge(baseLogger.WithFields(port.Fields{"component": "rabbitmq_producer"})),
		}, app.connManager)
		if err != nil {
			return nil, fmt.Errorf("failed to create event producer: %w", err)
		}

		publisher, err := rabbitmq_adapter.NewActivityPublisher(app.eventProducer)
		if err != nil {
			return nil, err
		}
		activityPublisher = publisher
		appLogger.Info("RabbitMQ activity publisher initialized", port.Fields{"exchange": appConfig.RabbitMQ.Exchange})
	} else {
		appLogger.Warn("RABBITMQ_URL is not set, activity events are dropped", nil)
	}

	// --- СЕССИИ ---
	registry := session.NewRegistry(marketplaceClient, activityPublisher,
		domain.RangeBounds{
			Floor:     appConfig.Sliders.PriceFloor,
			Ceiling:   appConfig.Sliders.PriceCeiling,
			OpenEnded: appConfig.Sliders.OpenEnded,
		},
		domain.RangeBounds{
			Floor:     appConfig.Sliders.AreaFloor,
			Ceiling:   appConfig.Sliders.AreaCeiling,
			OpenEnded: appConfig.Sliders.OpenEnded,
		},
	)

	app.sweeper, err = session.NewSweeper(registry, appConfig.Session.SweepSchedule, appConfig.Session.IdleTTL, baseLogger)
	if err != nil {
		return nil, err
	}

	// --- USE CASES ---
	handlers := rest.Handlers{
		Favorites: rest.NewFavoritesHandler(),
		Filters:   rest.NewFiltersHandler(),
		Properties: rest.NewPropertiesHandler(
			usecase.NewSearchPropertiesUseCase(marketplaceClient, searchCache, activityPublisher),
			usecase.NewGetPropertyDetailsUseCase(marketplaceClient),
			usecase.NewSubmitInquiryUseCase(marketplaceClient, formValidator, activityPublisher),
			usecase.NewScheduleSiteVisitUseCase(marketplaceClient, formValidator, activityPublisher),
			usecase.NewSubmitPropertyUseCase(marketplaceClient, formValidator, activityPublisher),
		),
		SavedSearches: rest.NewSavedSearchesHandler(usecase.NewSavedSearchesUseCase(savedSearchRepo)),
	}
	appLogger.Info("All use cases initialized", nil)

	serverCfg := rest.ServerConfig{Port: appConfig.Rest.Port, AllowedOrigins: appConfig.Rest.AllowedOrigins}
	router := rest.NewRouter(serverCfg, registry, tokenValidator, handlers, baseLogger)
	app.apiServer = rest.NewServer(serverCfg, router, baseLogger)
	app.logger = appLogger

	ok = true
	return app, nil
}

func (a *App) initLogger() error {
	var activeLoggers []port.LoggerPort

	stdoutLogger := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{
		Level:    logger_adapter.ParseLevel(a.config.StdoutLogger.Level),
		UseColor: true,
	})
	activeLoggers = append(activeLoggers, stdoutLogger)

	if a.config.FluentBit.Enabled {
		fluentClient, err := fluentlogger.NewClient(fluentlogger.Config{
			Host:      a.config.FluentBit.Host,
			Port:      a.config.FluentBit.Port,
			TagPrefix: a.config.AppName,
			Async:     true,
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return fmt.Errorf("failed to create fluentbit client: %w", err)
		}

		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(fluentClient, logger_adapter.ParseLevel(a.config.FluentBit.Level))
		if err != nil {
			fluentClient.Close()
			return err
		}
		a.fluentClient = fluentClient
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	multiLogger, err := logger_adapter.NewMultiloggerAdapter(activeLoggers...)
	if err != nil {
		return fmt.Errorf("failed to create multi-logger: %w", err)
	}
	a.logger = multiLogger
	multiLogger.Info("Logger system initialized", port.Fields{
		"active_loggers": len(activeLoggers), "fluent_enabled": a.config.FluentBit.Enabled,
	})
	return nil
}

// Run запускает сервер и планировщик и ждет сигнала завершения.
func (a *App) Run() error {
	defer func() {
		a.logger.Info("Shutdown sequence initiated...", nil)

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := a.apiServer.Stop(ctx); err != nil {
			a.logger.Error("Error during API server shutdown", err, nil)
		}
		a.sweeper.Stop(ctx)
		a.closeResources()
	}()

	a.logger.Info("Application is starting...", nil)
	a.sweeper.Start()

	serverErrors := make(chan error, 1)
	go func() {
		if err := a.apiServer.Start(); err != nil {
			serverErrors <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	a.logger.Info("Application running. Waiting for signals or server error...", port.Fields{"port": a.config.Rest.Port})
	select {
	case receivedSignal := <-quit:
		a.logger.Warn("Received OS signal, shutting down...", port.Fields{"signal": receivedSignal.String()})
		return nil
	case err := <-serverErrors:
		a.logger.Error("HTTP server failed, shutting down", err, nil)
		return err
	}
}

func (a *App) closeResources() {
	if a.eventProducer != nil {
		if err := a.eventProducer.Close(); err != nil {
			a.logger.Error("Error closing event producer", err, nil)
		}
	}
	if a.connManager != nil {
		if err := a.connManager.Close(); err != nil {
			a.logger.Error("Error closing RabbitMQ connection", err, nil)
		}
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Error("Error closing redis client", err, nil)
		}
	}
	if a.dbPool != nil {
		a.dbPool.Close()
	}

	a.logger.Info("Application shut down gracefully.", nil)

	if a.fluentClient != nil {
		if err := a.fluentClient.Close(); err != nil {
			// fluent уже может быть недоступен
			fmt.Printf("ERROR: Error closing fluent client: %v\n", err)
		}
	}
}
