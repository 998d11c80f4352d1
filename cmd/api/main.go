package main

import (
	"context"
	"log"
	"time"

	"clearcheck/config"
	"clearcheck/internal/commands"
	"clearcheck/internal/events"
	"clearcheck/internal/handler"
	"clearcheck/internal/outbox"
	"clearcheck/internal/projection"
	"clearcheck/internal/redis"
	"clearcheck/internal/repository"
	"clearcheck/internal/server"
	"clearcheck/internal/services"
	"clearcheck/internal/watchdog"
	"clearcheck/pkg/database"
	"clearcheck/pkg/logger"
)

func main() {
	cfg := config.LoadConfig()

	mode := logger.DevelopmentMode
	if cfg.AppMode == server.ReleaseMode {
		mode = logger.ProductionMode
	}
	l := logger.New(mode)
	logger.SetGlobalLogger(l)
	defer l.Sync()

	database.Connect(cfg)
	if err := repository.InitSchema(database.DB); err != nil {
		log.Fatalf("Failed to migrate schema: %v", err)
	}

	eventRepo := repository.NewEventRepository(database.DB)
	orderRepo := repository.NewOrderRepository(database.DB)
	clockRepo := repository.NewSlaClockRepository(database.DB)
	checkpointRepo := repository.NewCheckpointRepository(database.DB)
	summaryRepo := repository.NewOrderSummaryRepository(database.DB)
	dashboardRepo := repository.NewSlaDashboardRepository(database.DB)
	uow := repository.NewUnitOfWork(database.DB, eventRepo)

	eventBus := events.NewInProcessBus()

	var limiter *redis.RateLimiter
	if cfg.RedisEnabled {
		redis.Initialize(redis.Config{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
		})
		eventBus.SubscribeAll(events.NewRedisBridge(redis.GetClient()))
		limiter = redis.NewRateLimiter(redis.GetClient(), redis.DefaultRateLimitConfig())
	}

	commandBus := commands.NewBus()
	commandBus.UseCommandLog(repository.NewCommandLogRepository(database.DB))
	orderService := services.NewOrderService(orderRepo, uow, commandBus, l)
	clockService := services.NewSlaClockService(clockRepo, orderRepo, uow, services.NewWeekdayCalendar(), commandBus, l)
	services.NewClockPolicy(clockService, l).Register(eventBus)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	processor := outbox.NewProcessor(eventRepo, eventBus, l,
		cfg.DispatchBatchSize,
		time.Duration(cfg.DispatchBusyIntervalMs)*time.Millisecond,
		time.Duration(cfg.DispatchIdleIntervalMs)*time.Millisecond)
	outbox.NewRunner(processor).Start(ctx)

	watchdog.NewWatchdog(clockRepo, clockService, l,
		time.Duration(cfg.WatchdogIntervalSec)*time.Second,
		cfg.WatchdogBatchSize).Start(ctx)

	summaryRunner := projection.NewOrderSummaryRunner(orderRepo, summaryRepo, checkpointRepo, l, cfg.ProjectionBatchSize)
	dashboardRunner := projection.NewSlaDashboardRunner(eventRepo, dashboardRepo, checkpointRepo, l, cfg.ProjectionBatchSize)

	srv := server.New(cfg, l)
	srv.SetupRoutes(&server.Handlers{
		Order:      handler.NewOrderHandler(orderService, summaryRepo),
		Clock:      handler.NewSlaClockHandler(clockService, dashboardRepo),
		Projection: handler.NewProjectionHandler(summaryRunner, dashboardRunner),
	}, limiter)

	if err := srv.Start(); err != nil {
		log.Fatalf("Server exited with error: %v", err)
	}
}
