package main

import (
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/ticket-alert-bridge/internal/api/http"
	"github.com/spec-kit/ticket-alert-bridge/internal/api/http/handlers"
	"github.com/spec-kit/ticket-alert-bridge/internal/auth"
	"github.com/spec-kit/ticket-alert-bridge/internal/config"
	"github.com/spec-kit/ticket-alert-bridge/internal/dispatch"
	"github.com/spec-kit/ticket-alert-bridge/internal/events"
	"github.com/spec-kit/ticket-alert-bridge/internal/idempotency"
	"github.com/spec-kit/ticket-alert-bridge/internal/observability"
	"github.com/spec-kit/ticket-alert-bridge/internal/routing"
	"github.com/spec-kit/ticket-alert-bridge/internal/service"
	"github.com/spec-kit/ticket-alert-bridge/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	metrics := observability.NewMetrics()

	var store idempotency.Store
	switch strings.ToLower(cfg.Idempotency.Backend) {
	case "redis":
		redisStore := idempotency.NewRedisStore(cfg.Redis, cfg.Idempotency.TTL(), logger)
		defer redisStore.Close()
		store = redisStore
	default:
		store = idempotency.NewMemoryStore()
	}

	dispatcherEvents := events.NewInMemoryDispatcher()
	notificationService := service.NewNotificationService(dispatcherEvents, logger, metrics)
	worker.StartNotificationWorker(notificationService)

	resolver := routing.NewResolver(cfg.Routing)
	incidentClient := dispatch.NewClient(cfg.Dispatch, logger)
	bridgeService := service.NewBridgeService(store, resolver, incidentClient, dispatcherEvents, logger)

	app := fiber.New(fiber.Config{
		AppName:     cfg.App.Name,
		JSONEncoder: json.Marshal,
		JSONDecoder: json.Unmarshal,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:        handlers.NewHealthHandler(),
		Events:        handlers.NewEventsHandler(bridgeService),
		Installations: handlers.NewInstallationsHandler(),
		Token:         auth.NewTokenMiddleware(auth.NewTokenVerifier(cfg.Webhook.Token)),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
