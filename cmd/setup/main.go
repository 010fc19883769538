package main

import (
	"context"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-alert-bridge/internal/config"
	"github.com/spec-kit/ticket-alert-bridge/internal/observability"
	"github.com/spec-kit/ticket-alert-bridge/internal/setup"
)

// One-time registration of the bridge with the upstream platform: create
// the app from its manifest, then install it on the configured teams.
func main() {
	cfg, err := config.LoadSetup()
	if err != nil {
		log.Fatalf("invalid setup configuration: %v", err)
	}

	logger, err := observability.NewLogger(config.LoggerConfig{Level: "info"})
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	client := setup.NewClient(cfg.APIKey, cfg.AppsURL, logger)

	appID, err := client.CreateApp(ctx, setup.BuildManifest(cfg))
	if err != nil {
		logger.Fatal("create app", zap.Error(err))
	}
	logger.Info("created app", zap.String("app_id", appID))

	if err := client.InstallApp(ctx, appID, cfg.TeamIDs); err != nil {
		logger.Fatal("install app", zap.Error(err))
	}
	logger.Info("installed app", zap.Strings("team_ids", cfg.TeamIDs))
}
