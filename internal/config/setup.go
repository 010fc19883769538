package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// SetupConfig drives the one-time registration of the bridge with the
// upstream platform's app-management API.
type SetupConfig struct {
	APIKey       string
	AppsURL      string
	PublicBase   string
	WebhookToken string
	TeamIDs      []string
}

// LoadSetup reads the registration settings and validates the required ones.
func LoadSetup() (*SetupConfig, error) {
	_ = godotenv.Load()

	cfg := &SetupConfig{
		APIKey:       os.Getenv("UPSTREAM_API_KEY"),
		AppsURL:      strings.TrimRight(getEnv("UPSTREAM_APPS_URL", "https://apps-studio.thena.ai"), "/"),
		PublicBase:   strings.TrimRight(os.Getenv("PUBLIC_BASE_URL"), "/"),
		WebhookToken: os.Getenv("WEBHOOK_TOKEN"),
		TeamIDs:      splitList(os.Getenv("UPSTREAM_TEAM_IDS")),
	}

	if cfg.APIKey == "" {
		return nil, fmt.Errorf("missing UPSTREAM_API_KEY")
	}
	if !strings.HasPrefix(cfg.PublicBase, "https://") {
		return nil, fmt.Errorf("PUBLIC_BASE_URL must be an https URL")
	}
	if cfg.WebhookToken == "" {
		return nil, fmt.Errorf("missing WEBHOOK_TOKEN")
	}
	if len(cfg.TeamIDs) == 0 {
		return nil, fmt.Errorf("missing UPSTREAM_TEAM_IDS (comma-separated)")
	}
	return cfg, nil
}

// WebhookURL builds a bridge endpoint URL carrying the shared token.
func (s *SetupConfig) WebhookURL(path string) string {
	return fmt.Sprintf("%s%s?token=%s", s.PublicBase, path, s.WebhookToken)
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
