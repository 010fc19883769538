package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the bridge.
type Config struct {
	App         AppConfig
	Logger      LoggerConfig
	Webhook     WebhookConfig
	Routing     RoutingConfig
	Dispatch    DispatchConfig
	Idempotency IdempotencyConfig
	Redis       RedisConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// WebhookConfig holds the inbound shared secret. An empty token disables
// the check, matching local development against platform validators.
type WebhookConfig struct {
	Token string
}

// RoutingConfig carries the static routing tables handed to the resolver.
type RoutingConfig struct {
	// AssigneeGroups maps a lowercased contact address to a service group.
	AssigneeGroups map[string]string
	// RoutingKeys maps a service group to its downstream routing key.
	RoutingKeys map[string]string
	// DefaultGroup receives unmapped or absent assignees; empty means none.
	DefaultGroup string
	// Strict escalates unrouted events to error-level logs.
	Strict bool
}

// DispatchConfig configures the downstream incident-events call.
type DispatchConfig struct {
	EndpointURL    string
	Source         string
	TimeoutSeconds int
}

// IdempotencyConfig selects the duplicate-suppression backend.
type IdempotencyConfig struct {
	Backend    string
	TTLSeconds int
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

const routingKeyPrefix = "ROUTING_KEY_"

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "ticket-alert-bridge"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Webhook: WebhookConfig{
			Token: os.Getenv("WEBHOOK_TOKEN"),
		},
		Routing: RoutingConfig{
			AssigneeGroups: parseAssigneeGroups(os.Getenv("ROUTING_ASSIGNEES")),
			RoutingKeys:    routingKeysFromEnv(os.Environ()),
			DefaultGroup:   os.Getenv("DEFAULT_SERVICE_GROUP"),
			Strict:         getEnvAsBool("ROUTING_STRICT", false),
		},
		Dispatch: DispatchConfig{
			EndpointURL:    getEnv("EVENTS_ENDPOINT_URL", "https://events.pagerduty.com/v2/enqueue"),
			Source:         getEnv("DISPATCH_SOURCE", "ticket-alert-bridge"),
			TimeoutSeconds: getEnvAsInt("DISPATCH_TIMEOUT_SECONDS", 10),
		},
		Idempotency: IdempotencyConfig{
			Backend:    getEnv("IDEMPOTENCY_BACKEND", "memory"),
			TTLSeconds: getEnvAsInt("IDEMPOTENCY_TTL_SECONDS", 0),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
	}

	return cfg, nil
}

// parseAssigneeGroups parses "alice@ex.com=A,bob@ex.com=B" into a lookup
// table. Contact addresses are lowercased; malformed entries are skipped.
func parseAssigneeGroups(raw string) map[string]string {
	groups := make(map[string]string)
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		contact, group, ok := strings.Cut(entry, "=")
		contact = strings.ToLower(strings.TrimSpace(contact))
		group = strings.TrimSpace(group)
		if !ok || contact == "" || group == "" {
			continue
		}
		groups[contact] = group
	}
	return groups
}

// routingKeysFromEnv discovers ROUTING_KEY_<GROUP> variables, one per
// service group.
func routingKeysFromEnv(environ []string) map[string]string {
	keys := make(map[string]string)
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, routingKeyPrefix) {
			continue
		}
		group := strings.TrimPrefix(name, routingKeyPrefix)
		if group == "" || value == "" {
			continue
		}
		keys[group] = value
	}
	return keys
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// Timeout returns the downstream call timeout duration.
func (d DispatchConfig) Timeout() time.Duration {
	if d.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(d.TimeoutSeconds) * time.Second
}

// TTL returns the reservation TTL for backends that support expiry.
func (i IdempotencyConfig) TTL() time.Duration {
	if i.TTLSeconds <= 0 {
		return 0
	}
	return time.Duration(i.TTLSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
