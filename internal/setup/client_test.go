package setup

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-alert-bridge/internal/config"
)

func setupConfig(base string) *config.SetupConfig {
	return &config.SetupConfig{
		APIKey:       "api-key",
		AppsURL:      base,
		PublicBase:   "https://bridge.example.com",
		WebhookToken: "sekrit",
		TeamIDs:      []string{"team-1", "team-2"},
	}
}

func TestBuildManifestWebhookURLs(t *testing.T) {
	t.Parallel()

	manifest := BuildManifest(setupConfig("https://apps.example.com"))

	if got := manifest.Integration.Webhooks.Events; got != "https://bridge.example.com/events?token=sekrit" {
		t.Errorf("events url = %q", got)
	}
	if got := manifest.Integration.Webhooks.Installations; got != "https://bridge.example.com/installations?token=sekrit" {
		t.Errorf("installations url = %q", got)
	}
	if manifest.App.Slug == "" {
		t.Error("slug must be set")
	}
	// Empty subscribe list means all platform events; the bridge filters.
	if manifest.Events.Subscribe == nil || len(manifest.Events.Subscribe) != 0 {
		t.Errorf("subscribe = %+v", manifest.Events.Subscribe)
	}
}

func TestCreateAppIDExtraction(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		response string
		appID    string
		wantErr  bool
	}{
		{name: "top-level appId", response: `{"appId":"app-1"}`, appID: "app-1"},
		{name: "top-level uid", response: `{"uid":"app-2"}`, appID: "app-2"},
		{name: "nested appId", response: `{"data":{"appId":"app-3"}}`, appID: "app-3"},
		{name: "nested uid", response: `{"data":{"uid":"app-4"}}`, appID: "app-4"},
		{name: "no id", response: `{"ok":true}`, wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != createAppPath {
					t.Errorf("path = %q", r.URL.Path)
				}
				if r.Header.Get("x-api-key") != "api-key" {
					t.Errorf("missing api key header")
				}
				var payload createAppRequest
				if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
					t.Errorf("decode request: %v", err)
				}
				if payload.AppVisibility != "private" {
					t.Errorf("visibility = %q", payload.AppVisibility)
				}
				_, _ = w.Write([]byte(tt.response))
			}))
			defer server.Close()

			client := NewClient("api-key", server.URL, zap.NewNop())
			appID, err := client.CreateApp(context.Background(), BuildManifest(setupConfig(server.URL)))
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if appID != tt.appID {
				t.Fatalf("app id = %q, want %q", appID, tt.appID)
			}
		})
	}
}

func TestInstallApp(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != installPath {
			t.Errorf("path = %q", r.URL.Path)
		}
		var payload installRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if payload.AppID != "app-1" || len(payload.TeamIDs) != 2 {
			t.Errorf("payload = %+v", payload)
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	client := NewClient("api-key", server.URL, zap.NewNop())
	if err := client.InstallApp(context.Background(), "app-1", []string{"team-1", "team-2"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestInstallAppServerError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	client := NewClient("api-key", server.URL, zap.NewNop())
	if err := client.InstallApp(context.Background(), "app-1", []string{"team-1"}); err == nil {
		t.Fatal("expected error")
	}
}
