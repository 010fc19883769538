package setup

import (
	"github.com/spec-kit/ticket-alert-bridge/internal/config"
)

// Manifest describes the bridge to the upstream platform's app registry.
type Manifest struct {
	App           AppInfo      `json:"app"`
	Developer     Developer    `json:"developer"`
	Integration   Integration  `json:"integration"`
	Configuration SettingsSpec `json:"configuration"`
	Scopes        Scopes       `json:"scopes"`
	Events        EventsSpec   `json:"events"`
	Activities    []string     `json:"activities"`
	Metadata      Metadata     `json:"metadata"`
}

type AppInfo struct {
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	Category         string   `json:"category"`
	Icons            Icons    `json:"icons"`
	SupportedLocales []string `json:"supported_locales"`
	// Slug must be globally unique per upstream organization.
	Slug string `json:"slug"`
}

type Icons struct {
	Small string `json:"small"`
	Large string `json:"large"`
}

type Developer struct {
	Name             string `json:"name"`
	Website          string `json:"website"`
	SupportEmail     string `json:"support_email"`
	PrivacyPolicyURL string `json:"privacy_policy_url"`
	TermsURL         string `json:"terms_url"`
	DocumentationURL string `json:"documentation_url"`
}

type Integration struct {
	EntryPoints   EntryPoints   `json:"entry_points"`
	Webhooks      Webhooks      `json:"webhooks"`
	Interactivity Interactivity `json:"interactivity"`
}

type EntryPoints struct {
	Main          string `json:"main"`
	Configuration string `json:"configuration"`
}

type Webhooks struct {
	Events        string `json:"events"`
	Installations string `json:"installations"`
}

type Interactivity struct {
	RequestURL           string `json:"request_url"`
	MessageMenuOptionURL string `json:"message_menu_option_url"`
}

type SettingsSpec struct {
	RequiredSettings []string `json:"required_settings"`
	OptionalSettings []string `json:"optional_settings"`
}

type Scopes struct {
	Required PlatformScopes `json:"required"`
	Optional PlatformScopes `json:"optional"`
}

type PlatformScopes struct {
	Platform []Scope `json:"platform"`
}

type Scope struct {
	Scope       string `json:"scope"`
	Reason      string `json:"reason"`
	Description string `json:"description"`
}

// EventsSpec with empty subscribe receives all platform events; the bridge
// filters by eventType itself.
type EventsSpec struct {
	Subscribe []string `json:"subscribe"`
	Publish   []string `json:"publish"`
}

type Metadata struct {
	IsPrivilegedApp bool `json:"is_privileged_app"`
}

// BuildManifest assembles the registration manifest from setup config.
func BuildManifest(cfg *config.SetupConfig) Manifest {
	return Manifest{
		App: AppInfo{
			Name:        "Ticket Alert Bridge",
			Description: "Creates incidents for ticket events based on the assignee's service group",
			Category:    "webhooks",
			Icons: Icons{
				Small: "https://cdn1.iconfinder.com/data/icons/carbon-design-system-vol-8/32/webhook-1024.png",
				Large: "https://cdn1.iconfinder.com/data/icons/carbon-design-system-vol-8/32/webhook-1024.png",
			},
			SupportedLocales: []string{"en-US"},
			Slug:             "ticket-alert-bridge-assignee-routing",
		},
		Developer: Developer{
			Name:             "Ticket Alert Bridge",
			Website:          cfg.PublicBase,
			SupportEmail:     "support@example.com",
			PrivacyPolicyURL: cfg.PublicBase + "/privacy",
			TermsURL:         cfg.PublicBase + "/terms",
			DocumentationURL: cfg.PublicBase + "/docs",
		},
		Integration: Integration{
			EntryPoints: EntryPoints{
				Main:          cfg.PublicBase + "/app",
				Configuration: cfg.PublicBase + "/config",
			},
			Webhooks: Webhooks{
				Events:        cfg.WebhookURL("/events"),
				Installations: cfg.WebhookURL("/installations"),
			},
			Interactivity: Interactivity{
				RequestURL:           cfg.WebhookURL("/events"),
				MessageMenuOptionURL: cfg.WebhookURL("/events"),
			},
		},
		Configuration: SettingsSpec{RequiredSettings: []string{}, OptionalSettings: []string{}},
		Scopes: Scopes{
			Required: PlatformScopes{Platform: []Scope{{
				Scope:       "webhooks:read",
				Reason:      "Read webhook data",
				Description: "Access to read webhook information",
			}}},
			Optional: PlatformScopes{Platform: []Scope{}},
		},
		Events:     EventsSpec{Subscribe: []string{}, Publish: []string{}},
		Activities: []string{},
		Metadata:   Metadata{IsPrivilegedApp: false},
	}
}
