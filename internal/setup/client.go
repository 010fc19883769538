package setup

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

const (
	createAppPath = "/apps/create-app"
	installPath   = "/apps/install"
)

// Client talks to the upstream platform's app-management API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient builds a registration client.
func NewClient(apiKey, baseURL string, logger *zap.Logger) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 40 * time.Second},
		logger:     logger,
	}
}

type createAppRequest struct {
	AppVisibility string   `json:"app_visibility"`
	Manifest      Manifest `json:"manifest"`
}

type installRequest struct {
	TeamIDs          []string     `json:"teamIds"`
	AppID            string       `json:"appId"`
	AppConfiguration SettingsSpec `json:"appConfiguration"`
}

// appIDEnvelope covers the id spellings the create-app endpoint has been
// seen returning.
type appIDEnvelope struct {
	AppID string `json:"appId"`
	UID   string `json:"uid"`
	Data  struct {
		AppID string `json:"appId"`
		UID   string `json:"uid"`
	} `json:"data"`
}

func (e appIDEnvelope) id() string {
	for _, candidate := range []string{e.AppID, e.UID, e.Data.AppID, e.Data.UID} {
		if candidate != "" {
			return candidate
		}
	}
	return ""
}

// CreateApp registers the bridge and returns the assigned app id.
func (c *Client) CreateApp(ctx context.Context, manifest Manifest) (string, error) {
	payload := createAppRequest{AppVisibility: "private", Manifest: manifest}

	raw, err := c.postJSON(ctx, c.baseURL+createAppPath, payload)
	if err != nil {
		return "", err
	}

	var envelope appIDEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return "", fmt.Errorf("decode create-app response: %w", err)
	}
	appID := envelope.id()
	if appID == "" {
		return "", fmt.Errorf("create-app response carries no appId/uid: %s", truncate(raw))
	}
	return appID, nil
}

// InstallApp installs the registered app on the given teams.
func (c *Client) InstallApp(ctx context.Context, appID string, teamIDs []string) error {
	payload := installRequest{
		TeamIDs:          teamIDs,
		AppID:            appID,
		AppConfiguration: SettingsSpec{RequiredSettings: []string{}, OptionalSettings: []string{}},
	}
	_, err := c.postJSON(ctx, c.baseURL+installPath, payload)
	return err
}

func (c *Client) postJSON(ctx context.Context, url string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		c.logger.Error("app-management API error",
			zap.String("url", url),
			zap.Int("status", resp.StatusCode),
			zap.String("body", truncate(raw)))
		return nil, fmt.Errorf("%s returned %d", url, resp.StatusCode)
	}
	return raw, nil
}

func truncate(raw []byte) string {
	const limit = 4000
	if len(raw) > limit {
		return string(raw[:limit])
	}
	return string(raw)
}
