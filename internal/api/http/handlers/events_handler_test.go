package handlers_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/ticket-alert-bridge/internal/api/http"
	"github.com/spec-kit/ticket-alert-bridge/internal/api/http/handlers"
	"github.com/spec-kit/ticket-alert-bridge/internal/auth"
	"github.com/spec-kit/ticket-alert-bridge/internal/config"
	"github.com/spec-kit/ticket-alert-bridge/internal/dispatch"
	"github.com/spec-kit/ticket-alert-bridge/internal/idempotency"
	"github.com/spec-kit/ticket-alert-bridge/internal/observability"
	"github.com/spec-kit/ticket-alert-bridge/internal/routing"
	"github.com/spec-kit/ticket-alert-bridge/internal/service"
)

const testToken = "sekrit"

// newTestApp wires a full bridge app against the given downstream endpoint,
// mirroring cmd/api.
func newTestApp(t *testing.T, downstreamURL string) *fiber.App {
	t.Helper()

	logger := zap.NewNop()
	metrics := observability.NewMetrics()

	resolver := routing.NewResolver(config.RoutingConfig{
		AssigneeGroups: map[string]string{"hossamhafez@luciq.ai": "A"},
		RoutingKeys:    map[string]string{"A": "key-a"},
	})
	client := dispatch.NewClient(config.DispatchConfig{
		EndpointURL:    downstreamURL,
		Source:         "ticket-alert-bridge",
		TimeoutSeconds: 5,
	}, logger)
	bridgeService := service.NewBridgeService(idempotency.NewMemoryStore(), resolver, client, nil, logger)

	app := fiber.New(fiber.Config{
		JSONEncoder: json.Marshal,
		JSONDecoder: json.Unmarshal,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, 0)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:        handlers.NewHealthHandler(),
		Events:        handlers.NewEventsHandler(bridgeService),
		Installations: handlers.NewInstallationsHandler(),
		Token:         auth.NewTokenMiddleware(auth.NewTokenVerifier(testToken)),
	})
	return app
}

// newAcceptingDownstream stands in for the incident-events endpoint and
// counts the calls it receives.
func newAcceptingDownstream(t *testing.T) (*httptest.Server, *atomic.Int64) {
	t.Helper()
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"status":"success","dedup_key":"ticket-T-1"}`))
	}))
	t.Cleanup(server.Close)
	return server, &calls
}

func postEvent(t *testing.T, app *fiber.App, token, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/events?token="+token, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	return resp
}

func decodeEventResponse(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("decode body %q: %v", raw, err)
	}
	return decoded
}

const assignedEventBody = `{"message":{"eventId":"ev-1","eventType":"ticket:created","payload":{"ticket":{"id":"T-1","title":"Broken","priorityName":"p0","assignedTo":[{"email":"hossamhafez@luciq.ai"}]}}}}`

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()

	downstream, _ := newAcceptingDownstream(t)
	app := newTestApp(t, downstream.URL)

	// No token required.
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	body := decodeEventResponse(t, resp)
	if body["ok"] != true {
		t.Fatalf("body = %+v", body)
	}
}

func TestEventsRejectsBadToken(t *testing.T) {
	t.Parallel()

	downstream, calls := newAcceptingDownstream(t)
	app := newTestApp(t, downstream.URL)

	tests := []struct {
		name  string
		token string
	}{
		{name: "missing token", token: ""},
		{name: "wrong token", token: "nope"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postEvent(t, app, tt.token, assignedEventBody)
			if resp.StatusCode != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", resp.StatusCode)
			}
		})
	}

	if calls.Load() != 0 {
		t.Fatalf("downstream saw %d calls", calls.Load())
	}
}

func TestEventsRejectsUnparseableBody(t *testing.T) {
	t.Parallel()

	downstream, calls := newAcceptingDownstream(t)
	app := newTestApp(t, downstream.URL)

	for _, body := range []string{"", "not json"} {
		resp := postEvent(t, app, testToken, body)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", resp.StatusCode)
		}
	}
	if calls.Load() != 0 {
		t.Fatalf("downstream saw %d calls", calls.Load())
	}
}

func TestEventsDispatchesAssignedTicket(t *testing.T) {
	t.Parallel()

	downstream, calls := newAcceptingDownstream(t)
	app := newTestApp(t, downstream.URL)

	resp := postEvent(t, app, testToken, assignedEventBody)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	body := decodeEventResponse(t, resp)
	if body["ok"] != true || body["serviceGroup"] != "A" || body["dispatched"] != true {
		t.Fatalf("body = %+v", body)
	}
	if body["ticketId"] != "T-1" {
		t.Errorf("ticketId = %v", body["ticketId"])
	}
	if calls.Load() != 1 {
		t.Fatalf("downstream calls = %d", calls.Load())
	}
}

func TestEventsDuplicateSubmission(t *testing.T) {
	t.Parallel()

	downstream, calls := newAcceptingDownstream(t)
	app := newTestApp(t, downstream.URL)

	first := decodeEventResponse(t, postEvent(t, app, testToken, assignedEventBody))
	if first["dispatched"] != true {
		t.Fatalf("first = %+v", first)
	}

	second := decodeEventResponse(t, postEvent(t, app, testToken, assignedEventBody))
	if second["ok"] != true || second["dispatched"] != false {
		t.Fatalf("second = %+v", second)
	}

	if calls.Load() != 1 {
		t.Fatalf("downstream calls = %d, want 1", calls.Load())
	}
}

func TestEventsDownstreamFailureStillAcknowledged(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	downstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(downstream.Close)
	app := newTestApp(t, downstream.URL)

	resp := postEvent(t, app, testToken, assignedEventBody)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200 despite downstream failure", resp.StatusCode)
	}
	body := decodeEventResponse(t, resp)
	if body["ok"] != true || body["dispatched"] != false {
		t.Fatalf("body = %+v", body)
	}

	// The ticket stays reserved: a further submission is a duplicate and
	// never reaches the downstream again.
	retry := decodeEventResponse(t, postEvent(t, app, testToken, assignedEventBody))
	if retry["dispatched"] != false || retry["reason"] != "ticket_already_triggered" {
		t.Fatalf("retry = %+v", retry)
	}
	if calls.Load() != 1 {
		t.Fatalf("downstream calls = %d, want 1", calls.Load())
	}
}

func TestEventsIgnoresUnknownEventType(t *testing.T) {
	t.Parallel()

	downstream, calls := newAcceptingDownstream(t)
	app := newTestApp(t, downstream.URL)

	body := `{"message":{"eventId":"ev-2","eventType":"comment:created","payload":{}}}`
	resp := postEvent(t, app, testToken, body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	decoded := decodeEventResponse(t, resp)
	if decoded["ok"] != true || decoded["dispatched"] != false {
		t.Fatalf("body = %+v", decoded)
	}
	if calls.Load() != 0 {
		t.Fatalf("downstream calls = %d", calls.Load())
	}
}

func TestEventsProbeRequests(t *testing.T) {
	t.Parallel()

	downstream, calls := newAcceptingDownstream(t)
	app := newTestApp(t, downstream.URL)

	for _, method := range []string{http.MethodGet, http.MethodHead} {
		req := httptest.NewRequest(method, "/events?token="+testToken, nil)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%s status = %d", method, resp.StatusCode)
		}
	}

	// Probes still require the token.
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/events?token=wrong", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}

	if calls.Load() != 0 {
		t.Fatalf("downstream calls = %d", calls.Load())
	}
}

func TestInstallationsEndpoint(t *testing.T) {
	t.Parallel()

	downstream, _ := newAcceptingDownstream(t)
	app := newTestApp(t, downstream.URL)

	for _, method := range []string{http.MethodGet, http.MethodHead, http.MethodPost} {
		req := httptest.NewRequest(method, "/installations?token="+testToken, nil)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%s status = %d", method, resp.StatusCode)
		}
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/installations?token=wrong", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
}
