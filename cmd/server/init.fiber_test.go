package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"explorerhub/config"
	authtoken "explorerhub/internal/api/auth/token"
	"explorerhub/internal/api/router"
	"explorerhub/internal/common"
	"explorerhub/internal/database"
	"explorerhub/internal/global"
	"explorerhub/internal/logger"
	"explorerhub/internal/metrics"
	"explorerhub/internal/rating"
	"explorerhub/internal/sequence"

	"github.com/gofiber/fiber/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func TestMain(m *testing.M) {
	_ = logger.Init(&logger.LogConfig{Level: "error", Format: "text", Output: "stdout", FilterModules: "*"})
	code := m.Run()
	logger.Shutdown()
	os.Exit(code)
}

// newTestApp wires the real app on collections of a client that is never dialed, so only
// requests answered before any query can be exercised.
func newTestApp(t *testing.T) (*fiber.App, *authtoken.Manager) {
	t.Helper()
	return newTestAppWith(t, &config.Configuration{CORS_Origins: "*"})
}

func newTestAppWith(t *testing.T, cfg *config.Configuration) (*fiber.App, *authtoken.Manager) {
	t.Helper()
	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI("mongodb://127.0.0.1:1").SetServerSelectionTimeout(200*time.Millisecond))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	global.InitColNames()
	global.InitValidator()
	require.NoError(t, database.RegisterCollections(client.Database("explorerhub_wiring")))

	tokens, err := authtoken.NewManager("test-secret", time.Hour)
	require.NoError(t, err)
	deps := router.Deps{
		Sequences: sequence.NewAllocator(sequence.NewMemoryStore(nil)),
		Ratings:   rating.NewAggregator(rating.NewMemoryStore()),
		Tokens:    tokens,
	}
	app, err := InitFiberApp(cfg, metrics.New(prometheus.NewRegistry()), deps)
	require.NoError(t, err)
	return app, tokens
}

func do(t *testing.T, app *fiber.App, method, path, token, body string) (int, map[string]any, http.Header) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	_ = json.Unmarshal(raw, &out)
	return resp.StatusCode, out, resp.Header
}

func TestApp_Probes(t *testing.T) {
	app, _ := newTestApp(t)

	status, body, header := do(t, app, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, header.Get("X-Request-ID"))
	assert.Equal(t, "nosniff", header.Get("X-Content-Type-Options"))

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "explorerhub_http_requests_total")
}

func TestApp_RouteProtection(t *testing.T) {
	app, tokens := newTestApp(t)
	clientToken, err := tokens.Issue(3, "client", "c@example.com")
	require.NoError(t, err)

	cases := []struct {
		name   string
		method string
		path   string
		token  string
		body   string
		status int
		code   string
	}{
		{"unknown route", http.MethodGet, "/api/v1/nope", "", "", http.StatusNotFound, common.ErrCodeDatabaseQuery.Code},
		{"me needs a token", http.MethodGet, "/api/v1/auth/me", "", "", http.StatusUnauthorized, common.ErrCodeAuthToken.Code},
		{"garbage token", http.MethodGet, "/api/v1/auth/me", "abc", "", http.StatusUnauthorized, common.ErrCodeAuthToken.Code},
		{"signup validation", http.MethodPost, "/api/v1/auth/signup", "", `{"email":"x"}`, http.StatusBadRequest, common.ErrCodeValidationInput.Code},
		{"create business needs a token", http.MethodPost, "/api/v1/businesses", "", `{}`, http.StatusUnauthorized, common.ErrCodeAuthToken.Code},
		{"business list filter", http.MethodGet, "/api/v1/businesses?min_rating=9", "", "", http.StatusBadRequest, common.ErrCodeValidationInput.Code},
		{"create review needs a token", http.MethodPost, "/api/v1/reviews", "", `{}`, http.StatusUnauthorized, common.ErrCodeAuthToken.Code},
		{"review validation", http.MethodPost, "/api/v1/reviews", clientToken, `{"business_id":1,"rating":9,"title":"t","text":"x"}`, http.StatusBadRequest, common.ErrCodeValidationInput.Code},
		{"review paging", http.MethodGet, "/api/v1/reviews/business/1?limit=0", "", "", http.StatusBadRequest, common.ErrCodeValidationInput.Code},
		{"trips need a token", http.MethodGet, "/api/v1/trips", "", "", http.StatusUnauthorized, common.ErrCodeAuthToken.Code},
		{"trip validation", http.MethodPost, "/api/v1/trips", clientToken, `{"name":"a"}`, http.StatusBadRequest, common.ErrCodeValidationInput.Code},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body, _ := do(t, app, tc.method, tc.path, tc.token, tc.body)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.code, body["code"])
			assert.Equal(t, "error", body["status"])
		})
	}
}

func TestApp_SystemHealthReportsDegradedWithoutSession(t *testing.T) {
	app, _ := newTestApp(t)
	global.MongoDB_Session = nil

	status, body, _ := do(t, app, http.MethodGet, "/api/v1/system/health", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, status)
	data := body["data"].(map[string]any)
	assert.Equal(t, "degraded", data["status"])
}

func TestApp_CorsWithCredentials(t *testing.T) {
	cfg := &config.Configuration{CORS_Origins: "https://app.example", CORS_AllowCredentials: true}
	app, _ := newTestAppWith(t, cfg)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://app.example")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "https://app.example", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))
}

type noBusinesses struct{}

func (noBusinesses) BusinessIDs(context.Context, int64, int64) ([]int64, error) {
	return nil, nil
}

func TestStartRatingReconcile(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ratings := rating.NewAggregator(rating.NewMemoryStore())

	assert.False(t, startRatingReconcile(ctx, &config.Configuration{RatingReconcile_Interval: 0}, noBusinesses{}, ratings))
	assert.True(t, startRatingReconcile(ctx, &config.Configuration{RatingReconcile_Interval: 60}, noBusinesses{}, ratings))
}
