package main

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"salesdash/analytics"
	"salesdash/config"
	"salesdash/handlers"
	"salesdash/models"
	"salesdash/repository"
)

const testSecret = "server-test-secret"

func testServer(t *testing.T) *fiber.App {
	t.Helper()
	cfg := config.Config{
		Server:   config.ServerConfig{CORSOrigins: "*"},
		Database: config.DatabaseConfig{Driver: "memory"},
		JWT:      config.JWTConfig{Secret: testSecret},
	}
	config.AppConfig = cfg

	store := repository.NewMemoryStore()
	h := handlers.New(store, nil, nil, zap.NewNop(), analytics.DefaultConfig(), time.UTC)
	return newServer(cfg, store, h, zap.NewNop())
}

func bearer(t *testing.T, role string) string {
	t.Helper()
	claims := models.JwtClaims{
		UserID: "owner-1",
		Name:   "Budi",
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + s
}

func request(t *testing.T, app *fiber.App, method, path, token, body string) int {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestPublicEndpoints(t *testing.T) {
	app := testServer(t)

	assert.Equal(t, 200, request(t, app, "GET", "/health", "", ""))
	assert.Equal(t, 200, request(t, app, "GET", "/db", "", ""))
	assert.Equal(t, 404, request(t, app, "GET", "/nope", "", ""))
}

func TestAPIRequiresToken(t *testing.T) {
	app := testServer(t)

	assert.Equal(t, 401, request(t, app, "GET", "/api/v1/products", "", ""))
	assert.Equal(t, 200, request(t, app, "GET", "/api/v1/products", bearer(t, ""), ""))
}

func TestRolesAcrossRoutes(t *testing.T) {
	app := testServer(t)
	owner, viewer := bearer(t, "owner"), bearer(t, "viewer")

	assert.Equal(t, 201, request(t, app, "POST", "/api/v1/products", owner, `{"name":"Kopi","price":5000,"stock":10}`))
	assert.Equal(t, 403, request(t, app, "POST", "/api/v1/products", viewer, `{"name":"Teh","price":4000}`))
	assert.Equal(t, 200, request(t, app, "GET", "/api/v1/products", viewer, ""))
	assert.Equal(t, 403, request(t, app, "PUT", "/api/v1/settings", viewer, `{"businessName":"X"}`))
	assert.Equal(t, 200, request(t, app, "GET", "/api/v1/analytics", viewer, ""))
	assert.Equal(t, 200, request(t, app, "POST", "/api/v1/chat", viewer, `{"message":"stok?"}`))
	assert.Equal(t, 403, request(t, app, "POST", "/api/v1/email/send-report", viewer, ""))
	assert.Equal(t, 200, request(t, app, "POST", "/api/v1/query", bearer(t, "staff"), `{"query":"cek stok"}`))
	assert.Equal(t, 403, request(t, app, "GET", "/api/v1/activity", bearer(t, "staff"), ""))
	assert.Equal(t, 200, request(t, app, "GET", "/api/v1/activity", owner, ""))
}

func TestOpenStore(t *testing.T) {
	store, closeStore, err := openStore(context.Background(), config.DatabaseConfig{Driver: "memory"}, zap.NewNop())
	require.NoError(t, err)
	defer closeStore()
	assert.NoError(t, store.Ping(context.Background()))

	_, _, err = openStore(context.Background(), config.DatabaseConfig{Driver: "sqlite"}, zap.NewNop())
	assert.Error(t, err)

	_, _, err = openStore(context.Background(), config.DatabaseConfig{Driver: "postgres"}, zap.NewNop())
	assert.EqualError(t, err, "DATABASE_URL is not set")
}
