package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"rewear/internal/config"
	"rewear/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testJWTSecret = "test-secret-key-12345678901234567890"

func testConfig() *config.Config {
	return &config.Config{
		Env:                "test",
		Port:               "0",
		JWTSecret:          testJWTSecret,
		JWTIssuer:          "rewear-api",
		JWTAudience:        "rewear-client",
		JWTTTL:             time.Hour,
		DBDriver:           config.DriverSQLite,
		FeatureFlags:       config.FlagDemoPasswordReset + "=on",
		BodyLimitMB:        2,
		RateLimitPerMinute: 1000,
		ImageProxyTimeout:  2 * time.Second,
		ImageProxyMaxBytes: 1024,
	}
}

// newTestApp wires a full Server over a fresh in-memory database.
func newTestApp(t *testing.T, cfg *config.Config) (*fiber.App, *Server, *gorm.DB) {
	t.Helper()
	db := testutil.NewTestDB(t)
	s, err := NewServerWithDeps(cfg, db, nil)
	require.NoError(t, err)
	return s.App(), s, db
}

type apiResponse struct {
	Status int
	Body   map[string]any
	Raw    []byte
}

func doRequest(t *testing.T, app *fiber.App, method, path, token string, body any) apiResponse {
	t.Helper()

	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			payload, err := json.Marshal(b)
			require.NoError(t, err)
			reader = bytes.NewReader(payload)
		}
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	out := apiResponse{Status: resp.StatusCode, Raw: raw}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out.Body), string(raw))
	}
	return out
}

// signup registers a user through the API and returns its token and id.
func signup(t *testing.T, app *fiber.App, name, email, phone string) (string, uint) {
	t.Helper()
	res := doRequest(t, app, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"name":     name,
		"email":    email,
		"password": "password1",
		"location": "Amman",
		"contact":  phone,
	})
	require.Equal(t, http.StatusCreated, res.Status, string(res.Raw))
	user := res.Body["user"].(map[string]any)
	return res.Body["token"].(string), uint(user["id"].(float64))
}
