package server

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"rewear/internal/config"
	"rewear/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProtectedRoutesRequireToken(t *testing.T) {
	app, _, _ := newTestApp(t, testConfig())

	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/api/me"},
		{http.MethodPost, "/api/posts"},
		{http.MethodGet, "/api/favorites"},
		{http.MethodGet, "/api/messages/threads"},
		{http.MethodGet, "/api/notifications"},
		{http.MethodPost, "/api/ratings"},
	} {
		res := doRequest(t, app, route.method, route.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, res.Status, route.path)
		assert.Equal(t, "Unauthorized", res.Body["error"], route.path)
	}

	res := doRequest(t, app, http.MethodGet, "/api/me", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, res.Status)
	assert.Equal(t, "Invalid token", res.Body["error"])
}

func TestPublicRoutes(t *testing.T) {
	app, _, _ := newTestApp(t, testConfig())

	health := doRequest(t, app, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, health.Status)
	assert.Equal(t, true, health.Body["ok"])

	ready := doRequest(t, app, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, ready.Status)
	assert.Equal(t, "unavailable", ready.Body["checks"].(map[string]any)["redis"])

	categories := doRequest(t, app, http.MethodGet, "/api/categories", "", nil)
	assert.Equal(t, http.StatusOK, categories.Status)

	unknown := doRequest(t, app, http.MethodGet, "/api/does-not-exist", "", nil)
	assert.Equal(t, http.StatusNotFound, unknown.Status)
	assert.Equal(t, "Route not found", unknown.Body["error"])
}

func TestResetPasswordFlag(t *testing.T) {
	body := map[string]string{"email": "reset@x.com", "newPassword": "another1"}

	on, _, _ := newTestApp(t, testConfig())
	signup(t, on, "Reset", "reset@x.com", "+962790000001")
	res := doRequest(t, on, http.MethodPost, "/api/auth/reset-password", "", body)
	assert.Equal(t, http.StatusOK, res.Status, string(res.Raw))

	cfg := testConfig()
	cfg.FeatureFlags = config.FlagDemoPasswordReset + "=off"
	off, _, _ := newTestApp(t, cfg)
	res = doRequest(t, off, http.MethodPost, "/api/auth/reset-password", "", body)
	assert.Equal(t, http.StatusNotFound, res.Status)
}

func TestAdminFeatureFlags(t *testing.T) {
	app, _, db := newTestApp(t, testConfig())
	userToken, _ := signup(t, app, "User", "user@x.com", "+962790000002")
	adminToken, adminID := signup(t, app, "Admin", "admin@x.com", "+962790000003")

	res := doRequest(t, app, http.MethodGet, "/api/admin/feature-flags", userToken, nil)
	assert.Equal(t, http.StatusForbidden, res.Status)

	require.NoError(t, db.Model(&models.User{}).Where("id = ?", adminID).Update("role", models.RoleAdmin).Error)
	res = doRequest(t, app, http.MethodGet, "/api/admin/feature-flags", adminToken, nil)
	require.Equal(t, http.StatusOK, res.Status)
	assert.Equal(t, "on", res.Body["raw"].(map[string]any)[config.FlagDemoPasswordReset])
}

func TestFrontendFallback(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>rewear</html>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.js"), []byte("console.log(1)"), 0o644))

	cfg := testConfig()
	cfg.StaticDir = dir
	app, _, _ := newTestApp(t, cfg)

	asset := doRequest(t, app, http.MethodGet, "/app.js", "", nil)
	assert.Equal(t, http.StatusOK, asset.Status)
	assert.Equal(t, "console.log(1)", string(asset.Raw))

	deep := doRequest(t, app, http.MethodGet, "/item/42", "", nil)
	assert.Equal(t, http.StatusOK, deep.Status)
	assert.Contains(t, string(deep.Raw), "rewear")

	api := doRequest(t, app, http.MethodGet, "/api/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, api.Status)
}
