package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"rewear/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubVerifier map[string]*models.Identity

func (s stubVerifier) VerifyToken(token string) (*models.Identity, error) {
	if id, ok := s[token]; ok {
		return id, nil
	}
	return nil, errors.New("invalid")
}

func TestAuthRequired(t *testing.T) {
	app := fiber.New()
	verifier := stubVerifier{
		"good-token": {UserID: 123, Role: models.RoleUser, Name: "Sara"},
	}

	app.Get("/test", AuthRequired(verifier), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"userID": c.Locals("userID"),
			"role":   c.Locals("role"),
			"ctxUID": c.UserContext().Value(UserIDKey),
		})
	})

	tests := []struct {
		name           string
		authHeader     string
		expectedStatus int
		expectedError  string
	}{
		{name: "Happy Path", authHeader: "Bearer good-token", expectedStatus: http.StatusOK},
		{name: "Missing Header", expectedStatus: http.StatusUnauthorized, expectedError: "Unauthorized"},
		{name: "Invalid Format", authHeader: "Basic dXNlcjpwYXNz", expectedStatus: http.StatusUnauthorized, expectedError: "Unauthorized"},
		{name: "Empty Bearer", authHeader: "Bearer ", expectedStatus: http.StatusUnauthorized, expectedError: "Unauthorized"},
		{name: "Unknown Token", authHeader: "Bearer malformed.token.here", expectedStatus: http.StatusUnauthorized, expectedError: "Invalid token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			var body map[string]interface{}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, float64(123), body["userID"])
				assert.Equal(t, "user", body["role"])
				assert.Equal(t, float64(123), body["ctxUID"])
			} else {
				assert.Equal(t, tt.expectedError, body["error"])
				assert.Equal(t, models.CodeUnauthorized, body["code"])
			}
		})
	}
}
