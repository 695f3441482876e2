package middleware

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthApp() *fiber.App {
	app := fiber.New()
	app.Use(ClerkAuth("sk_test_dummy"))
	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString(UserID(c))
	})
	return app
}

func TestClerkAuth_MissingToken(t *testing.T) {
	resp, err := newAuthApp().Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "Missing authorization token", result["error"])
}

func TestClerkAuth_InvalidHeaderFormat(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Token abc")

	resp, err := newAuthApp().Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "Invalid authorization header format", result["error"])
}

func TestUserID_Unauthenticated(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("[" + UserID(c) + "]")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	body := make([]byte, 16)
	n, _ := resp.Body.Read(body)
	assert.Equal(t, "[]", string(body[:n]))
}

func TestCORS_AllowsConfiguredOrigin(t *testing.T) {
	app := fiber.New()
	app.Use(CORS([]string{"https://explorer.example.com"}))
	app.Get("/", func(c fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Origin", "https://explorer.example.com")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "https://explorer.example.com", resp.Header.Get("Access-Control-Allow-Origin"))
}
