package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminOnly(t *testing.T) {
	app := fiber.New()
	app.Get("/admin", AdminOnly("secret"), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", fiber.StatusUnauthorized},
		{"wrong", "nope", fiber.StatusForbidden},
		{"valid", "secret", fiber.StatusOK},
		{"bearer", "Bearer secret", fiber.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tt.header != "" {
				req.Header.Set("X-API-Key", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestAdminOnlyDisabledWithoutKey(t *testing.T) {
	app := fiber.New()
	app.Get("/admin", AdminOnly(""), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("X-API-Key", "anything")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestValidateQueryValues(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/page", ValidateQueryValues("max=8"), func(c *fiber.Ctx) error {
		return c.SendString(c.Query("item"))
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/page?item=short", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/page?item=far-too-long", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

type body struct {
	HTML string `json:"html" validate:"required"`
}

func TestValidateRequest(t *testing.T) {
	app := fiber.New()
	app.Put("/pages", ValidateRequest(func() interface{} { return &body{} }), func(c *fiber.Ctx) error {
		return c.SendString(c.Locals("validated").(*body).HTML)
	})

	send := func(payload string) *http.Response {
		req := httptest.NewRequest(http.MethodPut, "/pages", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp
	}

	assert.Equal(t, fiber.StatusOK, send(`{"html":"<p>x</p>"}`).StatusCode)
	assert.Equal(t, fiber.StatusUnprocessableEntity, send(`{"html":""}`).StatusCode)
	assert.Equal(t, fiber.StatusBadRequest, send(`{`).StatusCode)
}
