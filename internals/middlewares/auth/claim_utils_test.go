package auth

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
)

func TestValidateTokenExpiry(t *testing.T) {
	now := time.Now().Unix()
	assert.NoError(t, validateTokenExpiry(jwt.MapClaims{"exp": float64(now + 60)}, 0))
	assert.NoError(t, validateTokenExpiry(jwt.MapClaims{"exp": float64(now - 10)}, 30*time.Second))
	assert.Error(t, validateTokenExpiry(jwt.MapClaims{"exp": float64(now - 120)}, 30*time.Second))
	assert.NoError(t, validateTokenExpiry(jwt.MapClaims{"exp": "9999999999"}, 0))
	assert.Error(t, validateTokenExpiry(jwt.MapClaims{}, 0))
	assert.Error(t, validateTokenExpiry(jwt.MapClaims{"exp": true}, 0))
}

func TestExtractBearerToken(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		tok, err := extractBearerToken(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).SendString(err.Error())
		}
		return c.SendString(tok)
	})

	cases := []struct {
		header, cookie string
		code           int
	}{
		{"Bearer abc", "", fiber.StatusOK},
		{"bearer   abc", "", fiber.StatusOK},
		{"Token abc", "", fiber.StatusUnauthorized},
		{"", "abc", fiber.StatusOK},
		{"", "", fiber.StatusUnauthorized},
	}
	for _, tc := range cases {
		req := httptest.NewRequest("GET", "/", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		if tc.cookie != "" {
			req.Header.Set("Cookie", "access_token="+tc.cookie)
		}
		resp, err := app.Test(req, -1)
		assert.NoError(t, err)
		assert.Equal(t, tc.code, resp.StatusCode, "%q/%q", tc.header, tc.cookie)
	}
}

func TestAuthJWT_DisabledPassesThrough(t *testing.T) {
	app := fiber.New()
	app.Use(AuthJWT(AuthJWTOpts{Required: false}))
	app.Get("/api/teachers", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	resp, err := app.Test(httptest.NewRequest("GET", "/api/teachers", nil), -1)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
