package helper

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolmanagement_backend/internals/configs"
	"schoolmanagement_backend/internals/helpers/apperror"
)

func respond(t *testing.T, err error) (int, string) {
	t.Helper()
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/", func(c *fiber.Ctx) error { return err })

	resp, e := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, e)
	defer resp.Body.Close()
	body, e := io.ReadAll(resp.Body)
	require.NoError(t, e)
	return resp.StatusCode, string(body)
}

func TestFromError_StatusMapping(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{apperror.Validation("x"), http.StatusBadRequest},
		{apperror.NoRoster("x"), http.StatusBadRequest},
		{apperror.Duplicate("x"), http.StatusConflict},
		{apperror.Conflict("x"), http.StatusConflict},
		{apperror.NotFound("x"), http.StatusNotFound},
		{apperror.Forbidden("x"), http.StatusForbidden},
		{apperror.Unavailable("x"), http.StatusServiceUnavailable},
		{apperror.Configuration("x"), http.StatusInternalServerError},
		{errors.Wrap(apperror.NotFound("x"), "ctx"), http.StatusNotFound},
		{fiber.NewError(http.StatusUnauthorized, "nope"), http.StatusUnauthorized},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		code, body := respond(t, tt.err)
		assert.Equal(t, tt.code, code, tt.err.Error())
		assert.Contains(t, body, `"status":"error"`)
	}
}

func TestFromError_HidesInternalDetails(t *testing.T) {
	prev := configs.AppConfig
	t.Cleanup(func() { configs.AppConfig = prev })

	configs.AppConfig = &configs.Config{ExposeInternalErrors: false}
	_, body := respond(t, apperror.Internal(errors.New("pq: relation missing")))
	assert.Contains(t, body, GenericServerMessage)
	assert.NotContains(t, body, "relation missing")

	// ConfigurationError tetap tampil
	_, body = respond(t, apperror.Configuration("Product '%s' tidak ditemukan. Harap buat dulu.", "SPP"))
	assert.Contains(t, body, "Product 'SPP' tidak ditemukan")

	configs.AppConfig = &configs.Config{ExposeInternalErrors: true}
	_, body = respond(t, errors.New("pq: relation missing"))
	assert.Contains(t, body, "relation missing")
}
