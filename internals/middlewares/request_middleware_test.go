package middlewares

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolmanagement_backend/internals/helpers/dbtime"
)

func TestSchoolLocation_ReadByGetSchoolLocation(t *testing.T) {
	wib := time.FixedZone("WIB", 7*3600)

	var got *time.Location
	app := fiber.New()
	app.Use(SchoolLocation(wib))
	app.Get("/", func(c *fiber.Ctx) error {
		got = dbtime.GetSchoolLocation(c)
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Same(t, wib, got)
}

func TestRequestTimeout_SetsDeadline(t *testing.T) {
	var hasDeadline bool
	app := fiber.New()
	app.Use(RequestTimeout(time.Second))
	app.Get("/", func(c *fiber.Ctx) error {
		_, hasDeadline = c.UserContext().Deadline()
		return c.SendStatus(fiber.StatusOK)
	})

	_, err := app.Test(httptest.NewRequest("GET", "/", nil), -1)
	require.NoError(t, err)
	assert.True(t, hasDeadline)
}
