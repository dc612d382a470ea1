package middlewares

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"schoolmanagement_backend/internals/helpers/dbtime"
)

// RequestID: header X-Request-ID, disimpan di Locals("requestid").
func RequestID() fiber.Handler {
	return requestid.New(requestid.Config{
		Header:    fiber.HeaderXRequestID,
		Generator: uuid.NewString,
	})
}

// RequestTimeout memasang deadline pada UserContext untuk service & DB.
func RequestTimeout(d time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), d)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// SchoolLocation menyimpan timezone sekolah ke Locals.
func SchoolLocation(loc *time.Location) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(dbtime.LocSchoolLoc, loc)
		return c.Next()
	}
}
