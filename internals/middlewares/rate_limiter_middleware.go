package middlewares

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	helper "schoolmanagement_backend/internals/helpers"
)

// path yang tidak ikut limiter global (webhook Midtrans, health & metrics)
var unlimitedPaths = map[string]struct{}{
	"/api/invoices/notification": {},
	"/health":                    {},
	"/metrics":                   {},
}

func ipLimiter(max int, window time.Duration, message string, next func(*fiber.Ctx) bool) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:          max,
		Expiration:   window,
		KeyGenerator: func(c *fiber.Ctx) string { return c.IP() },
		Next:         next,
		LimitReached: func(c *fiber.Ctx) error {
			c.Set(fiber.HeaderRetryAfter, "60")
			return helper.Error(c, fiber.StatusTooManyRequests, message)
		},
	})
}

// GlobalRateLimiter: 100 request/menit per IP.
func GlobalRateLimiter() fiber.Handler {
	return ipLimiter(100, time.Minute, "Terlalu banyak permintaan. Silakan coba lagi nanti.", func(c *fiber.Ctx) bool {
		_, ok := unlimitedPaths[c.Path()]
		return ok
	})
}

// BillingRunRateLimiter dipasang di POST /api/billing/run.
func BillingRunRateLimiter() fiber.Handler {
	return ipLimiter(3, time.Minute, "Billing baru saja dijalankan. Tunggu sebentar.", nil)
}
