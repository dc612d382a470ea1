package middlewares

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"schoolmanagement_backend/internals/configs"
	"schoolmanagement_backend/internals/metrics"
	"schoolmanagement_backend/internals/middlewares/logger"
)

// SetupMiddlewares: urutan penting, request id dulu supaya log & panic punya id.
func SetupMiddlewares(app *fiber.App, cfg *configs.Config) {
	app.Use(RequestID())
	app.Use(RecoveryMiddleware())
	app.Use(logger.LoggerMiddleware(cfg.Timezone.String()))
	app.Use(metrics.Middleware())
	app.Use(CorsMiddleware())
	app.Use(GlobalRateLimiter())
	app.Use(RequestTimeout(5 * time.Second))
	app.Use(SchoolLocation(cfg.Timezone))
}
