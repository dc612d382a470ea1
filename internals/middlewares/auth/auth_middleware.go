// internals/middlewares/auth/auth_middleware.go
package auth

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	log "github.com/sirupsen/logrus"
)

const (
	LocUserID   = "user_id"
	LocUserRole = "userRole"
	LocUserName = "user_name"

	LocAuthenticated = "authenticated"
)

type AuthJWTOpts struct {
	Secret string
	// Required=false → middleware tidak memeriksa apa pun (API_REQUIRE_AUTH=false)
	Required bool
	// path publik (webhook dsb.) yang di-skip
	SkipPaths []string
	// toleransi jam antar server untuk exp
	Leeway time.Duration
}

// AuthJWT memverifikasi bearer token HS256 dari Authorization header
// (atau cookie access_token) lalu menyimpan klaim dasar ke Locals.
func AuthJWT(opts AuthJWTOpts) fiber.Handler {
	skip := make(map[string]struct{}, len(opts.SkipPaths))
	for _, p := range opts.SkipPaths {
		skip[strings.TrimRight(p, "/")] = struct{}{}
	}
	if opts.Leeway == 0 {
		opts.Leeway = 30 * time.Second
	}

	return func(c *fiber.Ctx) error {
		if !opts.Required {
			return c.Next()
		}
		if _, ok := skip[strings.TrimRight(c.Path(), "/")]; ok {
			return c.Next()
		}

		tokenString, err := extractBearerToken(c)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, err.Error())
		}

		if opts.Secret == "" {
			log.Error("[AUTH] JWT_SECRET kosong")
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - auth not configured")
		}

		claims := jwt.MapClaims{}
		parser := jwt.Parser{
			SkipClaimsValidation: true,
			ValidMethods:         []string{jwt.SigningMethodHS256.Alg()},
		}
		if _, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			return []byte(opts.Secret), nil
		}); err != nil {
			log.WithError(err).Debug("[AUTH] gagal parse token")
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Token parse error")
		}

		if err := validateTokenExpiry(claims, opts.Leeway); err != nil {
			log.WithError(err).Debug("[AUTH] exp validation")
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Token expired")
		}

		storeBasicClaimsToLocals(c, claims)
		c.Locals(LocAuthenticated, true)
		return c.Next()
	}
}
