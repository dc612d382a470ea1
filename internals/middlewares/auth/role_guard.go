package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"schoolmanagement_backend/internals/constants"
)

// OnlyRoles menolak request terautentikasi yang role-nya tidak ada di roles.
// Request tanpa klaim (auth dimatikan) diteruskan.
func OnlyRoles(feature string, roles ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[strings.ToLower(r)] = struct{}{}
	}
	return func(c *fiber.Ctx) error {
		if authed, _ := c.Locals(LocAuthenticated).(bool); !authed {
			return c.Next()
		}
		role, _ := c.Locals(LocUserRole).(string)
		if _, ok := allowed[strings.ToLower(role)]; !ok {
			return fiber.NewError(fiber.StatusForbidden, constants.RoleErrorFinance(feature))
		}
		return c.Next()
	}
}
