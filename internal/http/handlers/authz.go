package handlers

import (
	"okeanmarket/internal/domain"
	applog "okeanmarket/internal/log"
	"okeanmarket/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AttachStaff resolves the session's staff account once per request so
// handlers and guards read it from Locals instead of re-querying.
func AttachStaff(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if sid := c.Cookies("sid"); sid != "" {
			if st, err := auth.CurrentStaff(sid); err == nil && st != nil {
				c.Locals("staff", st)
			}
		}
		return c.Next()
	}
}

func RequireCourier() fiber.Handler {
	return func(c *fiber.Ctx) error {
		st, _ := c.Locals("staff").(*domain.StaffUser)
		if st == nil || st.Role != domain.RoleCourier {
			applog.Security(c, "access.denied.courier", nil)
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"code": "forbidden", "error": "courier access required"})
		}
		return c.Next()
	}
}

func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		st, _ := c.Locals("staff").(*domain.StaffUser)
		if st == nil || st.Role != domain.RoleAdmin {
			applog.Security(c, "access.denied.admin", nil)
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"code": "forbidden", "error": "admin access required"})
		}
		return c.Next()
	}
}
