package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "okeanmarket/internal/log"
	"okeanmarket/internal/services"
	"okeanmarket/internal/validate"
)

type AuthHandler struct {
	Auth *services.AuthService
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"code": "validation", "error": "bad request body"})
	}
	login, ok := validate.Login(req.Login)
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "login"})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"code": "validation", "error": "invalid login"})
	}

	sid := ensureSID(c)
	st, err := h.Auth.Login(sid, login, req.Password)
	if err != nil {
		applog.Security(c, "auth.login.fail", map[string]any{"login": login})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"code": "bad_credentials", "error": "invalid login or password"})
	}
	applog.Audit(c, "auth.login", map[string]any{"staff_id": st.ID, "role": st.Role})
	return c.JSON(st)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if sid := c.Cookies("sid"); sid != "" {
		if err := h.Auth.Logout(sid); err != nil {
			return fail(c, err)
		}
	}
	return c.JSON(fiber.Map{"ok": true})
}
