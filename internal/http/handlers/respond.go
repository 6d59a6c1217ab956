package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"okeanmarket/internal/domain"
	applog "okeanmarket/internal/log"
	"okeanmarket/internal/session"
)

// ensureSID returns the caller's session id, minting a cookie on first touch.
func ensureSID(c *fiber.Ctx) string {
	sid := c.Cookies("sid")
	if sid == "" {
		sid = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     "sid",
			Value:    sid,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
			Secure:   false, // enable true behind TLS
		})
	}
	return sid
}

// sessionCtx assembles the explicit per-request identity every service call
// takes. Staff comes from the login-bound session (set by middleware); the
// shopper id from the X-User-Id header the Mini-App sends.
func sessionCtx(c *fiber.Ctx) session.Context {
	sctx := session.Context{SID: ensureSID(c)}
	if st, ok := c.Locals("staff").(*domain.StaffUser); ok {
		sctx.Staff = st
	}
	if raw := c.Get("X-User-Id"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil && id > 0 {
			sctx.UserID = &id
		}
	}
	return sctx
}

// fail maps the domain error taxonomy onto HTTP statuses with a stable
// machine-readable code, so the Mini-App can show the specific message
// ("someone already accepted this order") instead of a generic failure.
func fail(c *fiber.Ctx, err error) error {
	var ve *domain.ValidationError
	var te *domain.TransitionError

	switch {
	case errors.As(err, &ve):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"code": "validation", "error": ve.Error()})
	case errors.Is(err, domain.ErrEmptyCart):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"code": "empty_cart", "error": "cart is empty"})
	case errors.Is(err, domain.ErrUnavailable):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"code": "unavailable", "error": "product is not available"})
	case errors.Is(err, domain.ErrAlreadyClaimed):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"code": "already_claimed", "error": "someone else already accepted this order"})
	case errors.As(err, &te):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"code": "invalid_transition", "error": te.Error()})
	case errors.Is(err, domain.ErrNotCourier):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"code": "not_assigned", "error": "order is assigned to a different courier"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"code": "forbidden", "error": "not allowed"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"code": "not_found", "error": "not found"})
	default:
		applog.Error(c, "server.error", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"code": "internal", "error": "try again"})
	}
}
