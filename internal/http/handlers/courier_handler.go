package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"okeanmarket/internal/domain"
	applog "okeanmarket/internal/log"
	"okeanmarket/internal/services"
	"okeanmarket/internal/validate"
)

type CourierHandler struct {
	Orders *services.OrderService
}

// Pool lists unassigned new orders, newest first.
func (h *CourierHandler) Pool(c *fiber.Ctx) error {
	orders, err := h.Orders.Pool(sessionCtx(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(orders)
}

// Active returns the courier's single in-flight order; 404 when idle.
func (h *CourierHandler) Active(c *fiber.Ctx) error {
	o, err := h.Orders.Active(sessionCtx(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(o)
}

func (h *CourierHandler) History(c *fiber.Ctx) error {
	orders, err := h.Orders.History(sessionCtx(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(orders)
}

func (h *CourierHandler) Accept(c *fiber.Ctx) error {
	oid, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"code": "validation", "error": "invalid order id"})
	}
	sctx := sessionCtx(c)
	o, err := h.Orders.Accept(c.Context(), sctx, oid)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyClaimed) {
			applog.Info(c, "order.accept.lost", map[string]any{"order_id": oid, "courier": sctx.CourierID()})
		}
		return fail(c, err)
	}
	applog.Audit(c, "order.accept", map[string]any{"order_id": o.ID, "courier": sctx.CourierID()})
	return c.JSON(o)
}

// Cancel lets a courier abandon the order assigned to them.
func (h *CourierHandler) Cancel(c *fiber.Ctx) error {
	oid, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"code": "validation", "error": "invalid order id"})
	}
	sctx := sessionCtx(c)
	o, err := h.Orders.Cancel(c.Context(), sctx, oid)
	if err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "order.cancel", map[string]any{"order_id": o.ID, "courier": sctx.CourierID()})
	return c.JSON(o)
}

func (h *CourierHandler) Complete(c *fiber.Ctx) error {
	oid, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"code": "validation", "error": "invalid order id"})
	}
	sctx := sessionCtx(c)
	o, err := h.Orders.Complete(c.Context(), sctx, oid)
	if err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "order.complete", map[string]any{"order_id": o.ID, "courier": sctx.CourierID()})
	return c.JSON(o)
}
