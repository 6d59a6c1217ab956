package handlers

import (
	"github.com/gofiber/fiber/v2"

	"okeanmarket/internal/domain"
	applog "okeanmarket/internal/log"
	"okeanmarket/internal/services"
	"okeanmarket/internal/validate"
)

type AdminHandler struct {
	Orders *services.OrderService
}

func (h *AdminHandler) OrdersPage(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 100)
	orders, err := h.Orders.ListLatest(sessionCtx(c), limit)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(orders)
}

type statusRequest struct {
	Status string `json:"status"`
}

// UpdateOrderStatus drives the admin board's status dropdown through the
// same transition rules the courier flow uses.
func (h *AdminHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	oid, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"code": "validation", "error": "invalid order id"})
	}
	var req statusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"code": "validation", "error": "bad request body"})
	}

	o, err := h.Orders.SetStatus(c.Context(), sessionCtx(c), oid, domain.OrderStatus(req.Status))
	if err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "admin.order.status", map[string]any{"order_id": o.ID, "status": o.Status})
	return c.JSON(o)
}

func (h *AdminHandler) CancelOrder(c *fiber.Ctx) error {
	oid, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"code": "validation", "error": "invalid order id"})
	}
	o, err := h.Orders.Cancel(c.Context(), sessionCtx(c), oid)
	if err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "admin.order.cancel", map[string]any{"order_id": o.ID})
	return c.JSON(o)
}

// Couriers reports per-courier accepted/delivered counts derived from orders.
func (h *AdminHandler) Couriers(c *fiber.Ctx) error {
	stats, err := h.Orders.CourierStats(sessionCtx(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(stats)
}
