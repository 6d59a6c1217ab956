package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "okeanmarket/internal/log"
	"okeanmarket/internal/services"
	"okeanmarket/internal/validate"
)

type OrderHandler struct {
	Orders *services.OrderService
}

type checkoutRequest struct {
	Address string   `json:"address"`
	Lat     *float64 `json:"lat"`
	Lng     *float64 `json:"lng"`
	Phone   string   `json:"phone"`
	Comment string   `json:"comment"`
}

// Place is the checkout submission: cart -> order, status new.
func (h *OrderHandler) Place(c *fiber.Ctx) error {
	var req checkoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"code": "validation", "error": "bad request body"})
	}

	sctx := sessionCtx(c)
	o, err := h.Orders.Create(c.Context(), sctx, services.CheckoutInput{
		Address: req.Address,
		Lat:     req.Lat,
		Lng:     req.Lng,
		Phone:   req.Phone,
		Comment: req.Comment,
	})
	if err != nil {
		applog.Security(c, "order.place.fail", map[string]any{"error": err.Error()})
		return fail(c, err)
	}

	applog.Audit(c, "order.place", map[string]any{
		"order_id": o.ID,
		"total":    o.TotalPrice.String(),
		"guest":    sctx.UserID == nil,
	})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"orderId": o.ID, "order": o})
}

func (h *OrderHandler) View(c *fiber.Ctx) error {
	oid, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"code": "validation", "error": "invalid order id"})
	}
	o, err := h.Orders.Get(sessionCtx(c), oid)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(o)
}

// History lists the shopper's own orders, newest first.
func (h *OrderHandler) History(c *fiber.Ctx) error {
	orders, err := h.Orders.ListForUser(sessionCtx(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(orders)
}
