package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "okeanmarket/internal/log"
	"okeanmarket/internal/services"
	"okeanmarket/internal/validate"
)

type CartHandler struct {
	Cart *services.CartService
}

type cartItemRequest struct {
	ProductID string `json:"productId"`
}

func (h *CartHandler) parseProduct(c *fiber.Ctx) (string, bool) {
	var req cartItemRequest
	if err := c.BodyParser(&req); err != nil {
		return "", false
	}
	return validate.ID(req.ProductID)
}

func (h *CartHandler) View(c *fiber.Ctx) error {
	cv, err := h.Cart.View(sessionCtx(c).SID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(cv)
}

func (h *CartHandler) Totals(c *fiber.Ctx) error {
	t, err := h.Cart.Totals(sessionCtx(c).SID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(t)
}

func (h *CartHandler) Add(c *fiber.Ctx) error {
	pid, ok := h.parseProduct(c)
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "productId"})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"code": "validation", "error": "invalid product id"})
	}
	if err := h.Cart.Add(sessionCtx(c).SID, pid); err != nil {
		return fail(c, err)
	}
	return h.View(c)
}

func (h *CartHandler) Increase(c *fiber.Ctx) error {
	pid, ok := h.parseProduct(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"code": "validation", "error": "invalid product id"})
	}
	if err := h.Cart.Increase(sessionCtx(c).SID, pid); err != nil {
		return fail(c, err)
	}
	return h.View(c)
}

func (h *CartHandler) Decrease(c *fiber.Ctx) error {
	pid, ok := h.parseProduct(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"code": "validation", "error": "invalid product id"})
	}
	if err := h.Cart.Decrease(sessionCtx(c).SID, pid); err != nil {
		return fail(c, err)
	}
	return h.View(c)
}

type setQtyRequest struct {
	ProductID string `json:"productId"`
	Qty       string `json:"qty"`
}

// SetQty writes the exact quantity typed into the cart sheet.
func (h *CartHandler) SetQty(c *fiber.Ctx) error {
	var req setQtyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"code": "validation", "error": "bad request body"})
	}
	pid, ok := validate.ID(req.ProductID)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"code": "validation", "error": "invalid product id"})
	}
	qty, ok := validate.Qty(req.Qty)
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "qty"})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"code": "validation", "error": "invalid quantity"})
	}
	if err := h.Cart.SetQuantity(sessionCtx(c).SID, pid, qty); err != nil {
		return fail(c, err)
	}
	return h.View(c)
}

func (h *CartHandler) Remove(c *fiber.Ctx) error {
	pid, ok := h.parseProduct(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"code": "validation", "error": "invalid product id"})
	}
	if err := h.Cart.Remove(sessionCtx(c).SID, pid); err != nil {
		return fail(c, err)
	}
	return h.View(c)
}
