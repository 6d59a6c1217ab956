package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"okeanmarket/internal/services"
	"okeanmarket/internal/validate"
)

type CatalogHandler struct {
	Catalog *services.CatalogService
}

func (h *CatalogHandler) Categories(c *fiber.Ctx) error {
	cats, err := h.Catalog.Categories()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(cats)
}

func (h *CatalogHandler) Products(c *fiber.Ctx) error {
	categoryID := c.Query("category")
	if categoryID != "" {
		if id, ok := validate.ID(categoryID); ok {
			categoryID = id
		} else {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"code": "validation", "error": "invalid category"})
		}
	}
	q := strings.ToLower(strings.TrimSpace(c.Query("q")))
	if len(q) > 50 {
		q = q[:50]
	}

	prods, err := h.Catalog.Products(categoryID, q)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(prods)
}

func (h *CatalogHandler) Popular(c *fiber.Ctx) error {
	prods, err := h.Catalog.Popular(c.QueryInt("limit", 10))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(prods)
}

func (h *CatalogHandler) Product(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"code": "validation", "error": "invalid product id"})
	}
	p, err := h.Catalog.Product(id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(p)
}

func (h *CatalogHandler) Availability(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"code": "validation", "error": "invalid product id"})
	}
	av, err := h.Catalog.Availability(id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(av)
}
