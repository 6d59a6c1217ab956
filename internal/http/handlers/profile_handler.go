package handlers

import (
	"github.com/gofiber/fiber/v2"

	"okeanmarket/internal/services"
	"okeanmarket/internal/validate"
)

type ProfileHandler struct {
	Profiles *services.ProfileService
}

func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	p, err := h.Profiles.Get(sessionCtx(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(p)
}

type profileRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	var req profileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"code": "validation", "error": "bad request body"})
	}
	p, err := h.Profiles.Update(sessionCtx(c), req.Name, req.Phone)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(p)
}

func (h *ProfileHandler) Addresses(c *fiber.Ctx) error {
	list, err := h.Profiles.ListAddresses(sessionCtx(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(list)
}

type addressRequest struct {
	Label   string   `json:"label"`
	Address string   `json:"address"`
	Lat     *float64 `json:"lat"`
	Lng     *float64 `json:"lng"`
}

func (h *ProfileHandler) AddAddress(c *fiber.Ctx) error {
	var req addressRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"code": "validation", "error": "bad request body"})
	}
	a, err := h.Profiles.AddAddress(sessionCtx(c), req.Label, req.Address, req.Lat, req.Lng)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(a)
}

type deleteAddressRequest struct {
	ID string `json:"id"`
}

func (h *ProfileHandler) DeleteAddress(c *fiber.Ctx) error {
	var req deleteAddressRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"code": "validation", "error": "bad request body"})
	}
	id, ok := validate.ID(req.ID)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"code": "validation", "error": "invalid address id"})
	}
	if err := h.Profiles.DeleteAddress(sessionCtx(c), id); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}
