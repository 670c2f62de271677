package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/estoque-api/internal/application/catalog"
	"github.com/jhoicas/estoque-api/internal/application/dto"
)

// SectorHandler sectores: lectura para todos, escritura solo admin.
type SectorHandler struct {
	uc *catalog.SectorUseCase
}

func NewSectorHandler(uc *catalog.SectorUseCase) *SectorHandler {
	return &SectorHandler{uc: uc}
}

// Create godoc
// @Summary      Criar setor
// @Tags         sectors
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SectorRequest  true  "name, description"
// @Success      201   {object}  dto.SectorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sectors [post]
func (h *SectorHandler) Create(c *fiber.Ctx) error {
	var in dto.SectorRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.Context(), GetActor(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *SectorHandler) Update(c *fiber.Ctx) error {
	var in dto.SectorRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.Context(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func (h *SectorHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), GetActor(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *SectorHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context(), GetActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewList(out))
}

// PrinterHandler impresoras térmicas (admin y gerente).
type PrinterHandler struct {
	uc *catalog.PrinterUseCase
}

func NewPrinterHandler(uc *catalog.PrinterUseCase) *PrinterHandler {
	return &PrinterHandler{uc: uc}
}

// Create godoc
// @Summary      Cadastrar impressora
// @Tags         printers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PrinterRequest  true  "name, location, ip_address, auto_print_on_accept"
// @Success      201   {object}  dto.PrinterResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/printers [post]
func (h *PrinterHandler) Create(c *fiber.Ctx) error {
	var in dto.PrinterRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.Context(), GetActor(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *PrinterHandler) Update(c *fiber.Ctx) error {
	var in dto.PrinterRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.Context(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// SetActive activa o desactiva la impresora: body {"is_active": bool}.
func (h *PrinterHandler) SetActive(c *fiber.Ctx) error {
	var in struct {
		IsActive *bool `json:"is_active"`
	}
	if err := c.BodyParser(&in); err != nil || in.IsActive == nil {
		return badBody(c)
	}
	out, err := h.uc.SetActive(c.Context(), GetActor(c), c.Params("id"), *in.IsActive)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func (h *PrinterHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), GetActor(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// List ?active=true devuelve solo las activas.
func (h *PrinterHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context(), GetActor(c), c.QueryBool("active", false))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewList(out))
}
