package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/application/inventory"
	"github.com/jhoicas/estoque-api/internal/application/period"
)

// MovementHandler maneja el libro de estoque (protegido).
type MovementHandler struct {
	uc *inventory.LedgerUseCase
}

// NewMovementHandler construye el handler.
func NewMovementHandler(uc *inventory.LedgerUseCase) *MovementHandler {
	return &MovementHandler{uc: uc}
}

// Record godoc
// @Summary      Registrar movimento de estoque
// @Description  entrada soma, saida subtrai (sem ficar negativo), ajuste fixa o estoque no valor informado.
// @Tags         stock-movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "product_id, movement_type, quantity"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock-movements [post]
func (h *MovementHandler) Record(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	m, err := h.uc.RecordMovement(c.Context(), GetActor(c), inventory.MovementInput{
		ProductID: in.ProductID,
		Type:      in.MovementType,
		Quantity:  in.Quantity,
		Notes:     in.Notes,
		SectorID:  in.SectorID,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(inventory.ToMovementResponse(m))
}

// List godoc
// @Summary      Listar o livro de estoque
// @Tags         stock-movements
// @Security     Bearer
// @Produce      json
// @Param        category         query  string  false  "produto | sistema"
// @Param        sector_id        query  string  false  "Setor"
// @Param        product_id       query  string  false  "Produto"
// @Param        start_date       query  string  false  "AAAA-MM-DD"
// @Param        end_date         query  string  false  "AAAA-MM-DD (inclusivo)"
// @Param        sort             query  string  false  "data_desc | data_asc | quantidade_desc | quantidade_asc | produto | setor"
// @Param        include_deleted  query  bool    false  "Somente admin"
// @Success      200  {object}  dto.ListResponse[dto.MovementResponse]
// @Router       /api/stock-movements [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	var q dto.MovementListQuery
	if err := c.QueryParser(&q); err != nil {
		return badBody(c)
	}
	window, err := period.Parse(q.StartDate, q.EndDate, time.Local)
	if err != nil {
		return respondError(c, err)
	}
	list, err := h.uc.ListMovements(c.Context(), GetActor(c), inventory.MovementFilter{
		Category:       q.Category,
		SectorID:       q.SectorID,
		ProductID:      q.ProductID,
		From:           window.From,
		To:             window.To,
		Sort:           q.Sort,
		IncludeDeleted: q.IncludeDeleted,
	})
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, inventory.ToMovementResponse(m))
	}
	return c.JSON(dto.NewList(out))
}

// Delete marca el movimiento como eliminado (solo admin). No revierte el estoque.
func (h *MovementHandler) Delete(c *fiber.Ctx) error {
	var in dto.DeleteMovementRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	m, err := h.uc.SoftDeleteMovement(c.Context(), GetActor(c), c.Params("id"), in.Reason)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(inventory.ToMovementResponse(m))
}
