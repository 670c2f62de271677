package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/application/report"
)

// ReportHandler maneja los endpoints de reportes y dashboard.
type ReportHandler struct {
	uc *report.UseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *report.UseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// Summary godoc
// @Summary      Relatório do período
// @Description  Estoque crítico, pedidos por status, tendência mensal e produto mais pedido por setor.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        start_date  query  string  false  "AAAA-MM-DD"
// @Param        end_date    query  string  false  "AAAA-MM-DD (inclusivo)"
// @Param        status      query  string  false  "Status do pedido"
// @Success      200  {object}  dto.ReportSummaryDTO
// @Router       /api/reports/summary [get]
func (h *ReportHandler) Summary(c *fiber.Ctx) error {
	var q dto.ReportQuery
	if err := c.QueryParser(&q); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Summary(c.Context(), GetActor(c), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Dashboard devuelve las tarjetas del panel principal.
// GET /api/reports/dashboard
//
// No requiere parámetros; el resultado se cachea si Redis está configurado.
func (h *ReportHandler) Dashboard(c *fiber.Ctx) error {
	out, err := h.uc.Dashboard(c.Context(), GetActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
