package http

import (
	"bufio"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/application/orders"
	"github.com/jhoicas/estoque-api/internal/application/ports"
	"github.com/jhoicas/estoque-api/internal/infrastructure/realtime"
)

const sseHeartbeat = 25 * time.Second

// eventSource lo implementa *realtime.Hub.
type eventSource interface {
	Subscribe(filter realtime.Filter) (<-chan ports.Event, func())
}

// OrderHandler maneja pedidos entre sectores y su feed en tiempo real.
type OrderHandler struct {
	uc     *orders.UseCase
	events eventSource
}

// NewOrderHandler construye el handler. events nil deshabilita /events.
func NewOrderHandler(uc *orders.UseCase, events eventSource) *OrderHandler {
	return &OrderHandler{uc: uc, events: events}
}

// Create godoc
// @Summary      Criar pedido
// @Description  Usuários setor só podem pedir para o próprio setor.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "sector_id, notes, items"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.Context(), GetActor(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar pedidos (mais recentes primeiro)
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        status      query  string  false  "pendente | aprovado | entregue | cancelado"
// @Param        sector_id   query  string  false  "Setor"
// @Param        start_date  query  string  false  "AAAA-MM-DD"
// @Param        end_date    query  string  false  "AAAA-MM-DD (inclusivo)"
// @Success      200  {object}  dto.ListResponse[dto.OrderResponse]
// @Router       /api/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	var q dto.OrderListQuery
	if err := c.QueryParser(&q); err != nil {
		return badBody(c)
	}
	out, err := h.uc.List(c.Context(), GetActor(c), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewList(out))
}

// GetByID devuelve el pedido con sus líneas.
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Context(), GetActor(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UpdateStatus godoc
// @Summary      Transição de status do pedido
// @Description  pendente→aprovado|cancelado, aprovado→entregue|cancelado. Ao entregar, imprime automaticamente se houver impressora configurada.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID do pedido"
// @Param        body  body  dto.UpdateOrderStatusRequest  true  "status"
// @Success      200   {object}  dto.OrderResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/status [patch]
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateOrderStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.TransitionStatus(c.Context(), GetActor(c), c.Params("id"), in.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Print envía el ticket a las impresoras activas.
func (h *OrderHandler) Print(c *fiber.Ctx) error {
	if err := h.uc.Print(c.Context(), GetActor(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "pedido enviado para impressão"})
}

// Delete elimina el pedido (solo admin).
func (h *OrderHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), GetActor(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Events godoc
// @Summary      Feed de pedidos em tempo real (Server-Sent Events)
// @Description  Usuários setor recebem apenas eventos do próprio setor.
// @Tags         orders
// @Security     Bearer
// @Produce      text/event-stream
// @Router       /api/orders/events [get]
func (h *OrderHandler) Events(c *fiber.Ctx) error {
	if h.events == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "REALTIME_DISABLED", Message: "feed em tempo real indisponível"})
	}
	actor := GetActor(c)
	if !actor.HasRole {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "NO_ROLE", Message: "usuário sem papel atribuído"})
	}

	ch, cancel := h.events.Subscribe(realtime.ForActor(actor))
	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer cancel()
		ticker := time.NewTicker(sseHeartbeat)
		defer ticker.Stop()
		if err := realtime.WriteComment(w, "connected"); err != nil {
			return
		}
		for {
			select {
			case evt, ok := <-ch:
				if !ok {
					return
				}
				if err := realtime.WriteEvent(w, evt); err != nil {
					return
				}
			case <-ticker.C:
				if err := realtime.WriteComment(w, "ping"); err != nil {
					return
				}
			}
		}
	})
	return nil
}
