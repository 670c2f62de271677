// Package printing entrega tickets de pedido a impresoras térmicas de red.
package printing

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jhoicas/estoque-api/internal/application/ports"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

var _ ports.OrderPrinter = (*Dispatcher)(nil)

// ErrNoPrinters no hay impresoras activas con dirección de red.
var ErrNoPrinters = errors.New("nenhuma impressora ativa com endereço IP")

// Renderer genera el documento del ticket.
type Renderer interface {
	RenderOrder(ctx context.Context, o *entity.Order) ([]byte, error)
}

// Sender transporte hacia una impresora.
type Sender interface {
	Send(ctx context.Context, ip, jobName string, doc []byte) error
}

// Dispatcher implementa ports.OrderPrinter: carga el pedido, renderiza una vez y envía a cada destino.
type Dispatcher struct {
	printers repository.PrinterRepository
	orders   repository.OrderRepository
	renderer Renderer
	sender   Sender
	metrics  ports.MetricsRecorder
	log      zerolog.Logger
}

// NewDispatcher construye el dispatcher. metrics nil = sin métricas.
func NewDispatcher(
	printers repository.PrinterRepository,
	orders repository.OrderRepository,
	renderer Renderer,
	sender Sender,
	metrics ports.MetricsRecorder,
	log zerolog.Logger,
) *Dispatcher {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &Dispatcher{printers: printers, orders: orders, renderer: renderer, sender: sender, metrics: metrics, log: log}
}

// AutoPrint imprime en las impresoras activas con auto-impresión. Sin destinos no hace nada.
func (d *Dispatcher) AutoPrint(ctx context.Context, orderID string) error {
	targets, err := d.targets(ctx, true)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		return nil
	}
	return d.dispatch(ctx, orderID, targets)
}

// Print imprime en todas las impresoras activas con IP.
func (d *Dispatcher) Print(ctx context.Context, orderID string) error {
	targets, err := d.targets(ctx, false)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		return ErrNoPrinters
	}
	return d.dispatch(ctx, orderID, targets)
}

func (d *Dispatcher) targets(ctx context.Context, autoOnly bool) ([]*entity.Printer, error) {
	list, err := d.printers.List(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("list printers: %w", err)
	}
	var out []*entity.Printer
	for _, p := range list {
		if autoOnly && !p.AutoPrintOnAccept {
			continue
		}
		if p.IPAddress == "" {
			d.log.Debug().Str("printer", p.Name).Msg("impresora sin IP, omitida")
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (d *Dispatcher) dispatch(ctx context.Context, orderID string, targets []*entity.Printer) error {
	order, err := d.orders.GetByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("load order: %w", err)
	}
	if order == nil {
		return fmt.Errorf("order %s not found", orderID)
	}
	doc, err := d.renderer.RenderOrder(ctx, order)
	if err != nil {
		d.metrics.PrintJob("render_error")
		return err
	}

	job := "pedido-" + order.ID
	var errs []error
	for _, p := range targets {
		if err := d.sender.Send(ctx, p.IPAddress, job, doc); err != nil {
			d.metrics.PrintJob("error")
			d.log.Warn().Err(err).Str("printer", p.Name).Str("order_id", orderID).Msg("falla de impresión")
			errs = append(errs, fmt.Errorf("%s: %w", p.Name, err))
			continue
		}
		d.metrics.PrintJob("ok")
		d.log.Info().Str("printer", p.Name).Str("order_id", orderID).Msg("ticket enviado")
	}
	return errors.Join(errs...)
}
