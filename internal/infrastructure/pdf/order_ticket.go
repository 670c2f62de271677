// Package pdf renderiza el ticket térmico (80 mm) de un pedido con Maroto v2.
//
// Layout:
//
//	┌──────────────────────────┐
//	│         PEDIDO           │
//	│        #1A2B3C4D         │
//	│     01/03/2025 10:00     │
//	│ ──────────────────────── │
//	│ INFORMAÇÕES              │
//	│ Setor / Solicitante /    │
//	│ Status / Entrega         │
//	│ PRODUTOS                 │
//	│ nome ........... 2 un    │
//	│ OBSERVAÇÕES (opcional)   │
//	│ ──────────────────────── │
//	│ Sistema de Gestão ...    │
//	└──────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/linestyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/estoque-api/internal/domain/entity"
)

const (
	ticketWidthMM  = 80
	ticketHeightMM = 297
	ticketFooter   = "Sistema de Gestão de Estoque"
	dateLayout     = "02/01/2006 15:04"
)

var colorGray = &props.Color{Red: 90, Green: 90, Blue: 90}

// TicketRenderer genera el PDF del ticket de un pedido.
type TicketRenderer struct {
	loc *time.Location
}

// NewTicketRenderer construye el renderer; las fechas se muestran en loc (nil = UTC).
func NewTicketRenderer(loc *time.Location) *TicketRenderer {
	if loc == nil {
		loc = time.UTC
	}
	return &TicketRenderer{loc: loc}
}

// RenderOrder devuelve los bytes del PDF. El pedido debe venir con sus líneas cargadas.
func (r *TicketRenderer) RenderOrder(_ context.Context, o *entity.Order) ([]byte, error) {
	cfg := config.NewBuilder().
		WithDimensions(ticketWidthMM, ticketHeightMM).
		WithLeftMargin(4).WithRightMargin(4).
		WithTopMargin(4).WithBottomMargin(4).
		WithDefaultFont(&props.Font{Family: "courier", Size: 8}).
		WithTitle("Pedido #"+ShortID(o.ID), true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(r.headerRows(o)...)
	m.AddRows(line.NewRow(2, props.Line{Style: linestyle.Dashed, Thickness: 0.4}))
	m.AddRows(r.infoRows(o)...)
	m.AddRows(itemRows(o.Items)...)
	if strings.TrimSpace(o.Notes) != "" {
		m.AddRows(sectionTitle("OBSERVAÇÕES"))
		m.AddRows(plain(o.Notes))
	}
	m.AddRows(line.NewRow(2, props.Line{Style: linestyle.Dashed, Thickness: 0.4}))
	m.AddRows(row.New(6).Add(col.New(12).Add(
		text.New(ticketFooter, props.Text{Size: 7, Align: align.Center, Color: colorGray, Top: 1}),
	)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar ticket: %w", err)
	}
	return doc.GetBytes(), nil
}

func (r *TicketRenderer) headerRows(o *entity.Order) []core.Row {
	return []core.Row{
		row.New(8).Add(col.New(12).Add(
			text.New("PEDIDO", props.Text{Style: fontstyle.Bold, Size: 14, Align: align.Center}),
		)),
		row.New(5).Add(col.New(12).Add(
			text.New("#"+ShortID(o.ID), props.Text{Size: 9, Align: align.Center}),
		)),
		row.New(5).Add(col.New(12).Add(
			text.New(o.CreatedAt.In(r.loc).Format(dateLayout), props.Text{Size: 8, Align: align.Center}),
		)),
	}
}

func (r *TicketRenderer) infoRows(o *entity.Order) []core.Row {
	rows := []core.Row{
		sectionTitle("INFORMAÇÕES"),
		plain("Setor: " + nonEmpty(o.SectorName, "-")),
		plain("Solicitante: " + nonEmpty(o.RequesterName, "-")),
		plain("Status: " + strings.ToUpper(o.Status)),
	}
	if o.DeliveredAt != nil {
		rows = append(rows, plain("Entregue em: "+o.DeliveredAt.In(r.loc).Format(dateLayout)))
	}
	if o.DeliveredByName != "" {
		rows = append(rows, plain("Entregue por: "+o.DeliveredByName))
	}
	return rows
}

func itemRows(items []entity.OrderItem) []core.Row {
	rows := []core.Row{sectionTitle("PRODUTOS")}
	for _, it := range items {
		qty := strings.TrimSpace(it.Quantity.String() + " " + it.ProductUnit)
		rows = append(rows, row.New(5).Add(
			col.New(8).Add(text.New(nonEmpty(it.ProductName, "-"), props.Text{Size: 8})),
			col.New(4).Add(text.New(qty, props.Text{Size: 8, Align: align.Right})),
		))
	}
	return rows
}

func sectionTitle(s string) core.Row {
	return row.New(6).Add(col.New(12).Add(
		text.New(s, props.Text{Style: fontstyle.Bold, Size: 8, Top: 1}),
	))
}

func plain(s string) core.Row {
	return row.New(5).Add(col.New(12).Add(text.New(s, props.Text{Size: 8})))
}

// ShortID primeros 8 caracteres del ID en mayúsculas, como se imprime en el ticket.
func ShortID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return strings.ToUpper(id)
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
