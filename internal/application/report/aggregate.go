// Package report deriva los reportes de estoque y pedidos. Las funciones de agregación son puras.
package report

import (
	"sort"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
)

// NoSector etiqueta de los pedidos sin sector.
const NoSector = "Sem Setor"

var statusOrder = []string{
	entity.OrderStatusPendente,
	entity.OrderStatusAprovado,
	entity.OrderStatusEntregue,
	entity.OrderStatusCancelado,
}

// LowStockCount productos con stock actual menor o igual al mínimo.
func LowStockCount(products []*entity.Product) int {
	n := 0
	for _, p := range products {
		if p.IsLowStock() {
			n++
		}
	}
	return n
}

// CriticalProducts productos en o bajo el mínimo, por nombre (colación pt-BR).
func CriticalProducts(products []*entity.Product) []dto.CriticalProductDTO {
	out := []dto.CriticalProductDTO{}
	for _, p := range products {
		if !p.IsLowStock() {
			continue
		}
		out = append(out, dto.CriticalProductDTO{
			ID:           p.ID,
			Name:         p.Name,
			Unit:         p.Unit,
			CurrentStock: p.CurrentStock,
			MinimumStock: p.MinimumStock,
		})
	}
	c := collate.New(language.BrazilianPortuguese, collate.IgnoreCase)
	sort.SliceStable(out, func(i, j int) bool {
		if r := c.CompareString(out[i].Name, out[j].Name); r != 0 {
			return r < 0
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// StatusCounts pedidos por estado, siempre con los cuatro estados en orden de ciclo de vida.
func StatusCounts(orders []*entity.Order) []dto.StatusCountDTO {
	counts := make(map[string]int, len(statusOrder))
	for _, o := range orders {
		counts[o.Status]++
	}
	out := make([]dto.StatusCountDTO, 0, len(statusOrder))
	for _, s := range statusOrder {
		out = append(out, dto.StatusCountDTO{Status: s, Count: counts[s]})
	}
	return out
}

// MonthlyTrends cantidad de pedidos y suma de cantidades pedidas por mes (YYYY-MM), cronológico.
func MonthlyTrends(orders []*entity.Order) []dto.MonthlyTrendDTO {
	byMonth := map[string]*dto.MonthlyTrendDTO{}
	for _, o := range orders {
		key := o.CreatedAt.Format("2006-01")
		m, ok := byMonth[key]
		if !ok {
			m = &dto.MonthlyTrendDTO{Month: key, Quantity: decimal.Zero}
			byMonth[key] = m
		}
		m.Orders++
		for _, it := range o.Items {
			m.Quantity = m.Quantity.Add(it.Quantity)
		}
	}
	out := make([]dto.MonthlyTrendDTO, 0, len(byMonth))
	for _, m := range byMonth {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// TopProductBySector para cada sector, el producto con mayor cantidad sumada.
// Empates: gana el primero encontrado al recorrer orders. Los sectores salen en orden de aparición.
func TopProductBySector(orders []*entity.Order) []dto.TopProductDTO {
	type tally struct {
		order  []string
		totals map[string]decimal.Decimal
	}
	var sectors []string
	bySector := map[string]*tally{}
	for _, o := range orders {
		sector := o.SectorName
		if sector == "" {
			sector = NoSector
		}
		t, ok := bySector[sector]
		if !ok {
			t = &tally{totals: map[string]decimal.Decimal{}}
			bySector[sector] = t
			sectors = append(sectors, sector)
		}
		for _, it := range o.Items {
			name := it.ProductName
			if name == "" {
				name = it.ProductID
			}
			if _, seen := t.totals[name]; !seen {
				t.order = append(t.order, name)
				t.totals[name] = decimal.Zero
			}
			t.totals[name] = t.totals[name].Add(it.Quantity)
		}
	}
	out := make([]dto.TopProductDTO, 0, len(sectors))
	for _, sector := range sectors {
		t := bySector[sector]
		if len(t.order) == 0 {
			continue
		}
		best := t.order[0]
		for _, name := range t.order[1:] {
			if t.totals[name].GreaterThan(t.totals[best]) {
				best = name
			}
		}
		out = append(out, dto.TopProductDTO{Sector: sector, Product: best, Quantity: t.totals[best]})
	}
	return out
}
