package inventory

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/jhoicas/estoque-api/internal/domain/entity"
)

// Claves de ordenación del libro de estoque.
const (
	SortDateDesc     = "data_desc"
	SortDateAsc      = "data_asc"
	SortQuantityDesc = "quantidade_desc"
	SortQuantityAsc  = "quantidade_asc"
	SortProduct      = "produto"
	SortSector       = "setor"
)

// IsValidSort valida una clave de ordenación.
func IsValidSort(key string) bool {
	switch key {
	case SortDateDesc, SortDateAsc, SortQuantityDesc, SortQuantityAsc, SortProduct, SortSector:
		return true
	}
	return false
}

// SortMovements ordena in-place. Empates se resuelven por ID para que el orden sea determinista.
// Los nombres se comparan con la colación pt-BR (acentos y mayúsculas no alteran el orden base).
func SortMovements(list []*entity.StockMovement, key string) {
	var less func(a, b *entity.StockMovement) int
	switch key {
	case SortDateAsc:
		less = func(a, b *entity.StockMovement) int { return a.CreatedAt.Compare(b.CreatedAt) }
	case SortQuantityDesc:
		less = func(a, b *entity.StockMovement) int { return b.Quantity.Cmp(a.Quantity) }
	case SortQuantityAsc:
		less = func(a, b *entity.StockMovement) int { return a.Quantity.Cmp(b.Quantity) }
	case SortProduct:
		c := collate.New(language.BrazilianPortuguese, collate.IgnoreCase)
		less = func(a, b *entity.StockMovement) int { return c.CompareString(a.ProductName, b.ProductName) }
	case SortSector:
		c := collate.New(language.BrazilianPortuguese, collate.IgnoreCase)
		less = func(a, b *entity.StockMovement) int { return c.CompareString(a.SectorName, b.SectorName) }
	default:
		less = func(a, b *entity.StockMovement) int { return b.CreatedAt.Compare(a.CreatedAt) }
	}
	sort.SliceStable(list, func(i, j int) bool {
		if c := less(list[i], list[j]); c != 0 {
			return c < 0
		}
		return list[i].ID < list[j].ID
	})
}
