package inventory

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/access"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos. El stock se modifica solo vía LedgerUseCase.
type ProductUseCase struct {
	repo   repository.ProductRepository
	ledger *LedgerUseCase
	log    zerolog.Logger
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, ledger *LedgerUseCase, log zerolog.Logger) *ProductUseCase {
	return &ProductUseCase{repo: repo, ledger: ledger, log: log.With().Str("component", "products").Logger()}
}

// Create crea el producto con stock 0 y, si se informó stock inicial, registra la entrada correspondiente.
func (uc *ProductUseCase) Create(ctx context.Context, actor access.Actor, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if !actor.CanManageProducts() {
		return nil, domain.ErrForbidden
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalid("name", "nome obrigatório")
	}
	unit := strings.TrimSpace(in.Unit)
	if unit == "" {
		return nil, domain.Invalid("unit", "unidade obrigatória")
	}
	if in.CurrentStock.IsNegative() {
		return nil, domain.Invalid("current_stock", "o estoque não pode ser negativo")
	}
	if in.MinimumStock.IsNegative() {
		return nil, domain.Invalid("minimum_stock", "o estoque mínimo não pode ser negativo")
	}

	now := uc.ledger.now()
	product := &entity.Product{
		ID:           uuid.New().String(),
		Name:         name,
		Description:  strings.TrimSpace(in.Description),
		Unit:         unit,
		Category:     strings.TrimSpace(in.Category),
		CurrentStock: decimal.Zero,
		MinimumStock: in.MinimumStock,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	var initial *entity.StockMovement
	err := uc.ledger.txRunner.Run(ctx, func(tx repository.Repos) error {
		if err := tx.Products.Create(ctx, product); err != nil {
			return domain.Dependency("insert product", err)
		}
		if !in.CurrentStock.IsPositive() {
			return nil
		}
		var err error
		initial, err = uc.ledger.apply(ctx, tx, product, entity.MovementTypeEntrada, in.CurrentStock, NoteInitialStock, actor.UserID, "")
		return err
	})
	if err != nil {
		return nil, err
	}
	if initial != nil {
		uc.ledger.afterCommit(ctx, initial)
	} else {
		uc.ledger.invalidateReports(ctx)
	}
	uc.log.Info().Str("product_id", product.ID).Str("user_id", actor.UserID).Msg("producto creado")
	return ToProductResponse(product), nil
}

// Update aplica una edición parcial. Si current_stock cambia se registra la conciliación
// en la misma transacción que los demás campos.
func (uc *ProductUseCase) Update(ctx context.Context, actor access.Actor, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if !actor.CanManageProducts() {
		return nil, domain.ErrForbidden
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, domain.Invalid("name", "nome obrigatório")
	}
	if in.Unit != nil && strings.TrimSpace(*in.Unit) == "" {
		return nil, domain.Invalid("unit", "unidade obrigatória")
	}
	if in.CurrentStock != nil && in.CurrentStock.IsNegative() {
		return nil, domain.Invalid("current_stock", "o estoque não pode ser negativo")
	}
	if in.MinimumStock != nil && in.MinimumStock.IsNegative() {
		return nil, domain.Invalid("minimum_stock", "o estoque mínimo não pode ser negativo")
	}

	var (
		product  *entity.Product
		adjusted *entity.StockMovement
	)
	err := uc.ledger.txRunner.Run(ctx, func(tx repository.Repos) error {
		var err error
		product, err = tx.Products.GetForUpdate(ctx, id)
		if err != nil {
			return domain.Dependency("lock product", err)
		}
		if product == nil {
			return domain.ErrNotFound
		}
		if in.Name != nil {
			product.Name = strings.TrimSpace(*in.Name)
		}
		if in.Description != nil {
			product.Description = strings.TrimSpace(*in.Description)
		}
		if in.Unit != nil {
			product.Unit = strings.TrimSpace(*in.Unit)
		}
		if in.Category != nil {
			product.Category = strings.TrimSpace(*in.Category)
		}
		if in.MinimumStock != nil {
			product.MinimumStock = *in.MinimumStock
		}
		product.UpdatedAt = uc.ledger.now()
		if err := tx.Products.Update(ctx, product); err != nil {
			return domain.Dependency("update product", err)
		}
		if in.CurrentStock != nil {
			adjusted, err = uc.ledger.adjustInTx(ctx, tx, product, *in.CurrentStock, actor.UserID)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	if adjusted != nil {
		uc.ledger.afterCommit(ctx, adjusted)
	} else {
		uc.ledger.invalidateReports(ctx)
	}
	uc.log.Info().Str("product_id", product.ID).Str("user_id", actor.UserID).Msg("producto actualizado")
	return ToProductResponse(product), nil
}

// Delete elimina un producto (solo admin). Los movimientos conservan su historial.
func (uc *ProductUseCase) Delete(ctx context.Context, actor access.Actor, id string) error {
	if !actor.CanDeleteRecords() {
		return domain.ErrForbidden
	}
	existing, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Dependency("get product", err)
	}
	if existing == nil {
		return domain.ErrNotFound
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return domain.Dependency("delete product", err)
	}
	uc.ledger.invalidateReports(ctx)
	uc.log.Info().Str("product_id", id).Str("user_id", actor.UserID).Msg("producto eliminado")
	return nil
}

// GetByID obtiene un producto. Cualquier usuario con rol puede consultarlo.
func (uc *ProductUseCase) GetByID(ctx context.Context, actor access.Actor, id string) (*dto.ProductResponse, error) {
	if !actor.HasRole {
		return nil, domain.ErrForbidden
	}
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.Dependency("get product", err)
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return ToProductResponse(p), nil
}

// List lista productos con búsqueda, categoría y estado de stock.
func (uc *ProductUseCase) List(ctx context.Context, actor access.Actor, q dto.ProductListQuery) ([]dto.ProductResponse, error) {
	if !actor.HasRole {
		return nil, domain.ErrForbidden
	}
	switch q.Stock {
	case "", repository.StockFilterLow, repository.StockFilterNormal:
	default:
		return nil, domain.Invalid("stock", "use low ou normal")
	}
	list, err := uc.repo.List(ctx, repository.ProductFilter{
		Search:   strings.TrimSpace(q.Search),
		Category: strings.TrimSpace(q.Category),
		Stock:    q.Stock,
	})
	if err != nil {
		return nil, domain.Dependency("list products", err)
	}
	out := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, *ToProductResponse(p))
	}
	return out, nil
}
