package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/estoque-api/internal/application/ports"
	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/access"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/ledger"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

// Notas automáticas de los movimientos generados por el propio sistema.
const (
	NoteInitialStock = "Estoque inicial ao criar produto"
	NoteManualAdjust = "Ajuste manual de estoque ao editar produto"
)

// MovementInput entrada para registrar un movimiento. Para ajuste, Quantity es el stock objetivo.
type MovementInput struct {
	ProductID string
	Type      string
	Quantity  decimal.Decimal
	Notes     string
	SectorID  string
}

// LedgerUseCase único escritor de Product.CurrentStock. Cada cambio de stock produce exactamente
// un movimiento en la misma transacción, con la fila del producto bloqueada (SELECT FOR UPDATE).
type LedgerUseCase struct {
	txRunner  repository.TxRunner
	movements repository.StockMovementRepository
	metrics   ports.MetricsRecorder
	cache     ports.ReportCache
	log       zerolog.Logger
	now       func() time.Time
}

// NewLedgerUseCase construye el caso de uso. metrics y cache pueden ser nil.
func NewLedgerUseCase(
	txRunner repository.TxRunner,
	movements repository.StockMovementRepository,
	metrics ports.MetricsRecorder,
	cache ports.ReportCache,
	log zerolog.Logger,
) *LedgerUseCase {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	if cache == nil {
		cache = ports.NopCache{}
	}
	return &LedgerUseCase{
		txRunner:  txRunner,
		movements: movements,
		metrics:   metrics,
		cache:     cache,
		log:       log.With().Str("component", "ledger").Logger(),
		now:       time.Now,
	}
}

// RecordMovement registra una entrada, saída o ajuste y actualiza el stock del producto.
// Si cualquier paso falla no queda ni movimiento ni cambio de stock.
func (uc *LedgerUseCase) RecordMovement(ctx context.Context, actor access.Actor, in MovementInput) (*entity.StockMovement, error) {
	if !actor.CanRecordMovements() {
		return nil, domain.ErrForbidden
	}
	if strings.TrimSpace(in.ProductID) == "" {
		return nil, domain.Invalid("product_id", "produto obrigatório")
	}
	if !entity.IsValidMovementType(in.Type) {
		return nil, domain.Invalid("movement_type", "tipo de movimentação inválido")
	}
	notes := strings.TrimSpace(in.Notes)
	if notes == "" {
		return nil, domain.Invalid("notes", "observação obrigatória")
	}

	sectorID := strings.TrimSpace(in.SectorID)

	var created *entity.StockMovement
	err := uc.txRunner.Run(ctx, func(tx repository.Repos) error {
		if sectorID != "" {
			sec, err := tx.Sectors.GetByID(ctx, sectorID)
			if err != nil {
				return domain.Dependency("get sector", err)
			}
			if sec == nil {
				return domain.Invalid("sector_id", "setor não encontrado")
			}
		}
		product, err := tx.Products.GetForUpdate(ctx, in.ProductID)
		if err != nil {
			return domain.Dependency("lock product", err)
		}
		if product == nil {
			return domain.ErrNotFound
		}
		created, err = uc.apply(ctx, tx, product, in.Type, in.Quantity, notes, actor.UserID, sectorID)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.afterCommit(ctx, created)
	return created, nil
}

// AdjustViaEdit fija el stock de un producto en target registrando la entrada o saída equivalente.
// Devuelve nil sin error cuando el valor no cambia.
func (uc *LedgerUseCase) AdjustViaEdit(ctx context.Context, actor access.Actor, productID string, target decimal.Decimal) (*entity.StockMovement, error) {
	if !actor.CanManageProducts() {
		return nil, domain.ErrForbidden
	}
	if target.IsNegative() {
		return nil, domain.Invalid("current_stock", "o estoque não pode ser negativo")
	}
	var created *entity.StockMovement
	err := uc.txRunner.Run(ctx, func(tx repository.Repos) error {
		product, err := tx.Products.GetForUpdate(ctx, productID)
		if err != nil {
			return domain.Dependency("lock product", err)
		}
		if product == nil {
			return domain.ErrNotFound
		}
		created, err = uc.adjustInTx(ctx, tx, product, target, actor.UserID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if created != nil {
		uc.afterCommit(ctx, created)
	}
	return created, nil
}

// adjustInTx concilia el stock dentro de una transacción ya abierta con la fila bloqueada.
func (uc *LedgerUseCase) adjustInTx(ctx context.Context, tx repository.Repos, product *entity.Product, target decimal.Decimal, actorID string) (*entity.StockMovement, error) {
	movementType, qty, changed := ledger.Delta(product.CurrentStock, target)
	if !changed {
		return nil, nil
	}
	return uc.apply(ctx, tx, product, movementType, qty, NoteManualAdjust, actorID, "")
}

// apply escribe primero el movimiento y luego el stock; ambos dentro de tx.
func (uc *LedgerUseCase) apply(
	ctx context.Context,
	tx repository.Repos,
	product *entity.Product,
	movementType string,
	qty decimal.Decimal,
	notes, actorID, sectorID string,
) (*entity.StockMovement, error) {
	res, err := ledger.Apply(product.CurrentStock, movementType, qty)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	movement := &entity.StockMovement{
		ID:            uuid.New().String(),
		ProductID:     product.ID,
		Category:      entity.MovementCategoryProduto,
		Type:          movementType,
		Quantity:      res.Quantity,
		PreviousStock: res.PreviousStock,
		NewStock:      res.NewStock,
		Notes:         notes,
		PerformedBy:   actorID,
		SectorID:      sectorID,
		CreatedAt:     now,
		ProductName:   product.Name,
		ProductUnit:   product.Unit,
	}
	if err := tx.Movements.Create(ctx, movement); err != nil {
		return nil, domain.Dependency("insert movement", err)
	}
	if err := tx.Products.SetStock(ctx, product.ID, res.NewStock, now); err != nil {
		return nil, domain.Dependency("update stock", err)
	}
	product.CurrentStock = res.NewStock
	product.UpdatedAt = now
	return movement, nil
}

func (uc *LedgerUseCase) afterCommit(ctx context.Context, m *entity.StockMovement) {
	uc.metrics.MovementRecorded(m.Type)
	uc.invalidateReports(ctx)
	uc.log.Info().
		Str("movement_id", m.ID).
		Str("product_id", m.ProductID).
		Str("type", m.Type).
		Str("quantity", m.Quantity.String()).
		Str("new_stock", m.NewStock.String()).
		Str("user_id", m.PerformedBy).
		Msg("movimiento registrado")
}

// invalidateReports descarta los reportes en caché tras cualquier escritura de productos o stock.
func (uc *LedgerUseCase) invalidateReports(ctx context.Context) {
	if err := uc.cache.Invalidate(ctx); err != nil {
		uc.log.Warn().Err(err).Msg("no se pudo invalidar la caché de reportes")
	}
}

// SoftDeleteMovement marca un movimiento como eliminado. El stock del producto no se revierte.
// Si dos admins eliminan a la vez, el repositorio rechaza al segundo con ErrConflict.
func (uc *LedgerUseCase) SoftDeleteMovement(ctx context.Context, actor access.Actor, movementID, reason string) (*entity.StockMovement, error) {
	if !actor.CanDeleteRecords() {
		return nil, domain.ErrForbidden
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, domain.Invalid("reason", "motivo obrigatório")
	}
	m, err := uc.movements.GetByID(ctx, movementID)
	if err != nil {
		return nil, domain.Dependency("get movement", err)
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	if m.IsDeleted() {
		return nil, domain.ErrConflict
	}
	now := uc.now()
	if err := uc.movements.MarkDeleted(ctx, movementID, now, actor.UserID, reason); err != nil {
		return nil, domain.Dependency("mark movement deleted", err)
	}
	m.DeletedAt = &now
	m.DeletedBy = actor.UserID
	m.DeletionReason = reason
	uc.log.Info().Str("movement_id", m.ID).Str("user_id", actor.UserID).Str("reason", reason).Msg("movimiento eliminado")
	return m, nil
}

// MovementFilter filtros del libro ya interpretados.
type MovementFilter struct {
	Category       string
	SectorID       string
	ProductID      string
	From           *time.Time
	To             *time.Time
	Sort           string
	IncludeDeleted bool
}

// ListMovements lista el libro filtrado y ordenado. Los eliminados solo aparecen para admin.
func (uc *LedgerUseCase) ListMovements(ctx context.Context, actor access.Actor, f MovementFilter) ([]*entity.StockMovement, error) {
	if !actor.CanViewLedger() {
		return nil, domain.ErrForbidden
	}
	if f.IncludeDeleted && !actor.CanDeleteRecords() {
		return nil, domain.ErrForbidden
	}
	switch f.Category {
	case "", entity.MovementCategoryProduto, entity.MovementCategorySistema:
	default:
		return nil, domain.Invalid("category", "categoria inválida")
	}
	if f.Sort == "" {
		f.Sort = SortDateDesc
	}
	if !IsValidSort(f.Sort) {
		return nil, domain.Invalid("sort", "ordenação inválida")
	}
	list, err := uc.movements.List(ctx, repository.MovementQuery{
		Category:       f.Category,
		SectorID:       f.SectorID,
		ProductID:      f.ProductID,
		From:           f.From,
		To:             f.To,
		IncludeDeleted: f.IncludeDeleted,
	})
	if err != nil {
		return nil, domain.Dependency("list movements", err)
	}
	out := list[:0]
	for _, m := range list {
		if m.IsDeleted() && !f.IncludeDeleted {
			continue
		}
		out = append(out, m)
	}
	SortMovements(out, f.Sort)
	return out, nil
}
