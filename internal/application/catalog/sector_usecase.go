// Package catalog administra los catálogos de apoyo: sectores e impresoras.
package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/application/ports"
	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/access"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

// SectorUseCase CRUD de sectores. Solo admin modifica; cualquier rol lista.
// Los reportes muestran el nombre del sector, así que toda escritura invalida su caché.
type SectorUseCase struct {
	repo  repository.SectorRepository
	cache ports.ReportCache
	log   zerolog.Logger
}

// NewSectorUseCase construye el caso de uso. cache puede ser nil.
func NewSectorUseCase(repo repository.SectorRepository, cache ports.ReportCache, log zerolog.Logger) *SectorUseCase {
	if cache == nil {
		cache = ports.NopCache{}
	}
	return &SectorUseCase{repo: repo, cache: cache, log: log.With().Str("component", "sectors").Logger()}
}

// Create crea un sector.
func (uc *SectorUseCase) Create(ctx context.Context, actor access.Actor, in dto.SectorRequest) (*dto.SectorResponse, error) {
	if !actor.CanManageSectors() {
		return nil, domain.ErrForbidden
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalid("name", "nome obrigatório")
	}
	s := &entity.Sector{
		ID:          uuid.New().String(),
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		CreatedAt:   time.Now(),
	}
	if err := uc.repo.Create(ctx, s); err != nil {
		return nil, domain.Dependency("insert sector", err)
	}
	uc.invalidateReports(ctx)
	uc.log.Info().Str("sector_id", s.ID).Str("user_id", actor.UserID).Msg("sector creado")
	return toSectorResponse(s), nil
}

// Update renombra o describe un sector.
func (uc *SectorUseCase) Update(ctx context.Context, actor access.Actor, id string, in dto.SectorRequest) (*dto.SectorResponse, error) {
	if !actor.CanManageSectors() {
		return nil, domain.ErrForbidden
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalid("name", "nome obrigatório")
	}
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.Dependency("get sector", err)
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	s.Name = name
	s.Description = strings.TrimSpace(in.Description)
	if err := uc.repo.Update(ctx, s); err != nil {
		return nil, domain.Dependency("update sector", err)
	}
	uc.invalidateReports(ctx)
	return toSectorResponse(s), nil
}

// Delete elimina un sector.
func (uc *SectorUseCase) Delete(ctx context.Context, actor access.Actor, id string) error {
	if !actor.CanManageSectors() {
		return domain.ErrForbidden
	}
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Dependency("get sector", err)
	}
	if s == nil {
		return domain.ErrNotFound
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return domain.Dependency("delete sector", err)
	}
	uc.invalidateReports(ctx)
	uc.log.Info().Str("sector_id", id).Str("user_id", actor.UserID).Msg("sector eliminado")
	return nil
}

// List lista los sectores por nombre.
func (uc *SectorUseCase) List(ctx context.Context, actor access.Actor) ([]dto.SectorResponse, error) {
	if !actor.HasRole {
		return nil, domain.ErrForbidden
	}
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, domain.Dependency("list sectors", err)
	}
	out := make([]dto.SectorResponse, 0, len(list))
	for _, s := range list {
		out = append(out, *toSectorResponse(s))
	}
	return out, nil
}

func (uc *SectorUseCase) invalidateReports(ctx context.Context) {
	if err := uc.cache.Invalidate(ctx); err != nil {
		uc.log.Warn().Err(err).Msg("no se pudo invalidar la caché de reportes")
	}
}

func toSectorResponse(s *entity.Sector) *dto.SectorResponse {
	return &dto.SectorResponse{ID: s.ID, Name: s.Name, Description: s.Description, CreatedAt: s.CreatedAt}
}
