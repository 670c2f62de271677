package catalog

import (
	"context"
	"net"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/access"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

// PrinterUseCase configuración de impresoras de tickets (admin y gerente).
type PrinterUseCase struct {
	repo repository.PrinterRepository
	log  zerolog.Logger
}

// NewPrinterUseCase construye el caso de uso.
func NewPrinterUseCase(repo repository.PrinterRepository, log zerolog.Logger) *PrinterUseCase {
	return &PrinterUseCase{repo: repo, log: log.With().Str("component", "printers").Logger()}
}

func validatePrinter(in dto.PrinterRequest) (name, ip string, err error) {
	name = strings.TrimSpace(in.Name)
	if name == "" {
		return "", "", domain.Invalid("name", "nome obrigatório")
	}
	ip = strings.TrimSpace(in.IPAddress)
	if ip != "" && net.ParseIP(ip) == nil {
		return "", "", domain.Invalid("ip_address", "endereço IP inválido")
	}
	return name, ip, nil
}

// Create registra una impresora. Por defecto queda activa.
func (uc *PrinterUseCase) Create(ctx context.Context, actor access.Actor, in dto.PrinterRequest) (*dto.PrinterResponse, error) {
	if !actor.CanManagePrinters() {
		return nil, domain.ErrForbidden
	}
	name, ip, err := validatePrinter(in)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	p := &entity.Printer{
		ID:                uuid.New().String(),
		Name:              name,
		Location:          strings.TrimSpace(in.Location),
		IPAddress:         ip,
		IsActive:          in.IsActive == nil || *in.IsActive,
		AutoPrintOnAccept: in.AutoPrintOnAccept,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, domain.Dependency("insert printer", err)
	}
	uc.log.Info().Str("printer_id", p.ID).Str("user_id", actor.UserID).Msg("impresora registrada")
	return toPrinterResponse(p), nil
}

// Update reemplaza la configuración de una impresora. IsActive nil conserva el valor actual.
func (uc *PrinterUseCase) Update(ctx context.Context, actor access.Actor, id string, in dto.PrinterRequest) (*dto.PrinterResponse, error) {
	if !actor.CanManagePrinters() {
		return nil, domain.ErrForbidden
	}
	name, ip, err := validatePrinter(in)
	if err != nil {
		return nil, err
	}
	p, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Name = name
	p.Location = strings.TrimSpace(in.Location)
	p.IPAddress = ip
	p.AutoPrintOnAccept = in.AutoPrintOnAccept
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
	p.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, domain.Dependency("update printer", err)
	}
	return toPrinterResponse(p), nil
}

// SetActive activa o desactiva una impresora.
func (uc *PrinterUseCase) SetActive(ctx context.Context, actor access.Actor, id string, active bool) (*dto.PrinterResponse, error) {
	if !actor.CanManagePrinters() {
		return nil, domain.ErrForbidden
	}
	p, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	p.IsActive = active
	p.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, domain.Dependency("update printer", err)
	}
	uc.log.Info().Str("printer_id", id).Bool("active", active).Msg("impresora actualizada")
	return toPrinterResponse(p), nil
}

// Delete elimina una impresora.
func (uc *PrinterUseCase) Delete(ctx context.Context, actor access.Actor, id string) error {
	if !actor.CanManagePrinters() {
		return domain.ErrForbidden
	}
	if _, err := uc.get(ctx, id); err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return domain.Dependency("delete printer", err)
	}
	return nil
}

// List lista impresoras; activeOnly filtra las activas.
func (uc *PrinterUseCase) List(ctx context.Context, actor access.Actor, activeOnly bool) ([]dto.PrinterResponse, error) {
	if !actor.HasRole {
		return nil, domain.ErrForbidden
	}
	list, err := uc.repo.List(ctx, activeOnly)
	if err != nil {
		return nil, domain.Dependency("list printers", err)
	}
	out := make([]dto.PrinterResponse, 0, len(list))
	for _, p := range list {
		out = append(out, *toPrinterResponse(p))
	}
	return out, nil
}

func (uc *PrinterUseCase) get(ctx context.Context, id string) (*entity.Printer, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.Dependency("get printer", err)
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func toPrinterResponse(p *entity.Printer) *dto.PrinterResponse {
	return &dto.PrinterResponse{
		ID:                p.ID,
		Name:              p.Name,
		Location:          p.Location,
		IPAddress:         p.IPAddress,
		IsActive:          p.IsActive,
		AutoPrintOnAccept: p.AutoPrintOnAccept,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}
