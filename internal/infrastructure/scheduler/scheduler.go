// Package scheduler ejecuta tareas periódicas (aviso diario de estoque bajo).
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/application/ports"
)

const jobTimeout = 2 * time.Minute

// LowStockSource origen de los productos críticos.
type LowStockSource interface {
	LowStock(ctx context.Context) ([]dto.CriticalProductDTO, error)
}

// Scheduler envuelve cron con el trabajo de estoque bajo.
type Scheduler struct {
	cron      *cron.Cron
	source    LowStockSource
	publisher ports.EventPublisher
	log       zerolog.Logger
	now       func() time.Time
}

// New construye el scheduler. Con expresión vacía no agenda nada.
func New(expr string, loc *time.Location, source LowStockSource, publisher ports.EventPublisher, log zerolog.Logger) (*Scheduler, error) {
	if loc == nil {
		loc = time.Local
	}
	if publisher == nil {
		publisher = ports.NopPublisher{}
	}
	s := &Scheduler{
		cron:      cron.New(cron.WithLocation(loc)),
		source:    source,
		publisher: publisher,
		log:       log,
		now:       time.Now,
	}
	if expr == "" {
		return s, nil
	}
	if _, err := s.cron.AddFunc(expr, s.runLowStock); err != nil {
		return nil, fmt.Errorf("invalid LOW_STOCK_CRON %q: %w", expr, err)
	}
	return s, nil
}

// Jobs cantidad de tareas agendadas.
func (s *Scheduler) Jobs() int { return len(s.cron.Entries()) }

func (s *Scheduler) Start() {
	s.log.Info().Int("jobs", s.Jobs()).Msg("scheduler iniciado")
	s.cron.Start()
}

// Stop espera a que terminen las tareas en curso o a que ctx expire.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
	s.log.Info().Msg("scheduler detenido")
}

func (s *Scheduler) runLowStock() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	if _, err := s.CheckLowStock(ctx); err != nil {
		s.log.Error().Err(err).Msg("falla en el chequeo de estoque bajo")
	}
}

// CheckLowStock consulta los productos críticos, los registra y publica stock.low si hay alguno.
func (s *Scheduler) CheckLowStock(ctx context.Context) ([]dto.CriticalProductDTO, error) {
	items, err := s.source.LowStock(ctx)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		s.log.Info().Msg("sin productos con estoque bajo")
		return items, nil
	}
	for _, p := range items {
		s.log.Warn().
			Str("product_id", p.ID).
			Str("product", p.Name).
			Str("current_stock", p.CurrentStock.String()).
			Str("minimum_stock", p.MinimumStock.String()).
			Msg("estoque bajo")
	}
	s.publisher.Publish(ports.Event{Type: ports.EventStockLow, Count: len(items), At: s.now().UTC()})
	return items, nil
}
