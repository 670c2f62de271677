package ports

import (
	"context"
	"time"
)

// ReportCache caché de resultados de reportes. Un fallo de caché nunca es fatal: Get devuelve false.
type ReportCache interface {
	Get(ctx context.Context, key string, dest any) bool
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	// Invalidate descarta todas las entradas de reportes (tras una escritura relevante).
	Invalidate(ctx context.Context) error
}

// NopCache caché deshabilitada: nunca encuentra nada.
type NopCache struct{}

func (NopCache) Get(context.Context, string, any) bool                 { return false }
func (NopCache) Set(context.Context, string, any, time.Duration) error { return nil }
func (NopCache) Invalidate(context.Context) error                      { return nil }
