package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/jhoicas/estoque-api/internal/infrastructure/postgres"
	"github.com/jhoicas/estoque-api/pkg/config"
	"github.com/jhoicas/estoque-api/pkg/logger"
)

// env dependencias comunes de los comandos.
type env struct {
	cfg  *config.Config
	pool *pgxpool.Pool
	log  zerolog.Logger
}

// boot carga la configuración y abre el pool. El llamador cierra con env.close.
func boot(ctx context.Context) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "estoquectl"})
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	return &env{cfg: cfg, pool: pool, log: log.Zerolog()}, nil
}

func (e *env) close() { e.pool.Close() }
