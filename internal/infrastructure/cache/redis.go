// Package cache implementa ports.ReportCache sobre Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/jhoicas/estoque-api/internal/application/ports"
	"github.com/jhoicas/estoque-api/internal/application/report"
	"github.com/jhoicas/estoque-api/pkg/config"
)

var _ ports.ReportCache = (*ReportCache)(nil)

const scanBatch = 100

// ReportCache guarda reportes serializados en JSON. Con cliente nil se comporta como caché vacía.
type ReportCache struct {
	rdb *redis.Client
	log zerolog.Logger
}

// NewClient abre el cliente Redis y verifica la conexión. Devuelve nil si REDIS_ADDR está vacío.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	if !cfg.Enabled() {
		return nil, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

// NewReportCache construye la caché.
func NewReportCache(rdb *redis.Client, log zerolog.Logger) *ReportCache {
	return &ReportCache{rdb: rdb, log: log}
}

// Get decodifica la entrada en dest. Falla de red, miss o JSON corrupto cuentan como miss.
func (c *ReportCache) Get(ctx context.Context, key string, dest any) bool {
	if c.rdb == nil {
		return false
	}
	val, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn().Err(err).Str("key", key).Msg("redis get")
		}
		return false
	}
	return json.Unmarshal(val, dest) == nil
}

// Set serializa value con el TTL dado.
func (c *ReportCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if c.rdb == nil {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode cache value: %w", err)
	}
	return c.rdb.Set(ctx, key, data, ttl).Err()
}

// Invalidate borra todas las claves de reportes usando SCAN para no bloquear Redis.
func (c *ReportCache) Invalidate(ctx context.Context) error {
	if c.rdb == nil {
		return nil
	}
	iter := c.rdb.Scan(ctx, 0, report.CacheKeyPrefix+"*", scanBatch).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan report keys: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}
