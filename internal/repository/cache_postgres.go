package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gerrit-reviewstats/internal/domain"
)

// PostgresCache хранит историю изменений проектов в таблице change_cache.
type PostgresCache struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

// NewPostgresCache создает новый экземпляр PostgresCache.
func NewPostgresCache(db *sql.DB, ttl time.Duration) *PostgresCache {
	if ttl == 0 {
		ttl = DefaultCacheTTL
	}

	return &PostgresCache{
		db:  db,
		ttl: ttl,
		now: time.Now,
	}
}

// Get возвращает сохраненные изменения или domain.ErrCacheMiss.
func (c *PostgresCache) Get(ctx context.Context, project string) ([]domain.Change, error) {
	var (
		payload   []byte
		fetchedAt time.Time
	)

	err := c.db.QueryRowContext(ctx,
		`SELECT payload, fetched_at FROM change_cache WHERE project_name = $1`,
		project,
	).Scan(&payload, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cached changes: %w", err)
	}

	if c.now().Sub(fetchedAt) > c.ttl {
		return nil, domain.ErrCacheMiss
	}

	var changes []domain.Change
	if err := json.Unmarshal(payload, &changes); err != nil {
		return nil, fmt.Errorf("failed to decode cached changes: %w", err)
	}

	return changes, nil
}

// Put сохраняет или заменяет изменения проекта.
func (c *PostgresCache) Put(ctx context.Context, project string, changes []domain.Change) error {
	payload, err := json.Marshal(changes)
	if err != nil {
		return fmt.Errorf("failed to encode changes: %w", err)
	}

	_, err = c.db.ExecContext(ctx, `
		INSERT INTO change_cache (project_name, payload, fetched_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (project_name)
		DO UPDATE SET payload = EXCLUDED.payload, fetched_at = EXCLUDED.fetched_at`,
		project, payload, c.now(),
	)
	if err != nil {
		return fmt.Errorf("failed to store changes: %w", err)
	}

	return nil
}
