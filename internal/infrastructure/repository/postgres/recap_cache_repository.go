package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	qb "github.com/pnsgg/SmashRecap/internal/platform/querybuilder"
)

// RecapCacheRepository persists rendered recap bundles in Postgres so cached
// recaps survive restarts and are shared across instances.
type RecapCacheRepository struct {
	db *sqlx.DB
}

func NewRecapCacheRepository(db *sqlx.DB) *RecapCacheRepository {
	return &RecapCacheRepository{db: db}
}

func (r *RecapCacheRepository) Get(ctx context.Context, key string) ([]byte, bool, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, false, nil
	}

	query, args, err := qb.Select("payload").From("recap_cache").
		Where(
			qb.Eq("cache_key", key),
			qb.Expr("expires_at > now()"),
		).
		ToSQL()
	if err != nil {
		return nil, false, fmt.Errorf("build get recap cache query: %w", err)
	}

	var payload string
	if err := r.db.GetContext(ctx, &payload, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get recap cache key=%s: %w", key, err)
	}

	return []byte(payload), true, nil
}

func (r *RecapCacheRepository) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("cache key is required")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	now := time.Now().UTC()
	model := recapCacheInsertModel{
		CacheKey:  key,
		Payload:   string(payload),
		ExpiresAt: now.Add(ttl),
		UpdatedAt: now,
	}

	query, args, err := qb.InsertModel("recap_cache", model, `ON CONFLICT (cache_key)
DO UPDATE SET
    payload = EXCLUDED.payload,
    expires_at = EXCLUDED.expires_at,
    updated_at = EXCLUDED.updated_at`)
	if err != nil {
		return fmt.Errorf("build upsert recap cache query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert recap cache key=%s: %w", key, err)
	}
	return nil
}

// PurgeExpired removes stale rows. The warm-up job runs it after refreshing
// the featured recaps.
func (r *RecapCacheRepository) PurgeExpired(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM recap_cache WHERE expires_at <= now()`)
	if err != nil {
		return 0, fmt.Errorf("purge expired recap cache: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count purged recap cache rows: %w", err)
	}
	return affected, nil
}
