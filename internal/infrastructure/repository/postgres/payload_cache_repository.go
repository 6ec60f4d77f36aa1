package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/courtvision/courtvision/internal/platform/logging"
	"github.com/courtvision/courtvision/internal/platform/resilience"
)

// PayloadCacheRepository persists upstream response bodies in the
// http_response_cache table so warmed payloads survive process restarts.
// Reads degrade to the loader on database trouble; only loader errors are
// surfaced to the caller.
type PayloadCacheRepository struct {
	db     *sqlx.DB
	flight resilience.SingleFlight
	logger *logging.Logger
	now    func() time.Time
}

func NewPayloadCacheRepository(db *sqlx.DB, logger *logging.Logger) *PayloadCacheRepository {
	if logger == nil {
		logger = logging.Default()
	}
	return &PayloadCacheRepository{
		db:     db,
		logger: logger,
		now:    time.Now,
	}
}

func (r *PayloadCacheRepository) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if key == "" {
		return nil, false, nil
	}

	var model payloadCacheModel
	err := r.db.GetContext(ctx, &model,
		`SELECT cache_key, payload, fetched_at, expires_at
		 FROM http_response_cache
		 WHERE cache_key = $1`, key)
	if isNotFound(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read cached payload key=%s: %w", key, err)
	}
	if !model.ExpiresAt.After(r.now()) {
		return nil, false, nil
	}

	return model.Payload, true, nil
}

func (r *PayloadCacheRepository) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	if key == "" || ttl <= 0 {
		return nil
	}

	now := r.now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO http_response_cache (cache_key, payload, fetched_at, expires_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (cache_key)
		 DO UPDATE SET
		     payload = EXCLUDED.payload,
		     fetched_at = EXCLUDED.fetched_at,
		     expires_at = EXCLUDED.expires_at`,
		key, payload, now, now.Add(ttl))
	if err != nil {
		return fmt.Errorf("store cached payload key=%s: %w", key, err)
	}

	return nil
}

// PurgeExpired removes rows whose lifetime has passed and reports how many
// were deleted. Expiry is otherwise lazy, so this only reclaims space.
func (r *PayloadCacheRepository) PurgeExpired(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM http_response_cache WHERE expires_at <= $1`, r.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("purge expired cached payloads: %w", err)
	}

	removed, err := res.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return removed, nil
}

// GetOrLoad returns the cached payload for key, or runs loader and stores
// its result for ttl. Concurrent callers on the same key share one loader
// call per process.
func (r *PayloadCacheRepository) GetOrLoad(ctx context.Context, key string, ttl time.Duration, loader func(context.Context) ([]byte, error)) ([]byte, bool, error) {
	if loader == nil {
		return nil, false, fmt.Errorf("loader is required")
	}
	if key == "" || ttl <= 0 {
		payload, err := loader(ctx)
		return payload, false, err
	}

	if payload, ok := r.lookup(ctx, key); ok {
		return payload, true, nil
	}

	fromCache := false
	value, err, shared := r.flight.Do(key, func() (any, error) {
		if cached, ok := r.lookup(ctx, key); ok {
			fromCache = true
			return cached, nil
		}

		loaded, loadErr := loader(ctx)
		if loadErr != nil {
			return nil, loadErr
		}
		if setErr := r.Set(ctx, key, loaded, ttl); setErr != nil {
			r.logger.WarnContext(ctx, "cached payload write failed", "key", key, "error", setErr)
		}
		return loaded, nil
	})
	if err != nil {
		return nil, false, err
	}

	payload, _ := value.([]byte)
	return payload, fromCache || shared, nil
}

func (r *PayloadCacheRepository) lookup(ctx context.Context, key string) ([]byte, bool) {
	payload, ok, err := r.Get(ctx, key)
	if err != nil {
		r.logger.WarnContext(ctx, "cached payload read failed", "key", key, "error", err)
		return nil, false
	}
	return payload, ok
}
