package postgres

import "time"

type payloadCacheModel struct {
	CacheKey  string    `db:"cache_key"`
	Payload   []byte    `db:"payload"`
	FetchedAt time.Time `db:"fetched_at"`
	ExpiresAt time.Time `db:"expires_at"`
}
