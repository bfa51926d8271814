package postgres

import "time"

type recapCacheTableModel struct {
	CacheKey  string    `db:"cache_key"`
	Payload   string    `db:"payload"`
	ExpiresAt time.Time `db:"expires_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type recapCacheInsertModel struct {
	CacheKey  string    `db:"cache_key"`
	Payload   string    `db:"payload"`
	ExpiresAt time.Time `db:"expires_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
