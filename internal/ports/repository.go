package ports

import (
	"context"
	"time"

	"tinytrans/internal/domain"
)

type CacheRepository interface {
	Get(ctx context.Context, src, srcLang, tgtLang, provider, model string) (*domain.CacheEntry, error)
	Put(ctx context.Context, entry *domain.CacheEntry) error
	Count(ctx context.Context) (int, error)
	PurgeOlderThan(ctx context.Context, age time.Duration) (int64, error)
}
