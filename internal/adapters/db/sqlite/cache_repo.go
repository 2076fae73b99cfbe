package sqlite

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"

	"tinytrans/internal/domain"
	"tinytrans/internal/ports"
)

// CacheRepo is the translation memory of the auto-translate service. Rows are
// keyed by a hash of the masked source so long texts index cheaply.
type CacheRepo struct {
	db *sql.DB
	sb sq.StatementBuilderType
}

func NewCacheRepo(db *sql.DB) *CacheRepo {
	return &CacheRepo{db: db, sb: sq.StatementBuilder.RunWith(db)}
}

var _ ports.CacheRepository = (*CacheRepo)(nil)

func HashText(s string) string {
	h := sha256.Sum256([]byte(s))
	return hex.EncodeToString(h[:])
}

var cacheColumns = []string{
	"id",
	"source_hash",
	"source_text",
	"src_lang",
	"tgt_lang",
	"provider",
	"model",
	"translation",
	"created_at",
}

// Get returns the remembered translation, or nil when there is none.
func (r *CacheRepo) Get(ctx context.Context, src, srcLang, tgtLang, provider, model string) (*domain.CacheEntry, error) {
	row := r.sb.Select(cacheColumns...).
		From("cache").
		Where(sq.Eq{
			"source_hash": HashText(src),
			"src_lang":    srcLang,
			"tgt_lang":    tgtLang,
			"provider":    provider,
			"model":       model,
		}).
		Limit(1).
		QueryRowContext(ctx)

	var e domain.CacheEntry
	var created string
	err := row.Scan(&e.ID, &e.SourceHash, &e.SourceText, &e.SrcLang, &e.TgtLang, &e.Provider, &e.Model, &e.Translation, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	e.CreatedAt, _ = time.Parse(time.RFC3339, created)
	return &e, nil
}

// Put stores entry, replacing the translation and its age for an existing key.
func (r *CacheRepo) Put(ctx context.Context, entry *domain.CacheEntry) error {
	now := time.Now().UTC().Truncate(time.Second)
	entry.SourceHash = HashText(entry.SourceText)
	_, err := r.sb.Insert("cache").
		Columns(cacheColumns[1:]...).
		Values(
			entry.SourceHash,
			entry.SourceText,
			entry.SrcLang,
			entry.TgtLang,
			entry.Provider,
			entry.Model,
			entry.Translation,
			now.Format(time.RFC3339),
		).
		Suffix("ON CONFLICT(source_hash, src_lang, tgt_lang, provider, model) DO UPDATE SET translation=excluded.translation, created_at=excluded.created_at").
		ExecContext(ctx)
	if err != nil {
		return err
	}
	entry.CreatedAt = now
	return nil
}

func (r *CacheRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.sb.Select("COUNT(*)").From("cache").QueryRowContext(ctx).Scan(&n)
	return n, err
}

// PurgeOlderThan deletes entries stored more than age ago.
func (r *CacheRepo) PurgeOlderThan(ctx context.Context, age time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-age).Format(time.RFC3339)
	res, err := r.sb.Delete("cache").Where(sq.Lt{"created_at": cutoff}).ExecContext(ctx)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
