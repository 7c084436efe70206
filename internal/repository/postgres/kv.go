package postgres

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"

	"github.com/wempy/storefront/internal/domain"
	"github.com/wempy/storefront/internal/storage"
)

type kvRepository struct {
	db     *sql.DB
	scope  domain.Scope
	logger *zap.Logger
}

// NewKVRepository creates a key-value repository confined to one scope
func NewKVRepository(db *sql.DB, scope domain.Scope, logger *zap.Logger) *kvRepository {
	return &kvRepository{
		db:     db,
		scope:  scope,
		logger: logger,
	}
}

// NewStores creates the session and profile stores backed by the same table
func NewStores(db *sql.DB, logger *zap.Logger) storage.Stores {
	return storage.Stores{
		Session: NewKVRepository(db, domain.ScopeSession, logger),
		Profile: NewKVRepository(db, domain.ScopeProfile, logger),
	}
}

func (r *kvRepository) Get(ctx context.Context, key string) (string, bool, error) {
	query := `
		SELECT value
		FROM kv_entries
		WHERE scope = $1 AND key = $2
	`

	var value string
	err := r.db.QueryRowContext(ctx, query, string(r.scope), key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		r.logger.Error("Failed to get key", zap.String("scope", string(r.scope)), zap.String("key", key), zap.Error(err))
		return "", false, err
	}

	return value, true, nil
}

func (r *kvRepository) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO kv_entries (scope, key, value, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (scope, key) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.ExecContext(ctx, query, string(r.scope), key, value, time.Now())
	if err != nil {
		r.logger.Error("Failed to set key", zap.String("scope", string(r.scope)), zap.String("key", key), zap.Error(err))
		return err
	}

	return nil
}

func (r *kvRepository) Remove(ctx context.Context, key string) error {
	query := `
		DELETE FROM kv_entries
		WHERE scope = $1 AND key = $2
	`

	_, err := r.db.ExecContext(ctx, query, string(r.scope), key)
	if err != nil {
		r.logger.Error("Failed to remove key", zap.String("scope", string(r.scope)), zap.String("key", key), zap.Error(err))
		return err
	}

	return nil
}

// PurgeSessions deletes session scoped keys not written since cutoff
func (r *kvRepository) PurgeSessions(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `
		DELETE FROM kv_entries
		WHERE scope = $1 AND updated_at < $2
	`

	res, err := r.db.ExecContext(ctx, query, string(domain.ScopeSession), cutoff)
	if err != nil {
		r.logger.Error("Failed to purge session keys", zap.Error(err))
		return 0, err
	}

	return res.RowsAffected()
}
