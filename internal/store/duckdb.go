package store

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/stratviz-lab/stratviz/internal/logger"
	"github.com/stratviz-lab/stratviz/pkg/errors"
	"go.uber.org/zap"
)

// DuckDBStore keeps payload blobs in a DuckDB table keyed by name. Useful
// when result datasets are shipped as a single database file.
type DuckDBStore struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
}

// NewDuckDBStore opens (or creates) the payload table in the database at
// path. Use ":memory:" for an ephemeral store.
func NewDuckDBStore(path string, log *logger.Logger) (*DuckDBStore, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeStoreUnavailable, err, "failed to open duckdb database %q", path)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS payloads (
			key TEXT PRIMARY KEY,
			body BLOB,
			updated_at TIMESTAMP DEFAULT current_timestamp
		)
	`)
	if err != nil {
		db.Close()

		return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, "failed to create payloads table", err)
	}

	return &DuckDBStore{
		db:     db,
		logger: log,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}, nil
}

// Fetch implements DatasetStore.
func (s *DuckDBStore) Fetch(ctx context.Context, key string) (RawPayload, error) {
	query, args, err := s.sq.
		Select("body").
		From("payloads").
		Where(squirrel.Eq{"key": key}).
		ToSql()
	if err != nil {
		return RawPayload{}, errors.Wrap(errors.ErrCodeStoreFetchFailed, "failed to build fetch query", err)
	}

	var body []byte

	err = s.db.QueryRowContext(ctx, query, args...).Scan(&body)
	if err == sql.ErrNoRows {
		return RawPayload{}, errors.Newf(errors.ErrCodeStoreNotFound, "no payload stored under %q", key).WithDetail(key)
	}

	if err != nil {
		return RawPayload{}, errors.Wrapf(errors.ErrCodeStoreFetchFailed, err, "failed to fetch payload %q", key)
	}

	s.logger.Debug("fetched payload", zap.String("key", key), zap.Int("bytes", len(body)))

	return RawPayload{Key: key, Body: body}, nil
}

// List implements DatasetStore.
func (s *DuckDBStore) List(ctx context.Context, prefix string) ([]string, error) {
	query, args, err := s.sq.
		Select("key").
		From("payloads").
		Where(squirrel.Like{"key": prefix + "%"}).
		OrderBy("key").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreListFailed, "failed to build list query", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeStoreListFailed, err, "failed to list payloads under %q", prefix)
	}
	defer rows.Close()

	keys := make([]string, 0)

	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStoreListFailed, "failed to scan payload key", err)
		}

		keys = append(keys, key)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreListFailed, "failed to iterate payload keys", err)
	}

	return keys, nil
}

// Put implements DatasetStore.
func (s *DuckDBStore) Put(ctx context.Context, key string, body []byte) error {
	// squirrel has no upsert support for DuckDB's dialect, so raw SQL here
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO payloads (key, body, updated_at)
		VALUES ($1, $2, current_timestamp)
	`, key, body)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeStorePutFailed, err, "failed to store payload %q", key)
	}

	s.logger.Debug("stored payload", zap.String("key", key), zap.Int("bytes", len(body)))

	return nil
}

// Close implements DatasetStore.
func (s *DuckDBStore) Close() error {
	return s.db.Close()
}
