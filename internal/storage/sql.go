package storage

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"  // dialect registration
	"github.com/pkg/errors"
)

const (
	DialectSQLite   = "sqlite3"
	DialectPostgres = "postgres"

	tableCollections = "collections"
	colName          = "name"
	colData          = "data"
	colUpdatedTs     = "updated_ts"
)

// SQLStorage keeps one row per collection in the collections table.
type SQLStorage struct {
	db      *sql.DB
	dialect goqu.DialectWrapper
}

func NewSQLStorage(db *sql.DB, dialect string) *SQLStorage {
	return &SQLStorage{
		db:      db,
		dialect: goqu.Dialect(dialect),
	}
}

func (s *SQLStorage) Load(ctx context.Context, collection string) ([]byte, error) {
	query, args, err := s.dialect.From(tableCollections).
		Select(colData).
		Where(goqu.C(colName).Eq(collection)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, errors.Wrap(err, "failed to build select query")
	}

	var data string
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "failed to load collection %s", collection)
	}
	return []byte(data), nil
}

func (s *SQLStorage) Save(ctx context.Context, batch map[string][]byte) error {
	if len(batch) == 0 {
		return nil
	}
	names := make([]string, 0, len(batch))
	for name := range batch {
		names = append(names, name)
	}
	sort.Strings(names)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	now := time.Now().Unix()
	for _, name := range names {
		del, args, err := s.dialect.Delete(tableCollections).
			Where(goqu.C(colName).Eq(name)).
			Prepared(true).
			ToSQL()
		if err != nil {
			return errors.Wrap(err, "failed to build delete query")
		}
		if _, err := tx.ExecContext(ctx, del, args...); err != nil {
			return errors.Wrapf(err, "failed to clear collection %s", name)
		}

		ins, args, err := s.dialect.Insert(tableCollections).
			Rows(goqu.Record{colName: name, colData: string(batch[name]), colUpdatedTs: now}).
			Prepared(true).
			ToSQL()
		if err != nil {
			return errors.Wrap(err, "failed to build insert query")
		}
		if _, err := tx.ExecContext(ctx, ins, args...); err != nil {
			return errors.Wrapf(err, "failed to write collection %s", name)
		}
	}

	return errors.Wrap(tx.Commit(), "failed to commit collections")
}

func (s *SQLStorage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLStorage) Close() error {
	return s.db.Close()
}
