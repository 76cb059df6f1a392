package database

import (
	"context"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/pkg/errors"
)

type MigrationHistory struct {
	Version   string
	CreatedTs int64
}

// UpsertMigrationHistory records version once.
func (d *DB) UpsertMigrationHistory(ctx context.Context, version string) (*MigrationHistory, error) {
	list, err := d.FindMigrationHistoryList(ctx)
	if err != nil {
		return nil, err
	}
	for _, history := range list {
		if history.Version == version {
			return history, nil
		}
	}

	history := &MigrationHistory{Version: version, CreatedTs: time.Now().Unix()}
	stmt, args, err := d.builder().Insert("migration_history").
		Rows(goqu.Record{"version": history.Version, "created_ts": history.CreatedTs}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, errors.Wrap(err, "failed to build insert query")
	}
	if _, err := d.DB.ExecContext(ctx, stmt, args...); err != nil {
		return nil, err
	}
	return history, nil
}

func (d *DB) FindMigrationHistoryList(ctx context.Context) ([]*MigrationHistory, error) {
	query, args, err := d.builder().From("migration_history").
		Select("version", "created_ts").
		Order(goqu.C("created_ts").Desc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, errors.Wrap(err, "failed to build select query")
	}
	rows, err := d.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*MigrationHistory, 0)
	for rows.Next() {
		var mia MigrationHistory
		if err := rows.Scan(
			&mia.Version,
			&mia.CreatedTs,
		); err != nil {
			return nil, err
		}

		list = append(list, &mia)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}
