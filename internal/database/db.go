package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"regexp"
	"slices"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/zeroverload/SmartLib/internal/log"
	"github.com/zeroverload/SmartLib/internal/storage"
	"github.com/zeroverload/SmartLib/internal/util"
	"github.com/zeroverload/SmartLib/internal/version"
)

type DB struct {
	*sql.DB
	// Dialect is the goqu dialect matching the driver.
	Dialect string
}

// NewDB opens postgres for postgres:// URLs and sqlite for anything else.
func NewDB(dsn string) (*DB, error) {
	if dsn == "" {
		return nil, errors.New("Database URL is required")
	}

	driver, dialect := "sqlite", storage.DialectSQLite
	if util.HasPrefixes(dsn, "postgres://", "postgresql://") {
		driver, dialect = "postgres", storage.DialectPostgres
	}

	d, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s database", driver)
	}
	if driver == "sqlite" {
		// sqlite allows a single writer.
		d.SetMaxOpenConns(1)
	}

	return &DB{DB: d, Dialect: dialect}, nil
}

func (d *DB) Close() error {
	return d.DB.Close()
}

//go:embed migration
var migrationFS embed.FS

const latestSchemaFileName = "LATEST_SCHEMA.sql"

func (d *DB) migrationDir() string {
	if d.Dialect == storage.DialectPostgres {
		return "migration/postgres"
	}
	return "migration/sqlite"
}

// Migrate applies the latest schema and any minor version migrations newer
// than the last recorded one.
func (d *DB) Migrate(ctx context.Context) error {
	currentVersion := version.GetCurrentVersion()
	log.Debug("Migrate database", zap.String("version", currentVersion), zap.String("dialect", d.Dialect))

	if err := d.applyLatestSchema(ctx); err != nil {
		return errors.Wrap(err, "failed to apply latest schema")
	}

	migrationHistoryList, err := d.FindMigrationHistoryList(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to find migration history list")
	}

	schemaVersion := version.GetSchemaVersion(currentVersion)
	// A fresh database already has the latest schema.
	if len(migrationHistoryList) == 0 {
		if _, err := d.UpsertMigrationHistory(ctx, schemaVersion); err != nil {
			return errors.Wrap(err, "failed to upsert migration history")
		}
		return nil
	}

	migrationHistoryVersionList := []string{}
	for _, migrationHistory := range migrationHistoryList {
		migrationHistoryVersionList = append(migrationHistoryVersionList, migrationHistory.Version)
	}
	version.SortVersion(migrationHistoryVersionList)
	latestMigrationHistoryVersion := migrationHistoryVersionList[len(migrationHistoryVersionList)-1]

	if !version.IsVersionGreaterThan(schemaVersion, latestMigrationHistoryVersion) {
		return nil
	}

	log.Info("Start migration", zap.String("from", latestMigrationHistoryVersion), zap.String("to", currentVersion))
	minorVersionList, err := d.getMinorVersionList()
	if err != nil {
		return err
	}
	for _, minorVersion := range minorVersionList {
		// Patch releases never change the schema.
		normalizedVersion := minorVersion + ".0"
		if version.IsVersionGreaterThan(normalizedVersion, latestMigrationHistoryVersion) && version.IsVersionGreaterOrEqualThan(currentVersion, normalizedVersion) {
			log.Info("Applying migration", zap.String("version", normalizedVersion))
			if err := d.applyMigrationForMinorVersion(ctx, minorVersion); err != nil {
				return errors.Wrap(err, "failed to apply minor version migration")
			}
		}
	}
	if _, err := d.UpsertMigrationHistory(ctx, schemaVersion); err != nil {
		return errors.Wrap(err, "failed to upsert migration history")
	}
	log.Info("End migrate")
	return nil
}

func (d *DB) applyLatestSchema(ctx context.Context) error {
	latestSchemaPath := fmt.Sprintf("%s/%s", d.migrationDir(), latestSchemaFileName)
	buf, err := migrationFS.ReadFile(latestSchemaPath)
	if err != nil {
		return errors.Wrapf(err, "failed to read latest schema file: %q", latestSchemaPath)
	}

	stmt := string(buf)
	if err := d.execute(ctx, stmt); err != nil {
		return errors.Wrapf(err, "failed to apply latest schema: %s", stmt)
	}
	return nil
}

func (d *DB) applyMigrationForMinorVersion(ctx context.Context, minorVersion string) error {
	filenames, err := fs.Glob(migrationFS, fmt.Sprintf("%s/%s/*.sql", d.migrationDir(), minorVersion))
	if err != nil {
		return errors.Wrapf(err, "Failed to find migration files for version %s", minorVersion)
	}

	// The filename files are sorted by name, so that they are applied in order.
	// 00001_example.sql, 00002_example.sql, ...
	slices.Sort(filenames)
	for _, filename := range filenames {
		buf, err := migrationFS.ReadFile(filename)
		if err != nil {
			return errors.Wrapf(err, "Failed to read migration file: %q", filename)
		}
		if err := d.execute(ctx, string(buf)); err != nil {
			return errors.Wrapf(err, "Failed to apply migration: %s", filename)
		}
	}

	if _, err := d.UpsertMigrationHistory(ctx, minorVersion+".0"); err != nil {
		return errors.Wrapf(err, "Failed to upsert migration history for version %s", minorVersion)
	}
	return nil
}

// execute runs a single SQL statement within a transaction.
func (d *DB) execute(ctx context.Context, stmt string) error {
	tx, err := d.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, stmt); err != nil {
		return errors.Wrap(err, "failed to execute statement")
	}

	return tx.Commit()
}

// minorDirRegexp matches a minor version directory.
var minorDirRegexp = regexp.MustCompile(`^[0-9]+\.[0-9]+$`)

func (d *DB) getMinorVersionList() ([]string, error) {
	minorVersionList := []string{}

	entries, err := fs.ReadDir(migrationFS, d.migrationDir())
	if err != nil {
		return nil, errors.Wrap(err, "failed to read migration directory")
	}
	for _, entry := range entries {
		if entry.IsDir() && minorDirRegexp.MatchString(entry.Name()) {
			minorVersionList = append(minorVersionList, entry.Name())
		}
	}

	// Minor versions sort as x.y.0.
	slices.SortFunc(minorVersionList, func(a, b string) int {
		switch {
		case version.IsVersionGreaterThan(a+".0", b+".0"):
			return 1
		case version.IsVersionGreaterThan(b+".0", a+".0"):
			return -1
		}
		return 0
	})

	return minorVersionList, nil
}

func (d *DB) builder() goqu.DialectWrapper {
	return goqu.Dialect(d.Dialect)
}
