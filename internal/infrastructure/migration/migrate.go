// Package migration applies the versioned SQL schema of the keyed store with
// golang-migrate. Migrations are embedded per dialect, so the server binary
// and cmd/migrate carry the same schema.
package migration

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed migrations
var embedded embed.FS

// Supported dialects. They match config.DatabaseConfig.Dialect.
const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

// Migrator runs migrations against an open database handle
type Migrator struct {
	migrate *migrate.Migrate
	source  source.Driver
	db      database.Driver
	dialect string
	logger  *zap.Logger
}

// Option customizes New
type Option func(*options)

type options struct {
	dir string
}

// WithDir reads migrations from dir on disk instead of the embedded set
func WithDir(dir string) Option {
	return func(o *options) {
		o.dir = dir
	}
}

// New creates a Migrator for db. The caller keeps ownership of db.
func New(db *sql.DB, dialect string, logger *zap.Logger, opts ...Option) (*Migrator, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	var (
		drv database.Driver
		err error
	)
	switch dialect {
	case DialectPostgres:
		drv, err = postgres.WithInstance(db, &postgres.Config{})
	case DialectSQLite:
		drv, err = sqlite3.WithInstance(db, &sqlite3.Config{})
	default:
		return nil, fmt.Errorf("unsupported migration dialect %q", dialect)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s migration driver: %w", dialect, err)
	}

	src, err := openSource(dialect, o.dir)
	if err != nil {
		return nil, err
	}

	m, err := migrate.NewWithInstance("iofs", src, dialect, drv)
	if err != nil {
		_ = src.Close()
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}

	return &Migrator{
		migrate: m,
		source:  src,
		db:      drv,
		dialect: dialect,
		logger:  logger.Named("migration"),
	}, nil
}

func openSource(dialect, dir string) (source.Driver, error) {
	var (
		fsys fs.FS = embedded
		root       = path.Join("migrations", dialect)
	)
	if dir != "" {
		fsys, root = os.DirFS(dir), "."
	}
	src, err := iofs.New(fsys, root)
	if err != nil {
		return nil, fmt.Errorf("failed to open migrations for %s: %w", dialect, err)
	}
	return src, nil
}

// Up applies all pending migrations
func (m *Migrator) Up() error {
	err := m.migrate.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		m.logger.Debug("Schema up to date")
		return nil
	}
	if err != nil {
		return fmt.Errorf("migration up failed: %w", err)
	}
	return m.logVersion("Migrations applied")
}

// Down rolls back every migration
func (m *Migrator) Down() error {
	err := m.migrate.Down()
	if errors.Is(err, migrate.ErrNoChange) {
		m.logger.Info("No migrations to roll back")
		return nil
	}
	if err != nil {
		return fmt.Errorf("migration down failed: %w", err)
	}
	m.logger.Info("All migrations rolled back")
	return nil
}

// Steps applies n migrations; a negative n rolls back
func (m *Migrator) Steps(n int) error {
	err := m.migrate.Steps(n)
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("migration steps %d failed: %w", n, err)
	}
	return m.logVersion("Migration steps applied")
}

// GoTo migrates up or down to version
func (m *Migrator) GoTo(version uint) error {
	err := m.migrate.Migrate(version)
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("migration to version %d failed: %w", version, err)
	}
	return m.logVersion("Migrated to version")
}

// Version returns the applied version. Zero means nothing is applied.
func (m *Migrator) Version() (uint, bool, error) {
	version, dirty, err := m.migrate.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to get migration version: %w", err)
	}
	return version, dirty, nil
}

// Force records version as applied without running it, clearing the dirty flag
func (m *Migrator) Force(version int) error {
	m.logger.Warn("Forcing migration version", zap.Int("version", version))
	if err := m.migrate.Force(version); err != nil {
		return fmt.Errorf("failed to force version %d: %w", version, err)
	}
	return nil
}

// Drop removes every table in the database, including the version table
func (m *Migrator) Drop() error {
	m.logger.Warn("Dropping database objects")
	if err := m.migrate.Drop(); err != nil {
		return fmt.Errorf("failed to drop database: %w", err)
	}
	return nil
}

func (m *Migrator) logVersion(msg string) error {
	version, dirty, err := m.Version()
	if err != nil {
		return err
	}
	m.logger.Info(msg, zap.Uint("version", version), zap.Bool("dirty", dirty))
	return nil
}

// Close releases the migration source and, for postgres, the dedicated
// connection. The sqlite driver's Close would close the shared *sql.DB, so
// it is left to the handle's owner.
func (m *Migrator) Close() error {
	errs := []error{m.source.Close()}
	if m.dialect == DialectPostgres {
		errs = append(errs, m.db.Close())
	}
	return errors.Join(errs...)
}

// List returns the embedded migration names for dialect, oldest first
func List(dialect string) ([]string, error) {
	entries, err := fs.ReadDir(embedded, path.Join("migrations", dialect))
	if err != nil {
		return nil, fmt.Errorf("no migrations for dialect %q: %w", dialect, err)
	}
	var names []string
	for _, e := range entries {
		if name, ok := strings.CutSuffix(e.Name(), ".up.sql"); ok {
			names = append(names, name)
		}
	}
	return names, nil
}
