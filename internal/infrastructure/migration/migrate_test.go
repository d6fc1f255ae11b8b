package migration

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openSQLite(t *testing.T) (*gorm.DB, *sql.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db, sqlDB
}

func newSQLiteMigrator(t *testing.T) (*Migrator, *gorm.DB) {
	t.Helper()
	db, sqlDB := openSQLite(t)
	m, err := New(sqlDB, DialectSQLite, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	return m, db
}

func TestMigrator_UpDown(t *testing.T) {
	m, db := newSQLiteMigrator(t)

	version, dirty, err := m.Version()
	require.NoError(t, err)
	assert.Zero(t, version)
	assert.False(t, dirty)

	require.NoError(t, m.Up())
	assert.True(t, db.Migrator().HasTable("keyed_entities"))
	assert.True(t, db.Migrator().HasIndex("keyed_entities", "idx_keyed_entities_ns_active"))

	version, dirty, err = m.Version()
	require.NoError(t, err)
	assert.EqualValues(t, 1, version)
	assert.False(t, dirty)

	// nothing pending
	require.NoError(t, m.Up())

	require.NoError(t, m.Down())
	assert.False(t, db.Migrator().HasTable("keyed_entities"))
	require.NoError(t, m.Down())
}

func TestMigrator_StepsAndGoTo(t *testing.T) {
	m, db := newSQLiteMigrator(t)

	require.NoError(t, m.Steps(1))
	assert.True(t, db.Migrator().HasTable("keyed_entities"))

	require.NoError(t, m.Steps(-1))
	assert.False(t, db.Migrator().HasTable("keyed_entities"))

	require.NoError(t, m.GoTo(1))
	version, _, err := m.Version()
	require.NoError(t, err)
	assert.EqualValues(t, 1, version)
}

func TestMigrator_CloseKeepsSQLiteHandleOpen(t *testing.T) {
	_, sqlDB := openSQLite(t)
	m, err := New(sqlDB, DialectSQLite, nil)
	require.NoError(t, err)
	require.NoError(t, m.Up())

	require.NoError(t, m.Close())
	assert.NoError(t, sqlDB.Ping())
}

func TestNew_UnsupportedDialect(t *testing.T) {
	_, sqlDB := openSQLite(t)

	m, err := New(sqlDB, "oracle", nil)
	assert.Nil(t, m)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported migration dialect "oracle"`)
}

func TestNew_WithDir(t *testing.T) {
	_, sqlDB := openSQLite(t)

	m, err := New(sqlDB, DialectSQLite, nil, WithDir("migrations/sqlite"))
	require.NoError(t, err)
	defer m.Close()

	require.NoError(t, m.Up())
	version, _, err := m.Version()
	require.NoError(t, err)
	assert.EqualValues(t, 1, version)
}

func TestList(t *testing.T) {
	for _, dialect := range []string{DialectPostgres, DialectSQLite} {
		t.Run(dialect, func(t *testing.T) {
			names, err := List(dialect)
			require.NoError(t, err)
			assert.Equal(t, []string{"000001_create_keyed_entities"}, names)
		})
	}

	_, err := List("oracle")
	assert.Error(t, err)
}
