package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type widget struct {
	ID   string `gorm:"primaryKey"`
	Name string `gorm:"uniqueIndex"`
}

func TestOpenAndMigrate_SQLiteMemory(t *testing.T) {
	db, err := OpenAndMigrate(Config{Driver: DriverSQLite, Path: ":memory:"}, &widget{})
	require.NoError(t, err)
	defer Close(db)

	require.NoError(t, db.Create(&widget{ID: "1", Name: "a"}).Error)

	var count int64
	require.NoError(t, db.Model(&widget{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	assert.NoError(t, Ping(context.Background(), db))
}

func TestOpen_SQLiteLowerFoldsUnicode(t *testing.T) {
	db, err := Open(Config{Driver: DriverSQLite, Path: ":memory:"})
	require.NoError(t, err)
	defer Close(db)

	tests := []struct {
		in   string
		want string
	}{
		{in: "ABC", want: "abc"},
		{in: "Ärger", want: "ärger"},
		{in: "ÉTUDES", want: "études"},
		{in: "ÜBER", want: "über"},
	}

	for _, tt := range tests {
		var got string
		require.NoError(t, db.Raw("SELECT LOWER(?)", tt.in).Scan(&got).Error)
		assert.Equal(t, tt.want, got)
	}

	var matched int
	require.NoError(t, db.Raw("SELECT LOWER(?) LIKE LOWER(?)", "Ärger", "%ÄRG%").Scan(&matched).Error)
	assert.Equal(t, 1, matched)
}

func TestOpen_Errors(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "unknown driver", cfg: Config{Driver: "oracle"}},
		{name: "postgres without dsn", cfg: Config{Driver: DriverPostgres}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Open(tt.cfg)
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost/db")
	t.Setenv("DB_DEBUG", "true")

	cfg := LoadConfig()
	assert.Equal(t, DriverPostgres, cfg.Driver)
	assert.Equal(t, "postgres://u:p@localhost/db", cfg.DSN)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "postgres", cfg.Describe())
}

func TestPing_NilDB(t *testing.T) {
	assert.Error(t, Ping(context.Background(), nil))
}
