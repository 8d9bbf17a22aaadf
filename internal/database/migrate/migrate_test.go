package migrate

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const repoMigrations = "../../../migrations"

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func TestGetMigrationsPath(t *testing.T) {
	t.Setenv("MIGRATIONS_PATH", "")
	assert.Equal(t, "migrations", GetMigrationsPath())

	t.Setenv("MIGRATIONS_PATH", "/srv/workmatch/migrations")
	assert.Equal(t, "/srv/workmatch/migrations", GetMigrationsPath())
}

func TestRun_Preconditions(t *testing.T) {
	tests := []struct {
		name    string
		run     func(t *testing.T) error
		wantErr string
	}{
		{
			name:    "nil database",
			run:     func(*testing.T) error { return Run(nil, repoMigrations, Up, 0) },
			wantErr: "database connection is nil",
		},
		{
			name: "missing directory",
			run: func(t *testing.T) error {
				return Run(openSQLite(t), filepath.Join(t.TempDir(), "absent"), Down, 1)
			},
			wantErr: "migrations directory does not exist",
		},
		{
			name: "non-postgres connection",
			run: func(t *testing.T) error {
				return Run(openSQLite(t), repoMigrations, Up, 0)
			},
			wantErr: "postgres",
		},
		{
			name:    "version on nil database",
			run:     func(*testing.T) error { _, _, err := Version(nil, repoMigrations); return err },
			wantErr: "database connection is nil",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run(t)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMigrate_UsesEnvironmentPath(t *testing.T) {
	t.Setenv("MIGRATIONS_PATH", "/non/existent/path")

	err := Migrate(openSQLite(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/non/existent/path")
}

// Every version must ship both directions so `migrate down` can unwind it.
func TestRepositoryMigrationsArePaired(t *testing.T) {
	entries, err := os.ReadDir(repoMigrations)
	require.NoError(t, err)

	ups := map[string]bool{}
	downs := map[string]bool{}
	for _, e := range entries {
		name := e.Name()
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		}
	}

	require.NotEmpty(t, ups)
	assert.Equal(t, keys(ups), keys(downs))
}

func keys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
