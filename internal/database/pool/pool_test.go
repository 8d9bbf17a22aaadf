package pool

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

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

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "defaults", cfg: DefaultPoolConfig()},
		{name: "no idle connections", cfg: Config{MaxOpenConns: 4}},
		{name: "idle equals open", cfg: Config{MaxOpenConns: 4, MaxIdleConns: 4}},
		{name: "zero open", cfg: Config{}, wantErr: "max open connections must be positive"},
		{name: "negative idle", cfg: Config{MaxOpenConns: 1, MaxIdleConns: -1}, wantErr: "max idle connections must be non-negative"},
		{name: "idle above open", cfg: Config{MaxOpenConns: 2, MaxIdleConns: 3}, wantErr: "3 idle connections exceed the 2 open limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSetupConnectionPool(t *testing.T) {
	t.Run("applies limits", func(t *testing.T) {
		db := openSQLite(t)
		cfg := Config{MaxOpenConns: 7, MaxIdleConns: 2, ConnMaxLifetime: time.Minute, ConnMaxIdleTime: time.Minute}

		require.NoError(t, SetupConnectionPool(db, cfg))

		sqlDB, err := db.DB()
		require.NoError(t, err)
		assert.Equal(t, 7, sqlDB.Stats().MaxOpenConnections)
	})

	t.Run("rejects invalid config before touching the pool", func(t *testing.T) {
		db := openSQLite(t)

		err := SetupConnectionPool(db, Config{MaxOpenConns: 1, MaxIdleConns: 5})
		require.Error(t, err)

		sqlDB, dbErr := db.DB()
		require.NoError(t, dbErr)
		assert.Equal(t, 0, sqlDB.Stats().MaxOpenConnections, "unlimited until configured")
	})
}
