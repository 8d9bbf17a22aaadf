// Package dbtest opens throwaway SQLite databases migrated with the service
// models and seeds them with fixtures.
package dbtest

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	applicationModel "github.com/festy23/workmatch/internal/application/model"
	interviewModel "github.com/festy23/workmatch/internal/interview/model"
	memberModel "github.com/festy23/workmatch/internal/member/model"
	postModel "github.com/festy23/workmatch/internal/post/model"
	recommendationModel "github.com/festy23/workmatch/internal/recommendation/model"
	teamModel "github.com/festy23/workmatch/internal/team/model"
)

var seq atomic.Int64

// Models lists every table the service touches, in dependency order.
func Models() []interface{} {
	return []interface{}{
		&postModel.Company{},
		&postModel.Site{},
		&postModel.Post{},
		&memberModel.Member{},
		&memberModel.Career{},
		&memberModel.Certificate{},
		&memberModel.License{},
		&memberModel.Interest{},
		&teamModel.Team{},
		&teamModel.MembersOnTeams{},
		&teamModel.TeamMemberInvitation{},
		&recommendationModel.Batch{},
		&recommendationModel.Recommendation{},
		&applicationModel.Application{},
		&interviewModel.Interview{},
	}
}

// Open returns a fresh in-memory database with all models migrated. The pool
// is pinned to one connection so that every query sees the same database.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:workmatch_%d?mode=memory&cache=private", seq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(Models()...))

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return db
}

// Node returns a snowflake node for tests.
func Node(t testing.TB) *snowflake.Node {
	t.Helper()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	return node
}

// Date returns midnight UTC of the given day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
