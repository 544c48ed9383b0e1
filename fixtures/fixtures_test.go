package fixtures

import (
	"context"
	"testing"

	"idl-tracker/packages/core"
	"idl-tracker/packages/core/models"
	"idl-tracker/packages/core/rating"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestGenerateAndClear(t *testing.T) {
	ctx := context.Background()
	db, err := gorm.Open(sqlite.Open("file:fixtures?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(models.All()...))

	module := core.NewModule(db, core.Options{
		DefaultElo: 1500,
		Rounding:   rating.RoundHalfAwayFromZero,
		RatingCron: "@every 1h",
	})
	f := NewFixtures(db, module)

	summary, err := f.GenerateTestData(ctx)
	require.NoError(t, err)
	assert.Equal(t, Summary{Players: 20, Seasons: 2, Teams: 8, Matches: 14, Games: 30, Rated: 30}, summary)

	stats, err := module.StatsService.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(30), stats.RatedGames)
	assert.Zero(t, stats.PendingGames)

	board, err := module.PlayerService.GetLeaderboard(ctx, 5)
	require.NoError(t, err)
	require.Len(t, board, 5)
	for _, e := range board {
		p, err := module.PlayerService.GetPlayerByID(ctx, e.PlayerID)
		require.NoError(t, err)
		require.NotNil(t, p.LastSeasonNumber)
		assert.Equal(t, uint(2), *p.LastSeasonNumber)
	}

	require.NoError(t, f.ClearAllData())

	stats, err = module.StatsService.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.Stats{}, *stats)
}
