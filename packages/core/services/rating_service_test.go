package services

import (
	"context"
	"testing"
	"time"

	"idl-tracker/metrics"
	"idl-tracker/packages/core/models"
	"idl-tracker/packages/core/rating"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRatingService_RateGame(t *testing.T) {
	ctx := context.Background()
	l := newLeague(t)
	ratedAt := time.Date(2025, time.March, 4, 9, 0, 0, 0, time.UTC)
	l.ratings.now = func() time.Time { return ratedAt }

	match := l.newMatch(t, l.season, l.home, l.away, models.MatchKindRegular, leagueStart)
	game := l.recordGame(t, match, l.home, l.away, "8000000001", leagueStart, true)

	history, err := l.ratings.RateGame(ctx, game.ID)
	require.NoError(t, err)
	require.Len(t, history, 10)

	for _, h := range history {
		assert.Equal(t, game.ID, h.GameID)
		assert.Empty(t, h.RunID)
		assert.True(t, h.IsSeasonGame)
		assert.Equal(t, 1500, h.EloBefore)
		assert.Equal(t, 1500.0, h.TeamAverageElo)
		if h.WonGame {
			assert.Equal(t, 14, h.EloChange)
			assert.Equal(t, 1514, h.EloAfter)
		} else {
			assert.Equal(t, -14, h.EloChange)
			assert.Equal(t, 1486, h.EloAfter)
		}
	}

	winner := l.player(t, l.roster[0].ID)
	assert.Equal(t, 1514, winner.Elo)
	assert.Equal(t, 1, winner.GamesPlayedThisSeason)
	assert.Equal(t, 1, winner.GamesPlayedTotal)
	assert.Equal(t, 1500, winner.PreviousSeasonElo)
	require.NotNil(t, winner.LastSeasonNumber)
	assert.Equal(t, uint(1), *winner.LastSeasonNumber)
	require.NotNil(t, winner.EloLastUpdatedAt)
	assert.True(t, leagueStart.Equal(*winner.EloLastUpdatedAt))

	loser := l.player(t, l.roster[9].ID)
	assert.Equal(t, 1486, loser.Elo)

	var stored models.Game
	require.NoError(t, l.db.First(&stored, game.ID).Error)
	require.NotNil(t, stored.RatedAt)
	assert.True(t, ratedAt.Equal(*stored.RatedAt))

	// a second application is refused and changes nothing
	_, err = l.ratings.RateGame(ctx, game.ID)
	assert.ErrorIs(t, err, rating.ErrAlreadyApplied)
	assert.Equal(t, 1514, l.player(t, l.roster[0].ID).Elo)

	_, err = l.ratings.RateGame(ctx, 999)
	assert.ErrorIs(t, err, ErrGameNotFound)
}

func TestRatingService_RateGameOutOfOrder(t *testing.T) {
	ctx := context.Background()
	l := newLeague(t)

	match := l.newMatch(t, l.season, l.home, l.away, models.MatchKindRegular, leagueStart)
	first := l.recordGame(t, match, l.home, l.away, "8000000001", leagueStart, true)
	second := l.recordGame(t, match, l.home, l.away, "8000000002", leagueStart.Add(time.Hour), false)

	_, err := l.ratings.RateGame(ctx, second.ID)
	assert.ErrorIs(t, err, rating.ErrOutOfOrder)
	assert.Equal(t, 1500, l.player(t, l.roster[0].ID).Elo)

	_, err = l.ratings.RateGame(ctx, first.ID)
	require.NoError(t, err)
	_, err = l.ratings.RateGame(ctx, second.ID)
	require.NoError(t, err)

	// recorded late but started before the last rated game
	late := l.recordGame(t, match, l.home, l.away, "8000000003", leagueStart.Add(30*time.Minute), true)
	_, err = l.ratings.RateGame(ctx, late.ID)
	assert.ErrorIs(t, err, rating.ErrOutOfOrder)
}

func TestRatingService_RollsBackWholeGame(t *testing.T) {
	ctx := context.Background()
	recorder := metrics.NewRecorder()
	l := newLeague(t)
	l.ratings = NewRatingService(l.db, rating.RoundHalfAwayFromZero, recorder)

	match := l.newMatch(t, l.season, l.home, l.away, models.MatchKindRegular, leagueStart)
	game := l.recordGame(t, match, l.home, l.away, "8000000001", leagueStart, true)

	// a removed player leaves the game with nine rating records
	require.NoError(t, l.db.Delete(&models.Player{}, l.roster[7].ID).Error)

	_, err := l.ratings.RateGame(ctx, game.ID)
	assert.ErrorIs(t, err, rating.ErrUnknownPlayer)

	for _, p := range l.roster[:7] {
		stored := l.player(t, p.ID)
		assert.Equal(t, 1500, stored.Elo)
		assert.Equal(t, 0, stored.GamesPlayedTotal)
		assert.Nil(t, stored.LastSeasonNumber)
	}

	var history int64
	require.NoError(t, l.db.Model(&models.EloHistory{}).Count(&history).Error)
	assert.Zero(t, history)

	var stored models.Game
	require.NoError(t, l.db.First(&stored, game.ID).Error)
	assert.Nil(t, stored.RatedAt)

	pending, err := l.ratings.PendingCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), pending)
}

func TestRatingService_RatePending(t *testing.T) {
	ctx := context.Background()
	l := newLeague(t)

	match := l.newMatch(t, l.season, l.home, l.away, models.MatchKindRegular, leagueStart)
	// recorded out of order on purpose
	l.recordGame(t, match, l.home, l.away, "8000000003", leagueStart.Add(2*time.Hour), true)
	l.recordGame(t, match, l.home, l.away, "8000000001", leagueStart, true)
	l.recordGame(t, match, l.home, l.away, "8000000002", leagueStart.Add(time.Hour), false)

	rated, err := l.ratings.RatePending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, rated)

	var history []models.EloHistory
	require.NoError(t, l.db.Where("player_id = ?", l.roster[0].ID).Order("id ASC").Preload("Game").Find(&history).Error)
	require.Len(t, history, 3)
	assert.Equal(t, "8000000001", history[0].Game.DotaID)
	assert.Equal(t, "8000000002", history[1].Game.DotaID)
	assert.Equal(t, "8000000003", history[2].Game.DotaID)
	for i := 1; i < len(history); i++ {
		assert.Equal(t, history[i-1].EloAfter, history[i].EloBefore)
	}

	p := l.player(t, l.roster[0].ID)
	assert.Equal(t, 3, p.GamesPlayedTotal)
	assert.Equal(t, 3, p.GamesPlayedThisSeason)
	assert.Equal(t, history[2].EloAfter, p.Elo)

	rated, err = l.ratings.RatePending(ctx)
	require.NoError(t, err)
	assert.Zero(t, rated)
}

func TestRatingService_SeasonTransition(t *testing.T) {
	ctx := context.Background()
	l := newLeague(t)

	match := l.newMatch(t, l.season, l.home, l.away, models.MatchKindRegular, leagueStart)
	l.recordGame(t, match, l.home, l.away, "8000000001", leagueStart, true)
	l.recordGame(t, match, l.home, l.away, "8000000002", leagueStart.Add(time.Hour), true)
	_, err := l.ratings.RatePending(ctx)
	require.NoError(t, err)

	endOfSeason := l.player(t, l.roster[0].ID)
	assert.Equal(t, 2, endOfSeason.GamesPlayedThisSeason)

	season2 := l.newSeason(t, 2)
	home2, away2 := l.draft(t, season2)
	start2 := leagueStart.AddDate(0, 2, 0)
	match2 := l.newMatch(t, season2, home2, away2, models.MatchKindInhouse, start2)
	l.recordGame(t, match2, home2, away2, "8000000003", start2, false)
	_, err = l.ratings.RatePending(ctx)
	require.NoError(t, err)

	p := l.player(t, l.roster[0].ID)
	assert.Equal(t, endOfSeason.Elo, p.PreviousSeasonElo)
	assert.Equal(t, 1, p.GamesPlayedThisSeason)
	assert.Equal(t, 3, p.GamesPlayedTotal)
	assert.Equal(t, 0, p.GamesInUnplayedSeasons)
	assert.Equal(t, uint(2), *p.LastSeasonNumber)
	assert.Less(t, p.Elo, endOfSeason.Elo)

	var last models.EloHistory
	require.NoError(t, l.db.Where("player_id = ?", p.ID).Order("id DESC").First(&last).Error)
	assert.False(t, last.IsSeasonGame)
}

func TestRatingService_RecalculateMatchesIncremental(t *testing.T) {
	ctx := context.Background()
	l := newLeague(t)

	match := l.newMatch(t, l.season, l.home, l.away, models.MatchKindRegular, leagueStart)
	l.recordGame(t, match, l.home, l.away, "8000000001", leagueStart, true)
	l.recordGame(t, match, l.home, l.away, "8000000002", leagueStart.Add(time.Hour), false)
	l.recordGame(t, match, l.home, l.away, "8000000003", leagueStart.Add(2*time.Hour), false)

	season2 := l.newSeason(t, 2)
	home2, away2 := l.draft(t, season2)
	start2 := leagueStart.AddDate(0, 2, 0)
	match2 := l.newMatch(t, season2, home2, away2, models.MatchKindUpperBracket, start2)
	l.recordGame(t, match2, home2, away2, "8000000004", start2, true)

	_, err := l.ratings.RatePending(ctx)
	require.NoError(t, err)

	var incremental []models.Player
	require.NoError(t, l.db.Order("id ASC").Find(&incremental).Error)

	runID, rated, err := l.ratings.Recalculate(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, runID)
	assert.Equal(t, 4, rated)

	var replayed []models.Player
	require.NoError(t, l.db.Order("id ASC").Find(&replayed).Error)
	require.Len(t, replayed, len(incremental))
	for i := range incremental {
		assert.Equal(t, incremental[i].Elo, replayed[i].Elo)
		assert.Equal(t, incremental[i].PreviousSeasonElo, replayed[i].PreviousSeasonElo)
		assert.Equal(t, incremental[i].GamesPlayedThisSeason, replayed[i].GamesPlayedThisSeason)
		assert.Equal(t, incremental[i].GamesPlayedTotal, replayed[i].GamesPlayedTotal)
		assert.Equal(t, incremental[i].GamesInUnplayedSeasons, replayed[i].GamesInUnplayedSeasons)
		assert.Equal(t, *incremental[i].LastSeasonNumber, *replayed[i].LastSeasonNumber)
	}

	var history []models.EloHistory
	require.NoError(t, l.db.Find(&history).Error)
	assert.Len(t, history, 40)
	for _, h := range history {
		assert.Equal(t, runID, h.RunID)
	}

	pending, err := l.ratings.PendingCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, pending)
}

func TestEloHistoryService(t *testing.T) {
	ctx := context.Background()
	l := newLeague(t)
	svc := NewEloHistoryService(l.db)

	match := l.newMatch(t, l.season, l.home, l.away, models.MatchKindRegular, leagueStart)
	first := l.recordGame(t, match, l.home, l.away, "8000000001", leagueStart, true)
	l.recordGame(t, match, l.home, l.away, "8000000002", leagueStart.Add(time.Hour), true)
	_, err := l.ratings.RatePending(ctx)
	require.NoError(t, err)

	changes, err := svc.GetGameEloChanges(ctx, first.ID)
	require.NoError(t, err)
	require.Len(t, changes, 10)
	assert.NotEmpty(t, changes[0].Player.Name)

	recent, err := svc.GetRecentEloChanges(ctx, 5)
	require.NoError(t, err)
	require.Len(t, recent, 5)
	assert.Equal(t, "8000000002", recent[0].Game.DotaID)
}

func TestStatsService_GetStats(t *testing.T) {
	ctx := context.Background()
	l := newLeague(t)

	match := l.newMatch(t, l.season, l.home, l.away, models.MatchKindRegular, leagueStart)
	first := l.recordGame(t, match, l.home, l.away, "8000000001", leagueStart, true)
	l.recordGame(t, match, l.home, l.away, "8000000002", leagueStart.Add(time.Hour), true)
	_, err := l.ratings.RateGame(ctx, first.ID)
	require.NoError(t, err)

	stats, err := NewStatsService(l.db).GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(10), stats.TotalPlayers)
	assert.Equal(t, int64(1), stats.TotalSeasons)
	assert.Equal(t, int64(1), stats.TotalMatches)
	assert.Equal(t, int64(2), stats.TotalGames)
	assert.Equal(t, int64(1), stats.RatedGames)
	assert.Equal(t, int64(1), stats.PendingGames)
}
