package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func evenGame() EloDeltaParams {
	return EloDeltaParams{
		TeamAverageElo:         1500,
		EnemyTeamAverageElo:    1500,
		WonGame:                true,
		IsSeasonGame:           true,
		GamesPlayedThisSeason:  10,
		GamesPlayedTotal:       50,
		GamesInUnplayedSeasons: 0,
		PreviousSeasonElo:      1500,
		CurrentElo:             1500,
	}
}

func TestCalculateEloDelta_WorkedExample(t *testing.T) {
	p := evenGame()

	denominator := 20 + math.Pow(40.0/300.0, 1.19)
	progression := 1 + 20/denominator
	want := 0.92 * progression * 15 * 0.5

	factors := CalculateEloFactors(p)
	assert.Equal(t, 0.92, factors.EloDifference)
	assert.Equal(t, progression, factors.ProgressionRate)
	assert.Equal(t, 0.5, factors.GameWin)
	assert.Equal(t, 15.0, factors.MatchType)

	assert.Equal(t, want, CalculateEloDelta(p))
	assert.InDelta(t, 13.77, CalculateEloDelta(p), 0.01)
}

func TestCalculateEloDelta_NonSeasonGameIsHalfWeight(t *testing.T) {
	season := evenGame()
	minor := evenGame()
	minor.IsSeasonGame = false

	seasonDelta := CalculateEloDelta(season)
	minorDelta := CalculateEloDelta(minor)

	assert.Greater(t, seasonDelta, 0.0)
	assert.InDelta(t, seasonDelta/2, minorDelta, 1e-12)
}

func TestCalculateEloDelta_LossIsNegative(t *testing.T) {
	p := evenGame()
	p.WonGame = false

	factors := CalculateEloFactors(p)
	assert.Equal(t, -0.5, factors.GameWin)
	assert.Less(t, CalculateEloDelta(p), 0.0)
}

func TestCalculateEloDelta_WinLossSymmetry(t *testing.T) {
	cases := []EloDeltaParams{
		evenGame(),
		{
			TeamAverageElo:         1620,
			EnemyTeamAverageElo:    1480,
			IsSeasonGame:           true,
			GamesPlayedThisSeason:  3,
			GamesPlayedTotal:       3,
			GamesInUnplayedSeasons: 0,
			PreviousSeasonElo:      1500,
			CurrentElo:             1585,
		},
		{
			TeamAverageElo:         1400,
			EnemyTeamAverageElo:    1710,
			IsSeasonGame:           false,
			GamesPlayedThisSeason:  0,
			GamesPlayedTotal:       120,
			GamesInUnplayedSeasons: 1,
			PreviousSeasonElo:      1700,
			CurrentElo:             1450,
		},
	}

	for _, p := range cases {
		win, loss := p, p
		win.WonGame = true
		loss.WonGame = false

		f := CalculateEloFactors(win)
		want := f.EloDifference * f.ProgressionRate * f.MatchType

		assert.InDelta(t, want, CalculateEloDelta(win)-CalculateEloDelta(loss), 1e-9)
	}
}

func TestEloDifferenceFactor_Monotonic(t *testing.T) {
	prev := eloDifferenceFactor(1500, 1500)
	for gap := 1.0; gap <= 800; gap += 7 {
		up := eloDifferenceFactor(1500+gap, 1500)
		down := eloDifferenceFactor(1500-gap, 1500)

		assert.GreaterOrEqual(t, up, prev)
		assert.Equal(t, up, down)
		prev = up
	}
}

func TestCalculateEloDelta_NoHistoryIsFinite(t *testing.T) {
	p := EloDeltaParams{
		TeamAverageElo:      1500,
		EnemyTeamAverageElo: 1500,
		WonGame:             true,
		IsSeasonGame:        true,
		PreviousSeasonElo:   1500,
		CurrentElo:          1500,
	}

	factors := CalculateEloFactors(p)
	assert.Equal(t, 2.0, factors.ProgressionRate)

	delta := CalculateEloDelta(p)
	require.False(t, math.IsNaN(delta))
	require.False(t, math.IsInf(delta, 0))
	assert.InDelta(t, 0.92*2*15*0.5, delta, 1e-12)
}

func TestProgressionRateFactor(t *testing.T) {
	// regulars settle towards 1
	assert.Greater(t, progressionRateFactor(10, 0), progressionRateFactor(1000, 0))
	assert.Greater(t, progressionRateFactor(1000, 0), 1.0)

	// one skipped game zeroes the played term
	assert.Equal(t, 2.0, progressionRateFactor(40, 1))

	// more than one skipped game with history has no real result
	assert.True(t, math.IsNaN(progressionRateFactor(40, 2)))

	// without history the skipped games do not matter
	assert.Equal(t, 2.0, progressionRateFactor(0, 25))
}

func TestGameWinFactor_Underdog(t *testing.T) {
	underdogWin := gameWinFactor(1400, 1600, true)
	favouriteWin := gameWinFactor(1600, 1400, true)

	assert.Greater(t, underdogWin, 0.5)
	assert.Less(t, favouriteWin, 0.5)
	assert.InDelta(t, 1.0, underdogWin+favouriteWin, 1e-12)
}

func TestCalculateEloDelta_Pure(t *testing.T) {
	p := evenGame()
	p.CurrentElo = 1563
	p.EnemyTeamAverageElo = 1522

	first := CalculateEloDelta(p)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, CalculateEloDelta(p))
	}
}

func TestCalculateTeamAverageElo(t *testing.T) {
	assert.Equal(t, 1500.0, CalculateTeamAverageElo(1400, 1450, 1500, 1550, 1600))
	assert.Equal(t, 1501.2, CalculateTeamAverageElo(1500, 1500, 1500, 1500, 1506))
	assert.Equal(t, 0.0, CalculateTeamAverageElo())
}
