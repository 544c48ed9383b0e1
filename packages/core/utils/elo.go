package utils

import "math"

const (
	seasonMatchWeight = 15.0
	minorMatchWeight  = 7.5
)

// EloDeltaParams holds everything needed to rate one player for one game.
type EloDeltaParams struct {
	TeamAverageElo         float64 // T: player's team average at game start
	EnemyTeamAverageElo    float64 // O: enemy team average at game start
	WonGame                bool    // W
	IsSeasonGame           bool    // S: regular season or upper bracket
	GamesPlayedThisSeason  int     // N
	GamesPlayedTotal       int     // H is GamesPlayedTotal - GamesPlayedThisSeason
	GamesInUnplayedSeasons int     // L: league games in seasons skipped since last participation
	PreviousSeasonElo      float64 // P: rating at the start of the last participated season
	CurrentElo             float64 // C: rating at the start of this game
}

// EloFactors are the four multiplicative parts of an ELO delta.
type EloFactors struct {
	EloDifference   float64
	ProgressionRate float64
	GameWin         float64
	MatchType       float64
}

// Delta multiplies the factors together.
func (f EloFactors) Delta() float64 {
	return f.EloDifference * f.ProgressionRate * f.MatchType * f.GameWin
}

// CalculateEloFactors computes each factor of the delta separately.
func CalculateEloFactors(p EloDeltaParams) EloFactors {
	return EloFactors{
		EloDifference:   eloDifferenceFactor(p.CurrentElo, p.PreviousSeasonElo),
		ProgressionRate: progressionRateFactor(p.GamesPlayedTotal-p.GamesPlayedThisSeason, p.GamesInUnplayedSeasons),
		GameWin:         gameWinFactor(p.TeamAverageElo, p.EnemyTeamAverageElo, p.WonGame),
		MatchType:       matchTypeFactor(p.IsSeasonGame),
	}
}

// CalculateEloDelta returns the signed rating change for one player after one game.
// The result is not rounded.
func CalculateEloDelta(p EloDeltaParams) float64 {
	return CalculateEloFactors(p).Delta()
}

// Large swings since the start of the last season amplify later changes.
func eloDifferenceFactor(currentElo, previousSeasonElo float64) float64 {
	compressed := math.Pow(math.Abs(currentElo-previousSeasonElo), 0.75)
	return compressed/90 + 0.92
}

// New or long absent players move faster; regulars approach 1.
// The (1 - unplayed) term is kept as designed, see DESIGN.md.
func progressionRateFactor(gamesInPreviousSeasons, unplayedSeasonGames int) float64 {
	playedAndMissed := float64(gamesInPreviousSeasons) * (1 - float64(unplayedSeasonGames))
	scaledMissed := 300 + 1.5*float64(unplayedSeasonGames)
	denominator := 20 + math.Pow(playedAndMissed/scaledMissed, 1.19)
	return 1 + 20/denominator
}

func gameWinFactor(teamAverageElo, enemyTeamAverageElo float64, won bool) float64 {
	exponent := (enemyTeamAverageElo - teamAverageElo) / 400
	expected := 1 / (1 + math.Pow(10, exponent))

	actual := 0.0
	if won {
		actual = 1.0
	}
	return actual - expected
}

func matchTypeFactor(isSeasonGame bool) float64 {
	if isSeasonGame {
		return seasonMatchWeight
	}
	return minorMatchWeight
}

// CalculateTeamAverageElo calculates the average ELO of a team
func CalculateTeamAverageElo(elos ...int) float64 {
	if len(elos) == 0 {
		return 0
	}
	sum := 0
	for _, elo := range elos {
		sum += elo
	}
	return float64(sum) / float64(len(elos))
}
