package rating

import (
	"fmt"
	"math"
	"time"

	"idl-tracker/packages/core/utils"
)

// Side is one team's roster in a single game.
type Side struct {
	PlayerIDs []uint
	Won       bool
}

// Game is the part of a recorded game the policy needs.
type Game struct {
	ID           uint
	SeasonNumber uint
	StartTime    time.Time
	IsSeasonGame bool
	Sides        [2]Side
}

// PlayerIDs lists all participants, first side first.
func (g Game) PlayerIDs() []uint {
	ids := make([]uint, 0, len(g.Sides[0].PlayerIDs)+len(g.Sides[1].PlayerIDs))
	ids = append(ids, g.Sides[0].PlayerIDs...)
	return append(ids, g.Sides[1].PlayerIDs...)
}

// Validate checks roster shape and that exactly one side won.
func (g Game) Validate() error {
	if g.Sides[0].Won == g.Sides[1].Won {
		return fmt.Errorf("%w: game %d must have exactly one winner", ErrInvalidGame, g.ID)
	}
	seen := make(map[uint]struct{}, 2*TeamSize)
	for i, side := range g.Sides {
		if len(side.PlayerIDs) != TeamSize {
			return fmt.Errorf("%w: game %d side %d has %d players, want %d", ErrInvalidGame, g.ID, i, len(side.PlayerIDs), TeamSize)
		}
		for _, id := range side.PlayerIDs {
			if _, dup := seen[id]; dup {
				return fmt.Errorf("%w: player %d appears twice in game %d", ErrInvalidGame, id, g.ID)
			}
			seen[id] = struct{}{}
		}
	}
	return nil
}

// Update is the outcome of one game for one player.
type Update struct {
	PlayerID            uint
	Before              State
	After               State
	Factors             utils.EloFactors
	Delta               float64
	AppliedDelta        int
	TeamAverageElo      float64
	EnemyTeamAverageElo float64
	Won                 bool
}

// Policy folds games into player rating records. The zero value rounds half
// away from zero and treats every season gap as empty.
type Policy struct {
	Rounding Rounding
	Seasons  SeasonLedger
}

// EnterSeason moves a player into season if they last played in another one.
// The rating is carried forward unchanged.
func (p Policy) EnterSeason(s State, season uint) State {
	if s.LastSeasonNumber != nil && *s.LastSeasonNumber == season {
		return s
	}

	skipped := 0
	if s.LastSeasonNumber != nil && p.Seasons != nil {
		skipped = p.Seasons.GamesBetween(*s.LastSeasonNumber, season)
	}

	s.PreviousSeasonElo = s.Elo
	s.GamesPlayedThisSeason = 0
	s.GamesInUnplayedSeasons = skipped
	s.LastSeasonNumber = &season
	return s
}

// ApplyGame computes the ten updates for game against one snapshot of states.
// states is not modified; either every participant gets an update or an error
// is returned.
func (p Policy) ApplyGame(game Game, states map[uint]State) ([]Update, error) {
	if err := game.Validate(); err != nil {
		return nil, err
	}

	var entered [2][]State
	for i, side := range game.Sides {
		entered[i] = make([]State, 0, len(side.PlayerIDs))
		for _, id := range side.PlayerIDs {
			s, ok := states[id]
			if !ok {
				return nil, fmt.Errorf("%w: player %d in game %d", ErrUnknownPlayer, id, game.ID)
			}
			if s.LastSeasonNumber != nil && *s.LastSeasonNumber > game.SeasonNumber {
				return nil, fmt.Errorf("%w: game %d is in season %d but player %d already played season %d",
					ErrOutOfOrder, game.ID, game.SeasonNumber, id, *s.LastSeasonNumber)
			}
			if err := s.Validate(); err != nil {
				return nil, err
			}
			entered[i] = append(entered[i], p.EnterSeason(s, game.SeasonNumber))
		}
	}

	averages := [2]float64{teamAverage(entered[0]), teamAverage(entered[1])}

	updates := make([]Update, 0, 2*TeamSize)
	for i, side := range game.Sides {
		for j, s := range entered[i] {
			factors := utils.CalculateEloFactors(utils.EloDeltaParams{
				TeamAverageElo:         averages[i],
				EnemyTeamAverageElo:    averages[1-i],
				WonGame:                side.Won,
				IsSeasonGame:           game.IsSeasonGame,
				GamesPlayedThisSeason:  s.GamesPlayedThisSeason,
				GamesPlayedTotal:       s.GamesPlayedTotal,
				GamesInUnplayedSeasons: s.GamesInUnplayedSeasons,
				PreviousSeasonElo:      float64(s.PreviousSeasonElo),
				CurrentElo:             float64(s.Elo),
			})
			delta := factors.Delta()
			if math.IsNaN(delta) || math.IsInf(delta, 0) {
				return nil, fmt.Errorf("%w: player %d in game %d (previous season games %d, unplayed season games %d)",
					ErrNonFiniteDelta, s.PlayerID, game.ID, s.GamesPlayedInPreviousSeasons(), s.GamesInUnplayedSeasons)
			}

			applied := p.Rounding.Apply(delta)
			startTime := game.StartTime
			after := s
			after.Elo += applied
			after.GamesPlayedThisSeason++
			after.GamesPlayedTotal++
			after.EloLastUpdatedAt = &startTime

			updates = append(updates, Update{
				PlayerID:            s.PlayerID,
				Before:              states[side.PlayerIDs[j]],
				After:               after,
				Factors:             factors,
				Delta:               delta,
				AppliedDelta:        applied,
				TeamAverageElo:      averages[i],
				EnemyTeamAverageElo: averages[1-i],
				Won:                 side.Won,
			})
		}
	}
	return updates, nil
}

func teamAverage(states []State) float64 {
	elos := make([]int, len(states))
	for i, s := range states {
		elos[i] = s.Elo
	}
	return utils.CalculateTeamAverageElo(elos...)
}
