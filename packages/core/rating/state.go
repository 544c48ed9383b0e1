package rating

import (
	"fmt"
	"math"
	"time"
)

// TeamSize is the number of players on each side of a game.
const TeamSize = 5

// State is a player's rating record as owned by the caller.
type State struct {
	PlayerID               uint
	Elo                    int
	PreviousSeasonElo      int
	GamesPlayedThisSeason  int
	GamesPlayedTotal       int
	GamesInUnplayedSeasons int
	LastSeasonNumber       *uint
	EloLastUpdatedAt       *time.Time
}

// NewState returns the record of a player who has never played.
func NewState(playerID uint, elo int) State {
	return State{
		PlayerID:          playerID,
		Elo:               elo,
		PreviousSeasonElo: elo,
	}
}

// GamesPlayedInPreviousSeasons is total games minus this season's games.
func (s State) GamesPlayedInPreviousSeasons() int {
	return s.GamesPlayedTotal - s.GamesPlayedThisSeason
}

// Validate checks the counter invariants the calculator relies on.
func (s State) Validate() error {
	switch {
	case s.GamesPlayedThisSeason < 0:
		return fmt.Errorf("%w: player %d has %d games this season", ErrInvalidCounters, s.PlayerID, s.GamesPlayedThisSeason)
	case s.GamesPlayedTotal < s.GamesPlayedThisSeason:
		return fmt.Errorf("%w: player %d has %d total games but %d this season", ErrInvalidCounters, s.PlayerID, s.GamesPlayedTotal, s.GamesPlayedThisSeason)
	case s.GamesInUnplayedSeasons < 0:
		return fmt.Errorf("%w: player %d has %d games in unplayed seasons", ErrInvalidCounters, s.PlayerID, s.GamesInUnplayedSeasons)
	}
	return nil
}

// Rounding converts a raw delta to the integer applied to a rating.
type Rounding string

const (
	RoundHalfAwayFromZero Rounding = "round"
	TruncateTowardZero    Rounding = "truncate"
)

// ParseRounding maps a config value to a Rounding, defaulting to RoundHalfAwayFromZero.
func ParseRounding(value string) (Rounding, error) {
	switch Rounding(value) {
	case "", RoundHalfAwayFromZero:
		return RoundHalfAwayFromZero, nil
	case TruncateTowardZero:
		return TruncateTowardZero, nil
	}
	return "", fmt.Errorf("unknown rounding policy %q", value)
}

// Apply rounds delta.
func (r Rounding) Apply(delta float64) int {
	if r == TruncateTowardZero {
		return int(math.Trunc(delta))
	}
	return int(math.Round(delta))
}
