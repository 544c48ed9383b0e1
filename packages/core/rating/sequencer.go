package rating

import (
	"fmt"
	"sort"
	"time"
)

// Sequencer enforces that games are applied in non-decreasing start time and
// at most once each. It is not safe for concurrent use.
type Sequencer struct {
	last    time.Time
	applied map[uint]struct{}
}

func NewSequencer() *Sequencer {
	return &Sequencer{applied: make(map[uint]struct{})}
}

// Resume seeds the sequencer with the latest applied start time and the ids
// already applied, e.g. as loaded from storage.
func (s *Sequencer) Resume(last time.Time, appliedIDs ...uint) {
	s.last = last
	for _, id := range appliedIDs {
		s.applied[id] = struct{}{}
	}
}

// Check reports whether game may be applied next without recording it.
func (s *Sequencer) Check(game Game) error {
	if _, ok := s.applied[game.ID]; ok {
		return fmt.Errorf("%w: game %d", ErrAlreadyApplied, game.ID)
	}
	if game.StartTime.Before(s.last) {
		return fmt.Errorf("%w: game %d started at %s, last applied game started at %s",
			ErrOutOfOrder, game.ID, game.StartTime.Format(time.RFC3339), s.last.Format(time.RFC3339))
	}
	return nil
}

// Record marks game as applied.
func (s *Sequencer) Record(game Game) {
	s.applied[game.ID] = struct{}{}
	if game.StartTime.After(s.last) {
		s.last = game.StartTime
	}
}

// Last is the start time of the latest applied game.
func (s *Sequencer) Last() time.Time {
	return s.last
}

// SortGames orders games by start time, then id.
func SortGames(games []Game) {
	sort.SliceStable(games, func(i, j int) bool {
		if games[i].StartTime.Equal(games[j].StartTime) {
			return games[i].ID < games[j].ID
		}
		return games[i].StartTime.Before(games[j].StartTime)
	})
}

// Replay applies games in chronological order starting from states. It
// returns the resulting states and every update. On failure the returned
// states reflect all games before the failing one.
func (p Policy) Replay(games []Game, states map[uint]State) (map[uint]State, []Update, error) {
	current := make(map[uint]State, len(states))
	for id, s := range states {
		current[id] = s
	}

	ordered := make([]Game, len(games))
	copy(ordered, games)
	SortGames(ordered)

	seq := NewSequencer()
	var all []Update
	for _, game := range ordered {
		if err := seq.Check(game); err != nil {
			return current, all, err
		}
		updates, err := p.ApplyGame(game, current)
		if err != nil {
			return current, all, fmt.Errorf("replay game %d: %w", game.ID, err)
		}
		for _, u := range updates {
			current[u.PlayerID] = u.After
		}
		seq.Record(game)
		all = append(all, updates...)
	}
	return current, all, nil
}
