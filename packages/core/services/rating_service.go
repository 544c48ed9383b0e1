package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"idl-tracker/logging"
	"idl-tracker/metrics"
	"idl-tracker/packages/core/models"
	"idl-tracker/packages/core/rating"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RatingService applies the rating policy to recorded games and persists the
// result. Games are rated one at a time in start time order; every game is a
// single transaction covering all ten players.
type RatingService struct {
	db       *gorm.DB
	rounding rating.Rounding
	metrics  *metrics.Recorder
	now      func() time.Time

	// serialises rating work inside this process; row locks cover the rest
	mu sync.Mutex
}

func NewRatingService(db *gorm.DB, rounding rating.Rounding, recorder *metrics.Recorder) *RatingService {
	return &RatingService{
		db:       db,
		rounding: rounding,
		metrics:  recorder,
		now:      time.Now,
	}
}

// RateGame rates a single game. It fails with rating.ErrAlreadyApplied if the
// game was rated before and rating.ErrOutOfOrder if an earlier game is still
// unrated or a later game was already rated.
func (s *RatingService) RateGame(ctx context.Context, gameID uint) ([]models.EloHistory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.rateGame(ctx, gameID)
}

// RatePending rates every unrated game in chronological order. It stops at
// the first failure since later games depend on it, and returns how many
// games were rated.
func (s *RatingService) RatePending(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rated := 0
	for {
		if err := ctx.Err(); err != nil {
			return rated, err
		}

		var next models.Game
		result := s.db.WithContext(ctx).
			Where("rated_at IS NULL").
			Order("start_time ASC, id ASC").
			Limit(1).
			Find(&next)
		if result.Error != nil {
			return rated, result.Error
		}
		if result.RowsAffected == 0 {
			return rated, nil
		}

		if _, err := s.rateGame(ctx, next.ID); err != nil {
			return rated, fmt.Errorf("rate game %d: %w", next.ID, err)
		}
		rated++
	}
}

// PendingCount returns the number of games not rated yet.
func (s *RatingService) PendingCount(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Game{}).Where("rated_at IS NULL").Count(&count).Error
	return count, err
}

func (s *RatingService) rateGame(ctx context.Context, gameID uint) ([]models.EloHistory, error) {
	var history []models.EloHistory

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var game models.Game
		if err := tx.Preload("Match.Season").Preload("Teams.Players").First(&game, gameID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: id %d", ErrGameNotFound, gameID)
			}
			return err
		}
		if game.RatedAt != nil {
			return fmt.Errorf("%w: game %d was rated at %s", rating.ErrAlreadyApplied, game.ID, game.RatedAt.Format(time.RFC3339))
		}

		if err := checkChronology(tx, game); err != nil {
			return err
		}

		ratingGame, err := toRatingGame(game)
		if err != nil {
			return err
		}

		states, err := lockPlayerStates(tx, ratingGame.PlayerIDs())
		if err != nil {
			return err
		}

		counts, err := seasonGameCounts(tx)
		if err != nil {
			return err
		}

		policy := rating.Policy{Rounding: s.rounding, Seasons: counts}
		updates, err := policy.ApplyGame(ratingGame, states)
		if err != nil {
			return err
		}

		for _, u := range updates {
			if err := saveState(tx, u.After); err != nil {
				return err
			}
		}

		history, err = writeHistory(tx, ratingGame, updates, "")
		if err != nil {
			return err
		}

		return tx.Model(&models.Game{}).Where("id = ?", game.ID).Update("rated_at", s.now()).Error
	})
	if err != nil {
		s.metrics.RatingFailed(failureReason(err))
		logging.Warn("Game rating rolled back", zap.Uint("game_id", gameID), zap.Error(err))
		return nil, err
	}

	deltas := make([]int, len(history))
	for i, h := range history {
		deltas[i] = h.EloChange
	}
	s.metrics.GameRated(deltas...)
	logging.Info("Game rated", zap.Uint("game_id", gameID), zap.Ints("deltas", deltas))

	return history, nil
}

// Recalculate resets every player to their initial rating, drops all rating
// history and replays every recorded game from scratch. The whole run is one
// transaction. It returns the run id stamped on the new history rows.
func (s *RatingService) Recalculate(ctx context.Context) (string, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	runID := uuid.NewString()
	rated := 0

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(&models.EloHistory{}).Error; err != nil {
			return err
		}
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Model(&models.Game{}).Update("rated_at", nil).Error; err != nil {
			return err
		}

		var players []models.Player
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Find(&players).Error; err != nil {
			return err
		}
		states := make(map[uint]rating.State, len(players))
		for _, p := range players {
			states[p.ID] = rating.NewState(p.ID, p.InitialElo)
		}

		var games []models.Game
		if err := tx.Preload("Match.Season").Preload("Teams.Players").Order("start_time ASC, id ASC").Find(&games).Error; err != nil {
			return err
		}
		ratingGames := make([]rating.Game, 0, len(games))
		for _, g := range games {
			rg, err := toRatingGame(g)
			if err != nil {
				return err
			}
			ratingGames = append(ratingGames, rg)
		}
		rating.SortGames(ratingGames)

		counts, err := seasonGameCounts(tx)
		if err != nil {
			return err
		}

		policy := rating.Policy{Rounding: s.rounding, Seasons: counts}
		final, updates, err := policy.Replay(ratingGames, states)
		if err != nil {
			return err
		}

		// Replay returns updates game by game in the same order as ratingGames.
		offset := 0
		for _, g := range ratingGames {
			n := len(g.PlayerIDs())
			if _, err := writeHistory(tx, g, updates[offset:offset+n], runID); err != nil {
				return err
			}
			offset += n
		}

		for _, st := range final {
			if err := saveState(tx, st); err != nil {
				return err
			}
		}

		if len(games) > 0 {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Model(&models.Game{}).Update("rated_at", s.now()).Error; err != nil {
				return err
			}
		}

		rated = len(games)
		return nil
	})
	if err != nil {
		s.metrics.RatingFailed(failureReason(err))
		logging.Error("Recalculation rolled back", zap.String("run_id", runID), zap.Error(err))
		return "", 0, err
	}

	logging.Info("Recalculation complete", zap.String("run_id", runID), zap.Int("games", rated))
	return runID, rated, nil
}

// checkChronology rejects a game if an earlier one is unrated or a later one
// has already been rated.
func checkChronology(tx *gorm.DB, game models.Game) error {
	var last models.Game
	result := tx.Where("rated_at IS NOT NULL").Order("start_time DESC, id DESC").Limit(1).Find(&last)
	if result.Error != nil {
		return result.Error
	}

	seq := rating.NewSequencer()
	if result.RowsAffected > 0 {
		seq.Resume(last.StartTime)
	}
	if err := seq.Check(rating.Game{ID: game.ID, StartTime: game.StartTime}); err != nil {
		return err
	}

	var earlier int64
	err := tx.Model(&models.Game{}).
		Where("rated_at IS NULL AND id <> ?", game.ID).
		Where("(start_time < ? OR (start_time = ? AND id < ?))", game.StartTime, game.StartTime, game.ID).
		Count(&earlier).Error
	if err != nil {
		return err
	}
	if earlier > 0 {
		return fmt.Errorf("%w: %d earlier games of game %d are still unrated", rating.ErrOutOfOrder, earlier, game.ID)
	}
	return nil
}

func lockPlayerStates(tx *gorm.DB, ids []uint) (map[uint]rating.State, error) {
	var players []models.Player
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id IN ?", ids).Order("id ASC").Find(&players).Error; err != nil {
		return nil, err
	}

	states := make(map[uint]rating.State, len(players))
	for _, p := range players {
		states[p.ID] = playerState(p)
	}
	return states, nil
}

func playerState(p models.Player) rating.State {
	return rating.State{
		PlayerID:               p.ID,
		Elo:                    p.Elo,
		PreviousSeasonElo:      p.PreviousSeasonElo,
		GamesPlayedThisSeason:  p.GamesPlayedThisSeason,
		GamesPlayedTotal:       p.GamesPlayedTotal,
		GamesInUnplayedSeasons: p.GamesInUnplayedSeasons,
		LastSeasonNumber:       p.LastSeasonNumber,
		EloLastUpdatedAt:       p.EloLastUpdatedAt,
	}
}

func saveState(tx *gorm.DB, st rating.State) error {
	return tx.Model(&models.Player{}).Where("id = ?", st.PlayerID).Updates(map[string]interface{}{
		"elo":                       st.Elo,
		"previous_season_elo":       st.PreviousSeasonElo,
		"games_played_this_season":  st.GamesPlayedThisSeason,
		"games_played_total":        st.GamesPlayedTotal,
		"games_in_unplayed_seasons": st.GamesInUnplayedSeasons,
		"last_season_number":        st.LastSeasonNumber,
		"elo_last_updated_at":       st.EloLastUpdatedAt,
	}).Error
}

func writeHistory(tx *gorm.DB, game rating.Game, updates []rating.Update, runID string) ([]models.EloHistory, error) {
	history := make([]models.EloHistory, 0, len(updates))
	for _, u := range updates {
		history = append(history, models.EloHistory{
			PlayerID:            u.PlayerID,
			GameID:              game.ID,
			RunID:               runID,
			EloBefore:           u.Before.Elo,
			EloAfter:            u.After.Elo,
			EloChange:           u.AppliedDelta,
			RawDelta:            u.Delta,
			TeamAverageElo:      u.TeamAverageElo,
			EnemyTeamAverageElo: u.EnemyTeamAverageElo,
			WonGame:             u.Won,
			IsSeasonGame:        game.IsSeasonGame,
		})
	}

	if len(history) > 0 {
		if err := tx.Create(&history).Error; err != nil {
			return nil, err
		}
	}
	return history, nil
}

func toRatingGame(g models.Game) (rating.Game, error) {
	if len(g.Teams) != 2 {
		return rating.Game{}, fmt.Errorf("%w: game %d has %d teams recorded", rating.ErrInvalidGame, g.ID, len(g.Teams))
	}

	rg := rating.Game{
		ID:           g.ID,
		SeasonNumber: g.Match.Season.Number,
		StartTime:    g.StartTime,
		IsSeasonGame: g.Match.IsSeasonGame(),
	}
	for i, team := range g.Teams {
		ids := make([]uint, 0, len(team.Players))
		for _, p := range team.Players {
			ids = append(ids, p.PlayerID)
		}
		rg.Sides[i] = rating.Side{PlayerIDs: ids, Won: team.WonGame}
	}
	return rg, nil
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, rating.ErrAlreadyApplied):
		return "already_applied"
	case errors.Is(err, rating.ErrOutOfOrder):
		return "out_of_order"
	case errors.Is(err, rating.ErrInvalidGame):
		return "invalid_game"
	case errors.Is(err, rating.ErrUnknownPlayer):
		return "unknown_player"
	case errors.Is(err, rating.ErrInvalidCounters):
		return "invalid_counters"
	case errors.Is(err, rating.ErrNonFiniteDelta):
		return "non_finite_delta"
	case errors.Is(err, ErrGameNotFound):
		return "not_found"
	}
	return "store"
}
