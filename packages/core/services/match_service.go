package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"idl-tracker/packages/core/models"
	"idl-tracker/packages/core/rating"

	"gorm.io/gorm"
)

type MatchService struct {
	db *gorm.DB
}

func NewMatchService(db *gorm.DB) *MatchService {
	return &MatchService{
		db: db,
	}
}

func (s *MatchService) CreateMatch(ctx context.Context, req models.CreateMatchRequest) (*models.Match, error) {
	if len(req.TeamIDs) != 2 {
		return nil, fmt.Errorf("%w: a match must be played between exactly two teams", ErrInvalidMatch)
	}
	if req.TeamIDs[0] == req.TeamIDs[1] {
		return nil, fmt.Errorf("%w: a team cannot play itself", ErrInvalidMatch)
	}
	if req.BestOf != 2 && req.BestOf != 3 {
		return nil, fmt.Errorf("%w: best of %d is not supported", ErrInvalidMatch, req.BestOf)
	}

	kind := req.Kind
	switch kind {
	case "":
		kind = models.MatchKindRegular
	case models.MatchKindRegular, models.MatchKindUpperBracket, models.MatchKindLowerBracket, models.MatchKindInhouse:
	default:
		return nil, fmt.Errorf("%w: unknown match kind %q", ErrInvalidMatch, kind)
	}

	db := s.db.WithContext(ctx)

	var season models.Season
	if err := db.First(&season, req.SeasonID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrSeasonNotFound, req.SeasonID)
		}
		return nil, err
	}

	var teamCount int64
	if err := db.Model(&models.Team{}).Where("id IN ?", req.TeamIDs).Count(&teamCount).Error; err != nil {
		return nil, err
	}
	if teamCount != 2 {
		return nil, fmt.Errorf("%w: teams %v", ErrTeamNotFound, req.TeamIDs)
	}

	match := models.Match{
		SeasonID:  req.SeasonID,
		StartTime: req.StartTime,
		BestOf:    req.BestOf,
		Kind:      kind,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&match).Error; err != nil {
			return err
		}
		for _, teamID := range req.TeamIDs {
			participation := models.TeamParticipation{TeamID: teamID, MatchID: match.ID}
			if err := tx.Create(&participation).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetMatchByID(ctx, match.ID)
}

func (s *MatchService) GetMatchByID(ctx context.Context, id uint) (*models.Match, error) {
	var match models.Match

	result := s.db.WithContext(ctx).
		Preload("Season").
		Preload("TeamParticipations.Team").
		Preload("Games", func(db *gorm.DB) *gorm.DB { return db.Order("start_time ASC, id ASC") }).
		Preload("Games.Teams.Players").
		First(&match, id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrMatchNotFound, id)
		}
		return nil, result.Error
	}

	return &match, nil
}

func (s *MatchService) GetMatchesBySeason(ctx context.Context, seasonID uint) ([]models.Match, error) {
	var matches []models.Match

	result := s.db.WithContext(ctx).
		Where("season_id = ?", seasonID).
		Order("start_time ASC, id ASC").
		Preload("TeamParticipations.Team").
		Find(&matches)

	if result.Error != nil {
		return nil, result.Error
	}

	return matches, nil
}

// RecordGame stores a finished game with both rosters and per-player stats.
// The game is left unrated; RatingService picks it up.
func (s *MatchService) RecordGame(ctx context.Context, req models.RecordGameRequest) (*models.Game, error) {
	if strings.TrimSpace(req.DotaID) == "" {
		return nil, fmt.Errorf("%w: dota id is required", ErrInvalidMatch)
	}
	if err := validateGameTeams(req.Teams); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)

	var match models.Match
	if err := db.Preload("TeamParticipations").First(&match, req.MatchID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrMatchNotFound, req.MatchID)
		}
		return nil, err
	}

	participations := make(map[uint]models.TeamParticipation, len(match.TeamParticipations))
	for _, p := range match.TeamParticipations {
		participations[p.TeamID] = p
	}
	for _, team := range req.Teams {
		if _, ok := participations[team.TeamID]; !ok {
			return nil, fmt.Errorf("%w: team %d is not playing match %d", ErrInvalidMatch, team.TeamID, match.ID)
		}
	}

	playerIDs := make([]uint, 0, 2*rating.TeamSize)
	for _, team := range req.Teams {
		for _, p := range team.Players {
			playerIDs = append(playerIDs, p.PlayerID)
		}
	}
	var playerCount int64
	if err := db.Model(&models.Player{}).Where("id IN ?", playerIDs).Count(&playerCount).Error; err != nil {
		return nil, err
	}
	if int(playerCount) != len(playerIDs) {
		return nil, fmt.Errorf("%w: %d of %d players exist", ErrPlayerNotFound, playerCount, len(playerIDs))
	}

	var existing int64
	if err := db.Model(&models.Game{}).Where("dota_id = ?", req.DotaID).Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, fmt.Errorf("%w: game with dota id %s", ErrDuplicate, req.DotaID)
	}

	game := models.Game{
		DotaID:    req.DotaID,
		MatchID:   match.ID,
		StartTime: req.StartTime,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&game).Error; err != nil {
			return err
		}

		for _, teamReq := range req.Teams {
			gameTeam := models.GameTeam{
				BaseTeamID:  teamReq.TeamID,
				GameID:      game.ID,
				RadiantSide: teamReq.RadiantSide,
				WonGame:     teamReq.WonGame,
			}
			if err := tx.Create(&gameTeam).Error; err != nil {
				return err
			}

			for _, p := range teamReq.Players {
				participation := models.PlayerParticipation{
					GameTeamID:          gameTeam.ID,
					PlayerID:            p.PlayerID,
					HeroID:              p.HeroID,
					Role:                p.Role,
					Kills:               p.Kills,
					Deaths:              p.Deaths,
					Assists:             p.Assists,
					StratzImpScore:      p.StratzImpScore,
					ExperiencePerMinute: p.ExperiencePerMinute,
					GoldPerMinute:       p.GoldPerMinute,
				}
				if err := tx.Create(&participation).Error; err != nil {
					return err
				}
			}

			if teamReq.WonGame {
				winner := participations[teamReq.TeamID]
				if err := tx.Model(&models.TeamParticipation{}).
					Where("id = ?", winner.ID).
					Update("games_won", gorm.Expr("games_won + 1")).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var created models.Game
	if err := db.Preload("Teams.Players").First(&created, game.ID).Error; err != nil {
		return nil, err
	}
	return &created, nil
}

func validateGameTeams(teams []models.GameTeamRequest) error {
	if len(teams) != 2 {
		return fmt.Errorf("%w: a game must have exactly two teams", ErrInvalidRoster)
	}
	if teams[0].TeamID == teams[1].TeamID {
		return fmt.Errorf("%w: a team cannot play itself", ErrInvalidRoster)
	}
	if teams[0].RadiantSide == teams[1].RadiantSide {
		return fmt.Errorf("%w: one team must play radiant and the other dire", ErrInvalidRoster)
	}
	if teams[0].WonGame == teams[1].WonGame {
		return fmt.Errorf("%w: exactly one team must win", ErrInvalidRoster)
	}

	seen := make(map[uint]bool, 2*rating.TeamSize)
	for _, team := range teams {
		if len(team.Players) != rating.TeamSize {
			return fmt.Errorf("%w: team %d fielded %d players, want %d", ErrInvalidRoster, team.TeamID, len(team.Players), rating.TeamSize)
		}
		for _, p := range team.Players {
			if seen[p.PlayerID] {
				return fmt.Errorf("%w: player %d appears twice", ErrInvalidRoster, p.PlayerID)
			}
			seen[p.PlayerID] = true

			switch p.Role {
			case "", models.RoleCore, models.RoleLightSupport, models.RoleHardSupport:
			default:
				return fmt.Errorf("%w: unknown role %q", ErrInvalidRoster, p.Role)
			}
		}
	}
	return nil
}
