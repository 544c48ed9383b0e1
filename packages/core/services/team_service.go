package services

import (
	"context"
	"errors"
	"fmt"

	"idl-tracker/packages/core/models"
	"idl-tracker/packages/core/rating"

	"gorm.io/gorm"
)

type TeamService struct {
	db *gorm.DB
}

func NewTeamService(db *gorm.DB) *TeamService {
	return &TeamService{
		db: db,
	}
}

// DraftTeam creates a season's team of exactly five players led by one of them.
func (s *TeamService) DraftTeam(ctx context.Context, req models.CreateTeamRequest) (*models.Team, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: team name is required", ErrInvalidRoster)
	}
	if len(req.PlayerIDs) != rating.TeamSize {
		return nil, fmt.Errorf("%w: a team must have exactly %d players, got %d", ErrInvalidRoster, rating.TeamSize, len(req.PlayerIDs))
	}

	seen := make(map[uint]bool, len(req.PlayerIDs))
	for _, id := range req.PlayerIDs {
		if seen[id] {
			return nil, fmt.Errorf("%w: player %d drafted twice", ErrInvalidRoster, id)
		}
		seen[id] = true
	}
	if !seen[req.CaptainID] {
		return nil, fmt.Errorf("%w: captain %d is not on the roster", ErrInvalidRoster, req.CaptainID)
	}

	db := s.db.WithContext(ctx)

	var season models.Season
	if err := db.First(&season, req.SeasonID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrSeasonNotFound, req.SeasonID)
		}
		return nil, err
	}

	var players []models.Player
	if err := db.Where("id IN ?", req.PlayerIDs).Find(&players).Error; err != nil {
		return nil, err
	}
	if len(players) != len(req.PlayerIDs) {
		return nil, fmt.Errorf("%w: %d of %d players exist", ErrPlayerNotFound, len(players), len(req.PlayerIDs))
	}

	team := &models.Team{
		Name:      req.Name,
		SeasonID:  req.SeasonID,
		CaptainID: req.CaptainID,
		Players:   players,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		return tx.Omit("Players.*").Create(team).Error
	})
	if err != nil {
		return nil, err
	}

	return s.GetTeamByID(ctx, team.ID)
}

func (s *TeamService) GetTeamByID(ctx context.Context, id uint) (*models.Team, error) {
	var team models.Team

	result := s.db.WithContext(ctx).Preload("Captain").Preload("Players").First(&team, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrTeamNotFound, id)
		}
		return nil, result.Error
	}

	return &team, nil
}

func (s *TeamService) GetTeamsBySeason(ctx context.Context, seasonID uint) ([]models.Team, error) {
	var teams []models.Team

	result := s.db.WithContext(ctx).
		Where("season_id = ?", seasonID).
		Order("id ASC").
		Preload("Captain").
		Preload("Players").
		Find(&teams)

	if result.Error != nil {
		return nil, result.Error
	}

	return teams, nil
}
