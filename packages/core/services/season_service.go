package services

import (
	"context"
	"errors"
	"fmt"

	"idl-tracker/packages/core/models"
	"idl-tracker/packages/core/rating"

	"gorm.io/gorm"
)

type SeasonService struct {
	db *gorm.DB
}

func NewSeasonService(db *gorm.DB) *SeasonService {
	return &SeasonService{
		db: db,
	}
}

func (s *SeasonService) CreateSeason(ctx context.Context, req models.CreateSeasonRequest) (*models.Season, error) {
	if req.Number == 0 {
		return nil, errors.New("season number must be positive")
	}

	format := req.DraftFormat
	switch format {
	case "":
		format = models.DraftFormatCaptainsMode
	case models.DraftFormatCaptainsMode, models.DraftFormatCaptainsDraft:
	default:
		return nil, fmt.Errorf("unknown draft format %q", format)
	}

	if _, err := s.GetSeasonByNumber(ctx, req.Number); err == nil {
		return nil, fmt.Errorf("%w: season %d", ErrDuplicate, req.Number)
	} else if !errors.Is(err, ErrSeasonNotFound) {
		return nil, err
	}

	season := &models.Season{
		Number:      req.Number,
		DraftFormat: format,
		StartDate:   req.StartDate,
	}

	if err := s.db.WithContext(ctx).Create(season).Error; err != nil {
		return nil, err
	}

	return season, nil
}

func (s *SeasonService) GetSeasonByID(ctx context.Context, id uint) (*models.Season, error) {
	var season models.Season

	if err := s.db.WithContext(ctx).First(&season, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrSeasonNotFound, id)
		}
		return nil, err
	}

	return &season, nil
}

func (s *SeasonService) GetSeasonByNumber(ctx context.Context, number uint) (*models.Season, error) {
	var season models.Season

	if err := s.db.WithContext(ctx).Where("number = ?", number).First(&season).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: number %d", ErrSeasonNotFound, number)
		}
		return nil, err
	}

	return &season, nil
}

func (s *SeasonService) GetLatestSeason(ctx context.Context) (*models.Season, error) {
	var season models.Season

	if err := s.db.WithContext(ctx).Order("number DESC").First(&season).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSeasonNotFound
		}
		return nil, err
	}

	return &season, nil
}

// GameCounts returns the number of recorded games per season number.
func (s *SeasonService) GameCounts(ctx context.Context) (rating.SeasonGameCounts, error) {
	return seasonGameCounts(s.db.WithContext(ctx))
}

// GamesBetween counts games in seasons strictly between after and before.
func (s *SeasonService) GamesBetween(ctx context.Context, after, before uint) (int, error) {
	counts, err := s.GameCounts(ctx)
	if err != nil {
		return 0, err
	}
	return counts.GamesBetween(after, before), nil
}

func seasonGameCounts(db *gorm.DB) (rating.SeasonGameCounts, error) {
	var rows []struct {
		Number uint
		Games  int
	}

	err := db.Table("games").
		Select("seasons.number AS number, COUNT(games.id) AS games").
		Joins("JOIN matches ON matches.id = games.match_id").
		Joins("JOIN seasons ON seasons.id = matches.season_id").
		Where("games.deleted_at IS NULL AND matches.deleted_at IS NULL").
		Group("seasons.number").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(rating.SeasonGameCounts, len(rows))
	for _, row := range rows {
		counts[row.Number] = row.Games
	}
	return counts, nil
}
