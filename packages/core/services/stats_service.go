package services

import (
	"context"

	"idl-tracker/packages/core/models"

	"gorm.io/gorm"
)

type StatsService struct {
	db *gorm.DB
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{
		db: db,
	}
}

func (s *StatsService) GetStats(ctx context.Context) (*models.Stats, error) {
	var stats models.Stats
	db := s.db.WithContext(ctx)

	if err := db.Model(&models.Player{}).Count(&stats.TotalPlayers).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&models.Season{}).Count(&stats.TotalSeasons).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&models.Match{}).Count(&stats.TotalMatches).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&models.Game{}).Count(&stats.TotalGames).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&models.Game{}).Where("rated_at IS NOT NULL").Count(&stats.RatedGames).Error; err != nil {
		return nil, err
	}

	stats.PendingGames = stats.TotalGames - stats.RatedGames

	return &stats, nil
}
