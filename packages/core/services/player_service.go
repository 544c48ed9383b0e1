package services

import (
	"context"
	"errors"
	"fmt"

	"idl-tracker/packages/core/models"

	"gorm.io/gorm"
)

type PlayerService struct {
	db         *gorm.DB
	defaultElo int
}

func NewPlayerService(db *gorm.DB, defaultElo int) *PlayerService {
	return &PlayerService{
		db:         db,
		defaultElo: defaultElo,
	}
}

func (s *PlayerService) GetPlayerByID(ctx context.Context, id uint) (*models.Player, error) {
	var player models.Player

	result := s.db.WithContext(ctx).First(&player, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrPlayerNotFound, id)
		}
		return nil, result.Error
	}

	return &player, nil
}

func (s *PlayerService) GetPlayerBySteamID(ctx context.Context, steamID string) (*models.Player, error) {
	var player models.Player

	result := s.db.WithContext(ctx).Where("steam_id = ?", steamID).First(&player)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: steam id %s", ErrPlayerNotFound, steamID)
		}
		return nil, result.Error
	}

	return &player, nil
}

// CreatePlayer registers a player who has not played yet. Elo defaults to the
// configured starting rating.
func (s *PlayerService) CreatePlayer(ctx context.Context, req models.CreatePlayerRequest) (*models.Player, error) {
	if req.Name == "" || req.SteamID == "" {
		return nil, errors.New("name and steam id are required")
	}

	if _, err := s.GetPlayerBySteamID(ctx, req.SteamID); err == nil {
		return nil, fmt.Errorf("%w: steam id %s", ErrDuplicate, req.SteamID)
	} else if !errors.Is(err, ErrPlayerNotFound) {
		return nil, err
	}

	elo := s.defaultElo
	if req.Elo != nil {
		elo = *req.Elo
	}

	player := &models.Player{
		Name:              req.Name,
		SteamID:           req.SteamID,
		AvatarURL:         req.AvatarURL,
		Elo:               elo,
		InitialElo:        elo,
		PreviousSeasonElo: elo,
	}

	if err := s.db.WithContext(ctx).Create(player).Error; err != nil {
		return nil, err
	}

	return player, nil
}

func (s *PlayerService) GetAllPlayers(ctx context.Context) ([]models.Player, error) {
	var players []models.Player

	if err := s.db.WithContext(ctx).Order("name ASC").Find(&players).Error; err != nil {
		return nil, err
	}

	return players, nil
}

// GetLeaderboard returns the top limit players by rating. Players who never
// played a game are left out.
func (s *PlayerService) GetLeaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	var players []models.Player

	result := s.db.WithContext(ctx).
		Where("games_played_total > 0").
		Order("elo DESC, id ASC").
		Limit(limit).
		Find(&players)

	if result.Error != nil {
		return nil, result.Error
	}

	entries := make([]models.LeaderboardEntry, 0, len(players))
	for i, player := range players {
		entries = append(entries, models.LeaderboardEntry{
			Rank:             i + 1,
			PlayerID:         player.ID,
			Name:             player.Name,
			Elo:              player.Elo,
			GamesPlayedTotal: player.GamesPlayedTotal,
			EloLastUpdatedAt: player.EloLastUpdatedAt,
		})
	}

	return entries, nil
}

func (s *PlayerService) GetEloHistoryByPlayerID(ctx context.Context, playerID uint) ([]models.EloHistory, error) {
	var eloHistory []models.EloHistory

	result := s.db.WithContext(ctx).
		Where("player_id = ?", playerID).
		Order("id ASC").
		Preload("Game").
		Find(&eloHistory)

	if result.Error != nil {
		return nil, result.Error
	}

	return eloHistory, nil
}
