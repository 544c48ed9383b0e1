package models

import (
	"time"

	"gorm.io/gorm"
)

type Player struct {
	ID                     uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name                   string         `gorm:"size:255;not null" json:"name"`
	SteamID                string         `gorm:"size:255;uniqueIndex;not null" json:"steam_id"`
	AvatarURL              string         `gorm:"size:512" json:"avatar_url"`
	Elo                    int            `gorm:"not null" json:"elo"`
	InitialElo             int            `gorm:"not null" json:"initial_elo"`
	EloLastUpdatedAt       *time.Time     `json:"elo_last_updated_at"`
	PreviousSeasonElo      int            `gorm:"not null" json:"previous_season_elo"`
	GamesPlayedThisSeason  int            `gorm:"default:0" json:"games_played_this_season"`
	GamesPlayedTotal       int            `gorm:"default:0" json:"games_played_total"`
	GamesInUnplayedSeasons int            `gorm:"default:0" json:"games_in_unplayed_seasons"`
	LastSeasonNumber       *uint          `json:"last_season_number"`
	CreatedAt              time.Time      `json:"created_at"`
	UpdatedAt              time.Time      `json:"updated_at"`
	DeletedAt              gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	EloHistory []EloHistory `gorm:"foreignKey:PlayerID" json:"elo_history,omitempty"`
}

func (Player) TableName() string {
	return "players"
}

type CreatePlayerRequest struct {
	Name      string `json:"name"`
	SteamID   string `json:"steam_id"`
	AvatarURL string `json:"avatar_url,omitempty"`
	Elo       *int   `json:"elo,omitempty"`
}

type LeaderboardEntry struct {
	Rank             int        `json:"rank"`
	PlayerID         uint       `json:"player_id"`
	Name             string     `json:"name"`
	Elo              int        `json:"elo"`
	GamesPlayedTotal int        `json:"games_played_total"`
	EloLastUpdatedAt *time.Time `json:"elo_last_updated_at"`
}
