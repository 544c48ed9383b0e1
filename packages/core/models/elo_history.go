package models

import (
	"time"

	"gorm.io/gorm"
)

// EloHistory records one player's rating change for one game.
type EloHistory struct {
	ID                  uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	PlayerID            uint           `gorm:"not null;index;constraint:OnDelete:CASCADE" json:"player_id"`
	GameID              uint           `gorm:"not null;index;constraint:OnDelete:CASCADE" json:"game_id"`
	RunID               string         `gorm:"size:36;index" json:"run_id"`
	EloBefore           int            `gorm:"not null" json:"elo_before"`
	EloAfter            int            `gorm:"not null" json:"elo_after"`
	EloChange           int            `gorm:"not null" json:"elo_change"`
	RawDelta            float64        `gorm:"not null" json:"raw_delta"`
	TeamAverageElo      float64        `gorm:"not null" json:"team_average_elo"`
	EnemyTeamAverageElo float64        `gorm:"not null" json:"enemy_team_average_elo"`
	WonGame             bool           `gorm:"not null" json:"won_game"`
	IsSeasonGame        bool           `gorm:"not null" json:"is_season_game"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Player Player `gorm:"foreignKey:PlayerID;references:ID" json:"player,omitempty"`
	Game   Game   `gorm:"foreignKey:GameID;references:ID" json:"game,omitempty"`
}

func (EloHistory) TableName() string {
	return "elo_history"
}
