package models

import (
	"time"

	"gorm.io/gorm"
)

// Team is a team drafted for a particular season.
type Team struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string         `gorm:"size:512;not null" json:"name"`
	SeasonID  uint           `gorm:"not null;index;constraint:OnDelete:CASCADE" json:"season_id"`
	CaptainID uint           `gorm:"not null;constraint:OnDelete:CASCADE" json:"captain_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Season  Season   `gorm:"foreignKey:SeasonID;references:ID" json:"season,omitempty"`
	Captain Player   `gorm:"foreignKey:CaptainID;references:ID" json:"captain,omitempty"`
	Players []Player `gorm:"many2many:team_players" json:"players,omitempty"`
}

func (Team) TableName() string {
	return "teams"
}

type CreateTeamRequest struct {
	Name      string `json:"name"`
	SeasonID  uint   `json:"season_id"`
	CaptainID uint   `json:"captain_id"`
	PlayerIDs []uint `json:"player_ids"`
}
