package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleCore         = "CORE"
	RoleLightSupport = "LIGHT_SUPPORT" // pos 4
	RoleHardSupport  = "HARD_SUPPORT"  // pos 5
)

// Game is a single game played as part of a match.
type Game struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	DotaID    string         `gorm:"size:255;uniqueIndex;not null" json:"dota_id"`
	MatchID   uint           `gorm:"not null;index;constraint:OnDelete:CASCADE" json:"match_id"`
	StartTime time.Time      `gorm:"not null;index" json:"start_time"`
	RatedAt   *time.Time     `gorm:"index" json:"rated_at"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Match Match      `gorm:"foreignKey:MatchID;references:ID" json:"match,omitempty"`
	Teams []GameTeam `gorm:"foreignKey:GameID" json:"teams,omitempty"`
}

func (Game) TableName() string {
	return "games"
}

// GameTeam is the roster a drafted team fielded in one game, subs included.
type GameTeam struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	BaseTeamID  uint      `gorm:"not null;constraint:OnDelete:CASCADE" json:"base_team_id"`
	GameID      uint      `gorm:"not null;uniqueIndex:different_sides;uniqueIndex:only_one_winner" json:"game_id"`
	RadiantSide bool      `gorm:"not null;uniqueIndex:different_sides" json:"radiant_side"`
	WonGame     bool      `gorm:"not null;uniqueIndex:only_one_winner" json:"won_game"`
	CreatedAt   time.Time `json:"created_at"`

	// Relationships
	BaseTeam Team                  `gorm:"foreignKey:BaseTeamID;references:ID" json:"base_team,omitempty"`
	Players  []PlayerParticipation `gorm:"foreignKey:GameTeamID" json:"players,omitempty"`
}

func (GameTeam) TableName() string {
	return "game_teams"
}

// PlayerParticipation is one player's appearance and performance in a game.
type PlayerParticipation struct {
	ID                  uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	GameTeamID          uint      `gorm:"not null;index;constraint:OnDelete:CASCADE" json:"game_team_id"`
	PlayerID            uint      `gorm:"not null;index" json:"player_id"`
	HeroID              *uint     `json:"hero_id"`
	Role                string    `gorm:"size:50" json:"role"`
	Kills               int       `gorm:"default:0" json:"kills"`
	Deaths              int       `gorm:"default:0" json:"deaths"`
	Assists             int       `gorm:"default:0" json:"assists"`
	StratzImpScore      int       `gorm:"default:0" json:"stratz_imp_score"`
	ExperiencePerMinute int       `gorm:"default:0" json:"experience_per_minute"`
	GoldPerMinute       int       `gorm:"default:0" json:"gold_per_minute"`
	CreatedAt           time.Time `json:"created_at"`

	// Relationships
	Player Player    `gorm:"foreignKey:PlayerID;references:ID" json:"player,omitempty"`
	Hero   *DotaHero `gorm:"foreignKey:HeroID;references:ID" json:"hero,omitempty"`
}

func (PlayerParticipation) TableName() string {
	return "player_participations"
}

type DotaHero struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string `gorm:"size:255;uniqueIndex;not null" json:"name"`
	DotaID       string `gorm:"size:255;uniqueIndex;not null" json:"dota_id"`
	ThumbnailURL string `gorm:"size:512;uniqueIndex" json:"thumbnail_url"`
}

func (DotaHero) TableName() string {
	return "dota_heroes"
}

type ParticipationRequest struct {
	PlayerID            uint   `json:"player_id"`
	HeroID              *uint  `json:"hero_id,omitempty"`
	Role                string `json:"role,omitempty"`
	Kills               int    `json:"kills"`
	Deaths              int    `json:"deaths"`
	Assists             int    `json:"assists"`
	StratzImpScore      int    `json:"stratz_imp_score"`
	ExperiencePerMinute int    `json:"experience_per_minute"`
	GoldPerMinute       int    `json:"gold_per_minute"`
}

type GameTeamRequest struct {
	TeamID      uint                   `json:"team_id"`
	RadiantSide bool                   `json:"radiant_side"`
	WonGame     bool                   `json:"won_game"`
	Players     []ParticipationRequest `json:"players"`
}

type RecordGameRequest struct {
	MatchID   uint              `json:"match_id"`
	DotaID    string            `json:"dota_id"`
	StartTime time.Time         `json:"start_time"`
	Teams     []GameTeamRequest `json:"teams"`
}
