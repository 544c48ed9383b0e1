package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	MatchKindRegular      = "regular"
	MatchKindUpperBracket = "upper_bracket"
	MatchKindLowerBracket = "lower_bracket" // the "wooden spoon" bracket
	MatchKindInhouse      = "inhouse"
)

// Match is a best-of-N series between two drafted teams.
type Match struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	SeasonID  uint           `gorm:"not null;index;constraint:OnDelete:CASCADE" json:"season_id"`
	StartTime time.Time      `gorm:"not null;index" json:"start_time"`
	BestOf    int            `gorm:"not null" json:"best_of"` // 2 or 3
	Kind      string         `gorm:"size:20;not null;default:regular" json:"kind"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Season             Season              `gorm:"foreignKey:SeasonID;references:ID" json:"season,omitempty"`
	TeamParticipations []TeamParticipation `gorm:"foreignKey:MatchID" json:"team_participations,omitempty"`
	Games              []Game              `gorm:"foreignKey:MatchID" json:"games,omitempty"`
}

func (Match) TableName() string {
	return "matches"
}

// IsSeasonGame reports whether games of this match carry full rating weight.
func (m Match) IsSeasonGame() bool {
	return m.Kind == MatchKindRegular || m.Kind == MatchKindUpperBracket
}

// TeamParticipation links a team to a match with its series score.
type TeamParticipation struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	TeamID    uint      `gorm:"not null;uniqueIndex:no_duplicate_teams" json:"team_id"`
	MatchID   uint      `gorm:"not null;uniqueIndex:no_duplicate_teams" json:"match_id"`
	GamesWon  int       `gorm:"default:0" json:"games_won"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Team Team `gorm:"foreignKey:TeamID;references:ID" json:"team,omitempty"`
}

func (TeamParticipation) TableName() string {
	return "team_participations"
}

type CreateMatchRequest struct {
	SeasonID  uint      `json:"season_id"`
	TeamIDs   []uint    `json:"team_ids"`
	StartTime time.Time `json:"start_time"`
	BestOf    int       `json:"best_of"`
	Kind      string    `json:"kind,omitempty"`
}
