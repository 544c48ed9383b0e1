package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	DraftFormatCaptainsMode  = "captains_mode"
	DraftFormatCaptainsDraft = "captains_draft"
)

// Season is one numbered season of league play.
type Season struct {
	ID          uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Number      uint           `gorm:"uniqueIndex;not null" json:"number"`
	DraftFormat string         `gorm:"size:50;not null;default:captains_mode" json:"draft_format"` // captains_mode, captains_draft
	StartDate   *time.Time     `json:"start_date"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	TeamsDrafted []Team  `gorm:"foreignKey:SeasonID" json:"teams_drafted,omitempty"`
	Matches      []Match `gorm:"foreignKey:SeasonID" json:"matches,omitempty"`
}

func (Season) TableName() string {
	return "seasons"
}

type CreateSeasonRequest struct {
	Number      uint       `json:"number"`
	DraftFormat string     `json:"draft_format,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
}
