package services

import "errors"

var (
	ErrPlayerNotFound = errors.New("player not found")
	ErrSeasonNotFound = errors.New("season not found")
	ErrTeamNotFound   = errors.New("team not found")
	ErrMatchNotFound  = errors.New("match not found")
	ErrGameNotFound   = errors.New("game not found")
	ErrInvalidRoster  = errors.New("invalid roster")
	ErrInvalidMatch   = errors.New("invalid match")
	ErrDuplicate      = errors.New("record already exists")
)
