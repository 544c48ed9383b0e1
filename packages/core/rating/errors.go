package rating

import "errors"

var (
	ErrInvalidGame     = errors.New("invalid game")
	ErrUnknownPlayer   = errors.New("player has no rating state")
	ErrInvalidCounters = errors.New("participation counters are inconsistent")
	ErrNonFiniteDelta  = errors.New("elo delta is not a finite number")
	ErrOutOfOrder      = errors.New("game is older than the last applied game")
	ErrAlreadyApplied  = errors.New("game has already been applied")
)
