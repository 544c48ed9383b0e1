package rating

// SeasonLedger answers how many league games were played between two seasons.
type SeasonLedger interface {
	// GamesBetween counts games in seasons strictly after after and strictly before before.
	GamesBetween(after, before uint) int
}

// SeasonGameCounts maps a season number to the number of games played in it.
type SeasonGameCounts map[uint]int

func (c SeasonGameCounts) GamesBetween(after, before uint) int {
	total := 0
	for season, games := range c {
		if season > after && season < before {
			total += games
		}
	}
	return total
}
