package models

type Stats struct {
	TotalPlayers int64 `json:"total_players"`
	TotalSeasons int64 `json:"total_seasons"`
	TotalMatches int64 `json:"total_matches"`
	TotalGames   int64 `json:"total_games"`
	RatedGames   int64 `json:"rated_games"`
	PendingGames int64 `json:"pending_games"`
}
