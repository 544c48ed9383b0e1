package fixtures

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"idl-tracker/logging"
	"idl-tracker/packages/core"
	"idl-tracker/packages/core/models"
	"idl-tracker/packages/core/rating"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Fixtures struct {
	db     *gorm.DB
	module *core.Module
	rng    *rand.Rand
}

func NewFixtures(db *gorm.DB, module *core.Module) *Fixtures {
	return &Fixtures{
		db:     db,
		module: module,
		rng:    rand.New(rand.NewSource(42)), // #nosec G404
	}
}

// Summary counts what GenerateTestData created.
type Summary struct {
	Players int
	Seasons int
	Teams   int
	Matches int
	Games   int
	Rated   int
}

// GenerateTestData creates 20 players and two seasons of four drafted teams
// each. Every team meets every other once per season, then all games are
// rated.
func (f *Fixtures) GenerateTestData(ctx context.Context) (Summary, error) {
	logging.Info("Starting fixtures generation...")

	var summary Summary

	players, err := f.generatePlayers(ctx)
	if err != nil {
		return summary, fmt.Errorf("failed to generate players: %w", err)
	}
	summary.Players = len(players)

	start := time.Date(2025, time.January, 6, 19, 0, 0, 0, time.UTC)
	for number := uint(1); number <= 2; number++ {
		seasonStart := start.AddDate(0, 0, int(number-1)*70)

		season, err := f.module.SeasonService.CreateSeason(ctx, models.CreateSeasonRequest{
			Number:    number,
			StartDate: &seasonStart,
		})
		if err != nil {
			return summary, fmt.Errorf("failed to create season %d: %w", number, err)
		}
		summary.Seasons++

		teams, err := f.generateTeams(ctx, season, players)
		if err != nil {
			return summary, fmt.Errorf("failed to generate teams for season %d: %w", number, err)
		}
		summary.Teams += len(teams)

		matches, games, err := f.generateMatches(ctx, season, teams, seasonStart)
		if err != nil {
			return summary, fmt.Errorf("failed to generate matches for season %d: %w", number, err)
		}
		summary.Matches += matches
		summary.Games += games
	}

	rated, err := f.module.RatingService.RatePending(ctx)
	summary.Rated = rated
	if err != nil {
		return summary, fmt.Errorf("failed to rate games: %w", err)
	}

	logging.Info("Fixtures generated successfully!",
		zap.Int("players", summary.Players),
		zap.Int("seasons", summary.Seasons),
		zap.Int("teams", summary.Teams),
		zap.Int("matches", summary.Matches),
		zap.Int("games", summary.Games),
	)
	return summary, nil
}

func (f *Fixtures) generatePlayers(ctx context.Context) ([]models.Player, error) {
	names := []string{
		"Miracle", "Topson", "Puppey", "Ceb", "N0tail",
		"Arteezy", "Cr1t", "Fly", "Sumail", "Abed",
		"Nisha", "Yatoro", "Collapse", "Mira", "Torontotokyo",
		"Ame", "Faith", "Zai", "Saksa", "Gorgc",
	}

	players := make([]models.Player, 0, len(names))
	for i, name := range names {
		elo := 1300 + f.rng.Intn(400)
		player, err := f.module.PlayerService.CreatePlayer(ctx, models.CreatePlayerRequest{
			Name:    name,
			SteamID: fmt.Sprintf("7656119%010d", 8000000+i),
			Elo:     &elo,
		})
		if err != nil {
			return nil, err
		}
		players = append(players, *player)
	}

	logging.Info("Created players", zap.Int("count", len(players)))
	return players, nil
}

// generateTeams shuffles the player pool into teams of five.
func (f *Fixtures) generateTeams(ctx context.Context, season *models.Season, players []models.Player) ([]models.Team, error) {
	pool := make([]models.Player, len(players))
	copy(pool, players)
	f.rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

	var teams []models.Team
	for i := 0; i+rating.TeamSize <= len(pool); i += rating.TeamSize {
		roster := pool[i : i+rating.TeamSize]
		ids := make([]uint, 0, rating.TeamSize)
		for _, p := range roster {
			ids = append(ids, p.ID)
		}

		team, err := f.module.TeamService.DraftTeam(ctx, models.CreateTeamRequest{
			Name:      fmt.Sprintf("Team %s S%d", roster[0].Name, season.Number),
			SeasonID:  season.ID,
			CaptainID: roster[0].ID,
			PlayerIDs: ids,
		})
		if err != nil {
			return nil, err
		}
		teams = append(teams, *team)
	}

	return teams, nil
}

// generateMatches plays a round robin, one match per week, followed by an
// inhouse game night that rates at half weight.
func (f *Fixtures) generateMatches(ctx context.Context, season *models.Season, teams []models.Team, start time.Time) (int, int, error) {
	matchCount, gameCount := 0, 0
	when := start

	play := func(home, away models.Team, kind string, bestOf int) error {
		match, err := f.module.MatchService.CreateMatch(ctx, models.CreateMatchRequest{
			SeasonID:  season.ID,
			TeamIDs:   []uint{home.ID, away.ID},
			StartTime: when,
			BestOf:    bestOf,
			Kind:      kind,
		})
		if err != nil {
			return err
		}
		matchCount++

		gameStart := when
		for g := 0; g < bestOf; g++ {
			homeWon := f.rng.Intn(2) == 0
			_, err := f.module.MatchService.RecordGame(ctx, models.RecordGameRequest{
				MatchID:   match.ID,
				DotaID:    fmt.Sprintf("%d", 7000000000+int64(season.Number)*100000+int64(match.ID)*10+int64(g)),
				StartTime: gameStart,
				Teams: []models.GameTeamRequest{
					f.gameTeam(home, g%2 == 0, homeWon),
					f.gameTeam(away, g%2 != 0, !homeWon),
				},
			})
			if err != nil {
				return err
			}
			gameCount++
			gameStart = gameStart.Add(50*time.Minute + time.Duration(f.rng.Intn(20))*time.Minute)
		}
		when = when.AddDate(0, 0, 7)
		return nil
	}

	for i := 0; i < len(teams); i++ {
		for j := i + 1; j < len(teams); j++ {
			if err := play(teams[i], teams[j], models.MatchKindRegular, 2); err != nil {
				return matchCount, gameCount, err
			}
		}
	}

	if len(teams) >= 2 {
		if err := play(teams[0], teams[1], models.MatchKindInhouse, 3); err != nil {
			return matchCount, gameCount, err
		}
	}

	return matchCount, gameCount, nil
}

func (f *Fixtures) gameTeam(team models.Team, radiant, won bool) models.GameTeamRequest {
	roles := []string{models.RoleCore, models.RoleCore, models.RoleCore, models.RoleLightSupport, models.RoleHardSupport}

	players := make([]models.ParticipationRequest, 0, len(team.Players))
	for i, p := range team.Players {
		players = append(players, models.ParticipationRequest{
			PlayerID:            p.ID,
			Role:                roles[i%len(roles)],
			Kills:               f.rng.Intn(15),
			Deaths:              f.rng.Intn(12),
			Assists:             f.rng.Intn(25),
			StratzImpScore:      f.rng.Intn(60) - 20,
			ExperiencePerMinute: 300 + f.rng.Intn(500),
			GoldPerMinute:       250 + f.rng.Intn(500),
		})
	}

	return models.GameTeamRequest{
		TeamID:      team.ID,
		RadiantSide: radiant,
		WonGame:     won,
		Players:     players,
	}
}

func (f *Fixtures) ClearAllData() error {
	logging.Info("Clearing all fixture data...")

	// Delete in correct order due to foreign key constraints
	tables := []interface{}{
		&models.EloHistory{},
		&models.PlayerParticipation{},
		&models.GameTeam{},
		&models.Game{},
		&models.TeamParticipation{},
		&models.Match{},
	}
	for _, table := range tables {
		if err := f.db.Unscoped().Where("1 = 1").Delete(table).Error; err != nil {
			return fmt.Errorf("failed to clear table %T: %w", table, err)
		}
	}

	if err := f.db.Exec("DELETE FROM team_players").Error; err != nil {
		return fmt.Errorf("failed to clear table team_players: %w", err)
	}

	for _, table := range []interface{}{&models.Team{}, &models.Season{}, &models.Player{}} {
		if err := f.db.Unscoped().Where("1 = 1").Delete(table).Error; err != nil {
			return fmt.Errorf("failed to clear table %T: %w", table, err)
		}
	}

	// Reset auto-increment sequences to start from 1
	if f.db.Dialector.Name() == "postgres" {
		sequences := []string{
			"players_id_seq",
			"seasons_id_seq",
			"teams_id_seq",
			"matches_id_seq",
			"team_participations_id_seq",
			"games_id_seq",
			"game_teams_id_seq",
			"player_participations_id_seq",
			"elo_history_id_seq",
		}
		for _, seq := range sequences {
			if err := f.db.Exec("ALTER SEQUENCE " + seq + " RESTART WITH 1").Error; err != nil {
				logging.Warn("Failed to reset sequence", zap.String("sequence", seq), zap.Error(err))
			}
		}
	}

	logging.Info("All fixture data cleared!")
	return nil
}
