package migrations

import "gorm.io/gorm"

func GetCoreMigrations() []MigrationDefinition {
	return []MigrationDefinition{
		{
			Name: "2025_01_01_000000_create_league_tables",
			Up: func(db *gorm.DB) error {
				// Create players table
				if err := db.Exec(`
					CREATE TABLE IF NOT EXISTS players (
						id BIGSERIAL PRIMARY KEY,
						name VARCHAR(255) NOT NULL,
						steam_id VARCHAR(255) NOT NULL,
						avatar_url VARCHAR(512),
						elo BIGINT NOT NULL,
						initial_elo BIGINT NOT NULL,
						elo_last_updated_at TIMESTAMPTZ NULL,
						previous_season_elo BIGINT NOT NULL,
						games_played_this_season BIGINT DEFAULT 0,
						games_played_total BIGINT DEFAULT 0,
						games_in_unplayed_seasons BIGINT DEFAULT 0,
						last_season_number BIGINT NULL,
						created_at TIMESTAMPTZ DEFAULT NOW(),
						updated_at TIMESTAMPTZ DEFAULT NOW(),
						deleted_at TIMESTAMPTZ NULL
					);
					CREATE UNIQUE INDEX IF NOT EXISTS idx_players_steam_id ON players(steam_id);
					CREATE INDEX IF NOT EXISTS idx_players_deleted_at ON players(deleted_at);
					CREATE INDEX IF NOT EXISTS idx_players_elo ON players(elo);
				`).Error; err != nil {
					return err
				}

				// Create seasons table
				if err := db.Exec(`
					CREATE TABLE IF NOT EXISTS seasons (
						id BIGSERIAL PRIMARY KEY,
						number BIGINT NOT NULL,
						draft_format VARCHAR(50) NOT NULL DEFAULT 'captains_mode',
						start_date TIMESTAMPTZ NULL,
						created_at TIMESTAMPTZ DEFAULT NOW(),
						updated_at TIMESTAMPTZ DEFAULT NOW(),
						deleted_at TIMESTAMPTZ NULL
					);
					CREATE UNIQUE INDEX IF NOT EXISTS idx_seasons_number ON seasons(number);
					CREATE INDEX IF NOT EXISTS idx_seasons_deleted_at ON seasons(deleted_at);
				`).Error; err != nil {
					return err
				}

				// Create teams and rosters
				if err := db.Exec(`
					CREATE TABLE IF NOT EXISTS teams (
						id BIGSERIAL PRIMARY KEY,
						name VARCHAR(512) NOT NULL,
						season_id BIGINT NOT NULL,
						captain_id BIGINT NOT NULL,
						created_at TIMESTAMPTZ DEFAULT NOW(),
						updated_at TIMESTAMPTZ DEFAULT NOW(),
						deleted_at TIMESTAMPTZ NULL,
						FOREIGN KEY (season_id) REFERENCES seasons(id) ON DELETE CASCADE,
						FOREIGN KEY (captain_id) REFERENCES players(id) ON DELETE CASCADE
					);
					CREATE INDEX IF NOT EXISTS idx_teams_season_id ON teams(season_id);
					CREATE INDEX IF NOT EXISTS idx_teams_deleted_at ON teams(deleted_at);

					CREATE TABLE IF NOT EXISTS team_players (
						team_id BIGINT NOT NULL,
						player_id BIGINT NOT NULL,
						PRIMARY KEY (team_id, player_id),
						FOREIGN KEY (team_id) REFERENCES teams(id) ON DELETE CASCADE,
						FOREIGN KEY (player_id) REFERENCES players(id) ON DELETE CASCADE
					);
				`).Error; err != nil {
					return err
				}

				// Create matches table
				if err := db.Exec(`
					CREATE TABLE IF NOT EXISTS matches (
						id BIGSERIAL PRIMARY KEY,
						season_id BIGINT NOT NULL,
						start_time TIMESTAMPTZ NOT NULL,
						best_of BIGINT NOT NULL,
						kind VARCHAR(20) NOT NULL DEFAULT 'regular',
						created_at TIMESTAMPTZ DEFAULT NOW(),
						updated_at TIMESTAMPTZ DEFAULT NOW(),
						deleted_at TIMESTAMPTZ NULL,
						FOREIGN KEY (season_id) REFERENCES seasons(id) ON DELETE CASCADE,
						CHECK (best_of IN (2, 3))
					);
					CREATE INDEX IF NOT EXISTS idx_matches_season_id ON matches(season_id);
					CREATE INDEX IF NOT EXISTS idx_matches_start_time ON matches(start_time);
					CREATE INDEX IF NOT EXISTS idx_matches_deleted_at ON matches(deleted_at);

					CREATE TABLE IF NOT EXISTS team_participations (
						id BIGSERIAL PRIMARY KEY,
						team_id BIGINT NOT NULL,
						match_id BIGINT NOT NULL,
						games_won BIGINT DEFAULT 0,
						created_at TIMESTAMPTZ DEFAULT NOW(),
						updated_at TIMESTAMPTZ DEFAULT NOW(),
						FOREIGN KEY (team_id) REFERENCES teams(id) ON DELETE CASCADE,
						FOREIGN KEY (match_id) REFERENCES matches(id) ON DELETE CASCADE
					);
					CREATE UNIQUE INDEX IF NOT EXISTS no_duplicate_teams ON team_participations(team_id, match_id);
				`).Error; err != nil {
					return err
				}

				// Create games, rosters and per-player stats
				if err := db.Exec(`
					CREATE TABLE IF NOT EXISTS dota_heroes (
						id BIGSERIAL PRIMARY KEY,
						name VARCHAR(255) NOT NULL UNIQUE,
						dota_id VARCHAR(255) NOT NULL UNIQUE,
						thumbnail_url VARCHAR(512) UNIQUE
					);

					CREATE TABLE IF NOT EXISTS games (
						id BIGSERIAL PRIMARY KEY,
						dota_id VARCHAR(255) NOT NULL,
						match_id BIGINT NOT NULL,
						start_time TIMESTAMPTZ NOT NULL,
						rated_at TIMESTAMPTZ NULL,
						created_at TIMESTAMPTZ DEFAULT NOW(),
						updated_at TIMESTAMPTZ DEFAULT NOW(),
						deleted_at TIMESTAMPTZ NULL,
						FOREIGN KEY (match_id) REFERENCES matches(id) ON DELETE CASCADE
					);
					CREATE UNIQUE INDEX IF NOT EXISTS idx_games_dota_id ON games(dota_id);
					CREATE INDEX IF NOT EXISTS idx_games_match_id ON games(match_id);
					CREATE INDEX IF NOT EXISTS idx_games_start_time ON games(start_time);
					CREATE INDEX IF NOT EXISTS idx_games_rated_at ON games(rated_at);
					CREATE INDEX IF NOT EXISTS idx_games_deleted_at ON games(deleted_at);

					CREATE TABLE IF NOT EXISTS game_teams (
						id BIGSERIAL PRIMARY KEY,
						base_team_id BIGINT NOT NULL,
						game_id BIGINT NOT NULL,
						radiant_side BOOLEAN NOT NULL,
						won_game BOOLEAN NOT NULL,
						created_at TIMESTAMPTZ DEFAULT NOW(),
						FOREIGN KEY (base_team_id) REFERENCES teams(id) ON DELETE CASCADE,
						FOREIGN KEY (game_id) REFERENCES games(id) ON DELETE CASCADE
					);
					CREATE UNIQUE INDEX IF NOT EXISTS different_sides ON game_teams(game_id, radiant_side);
					CREATE UNIQUE INDEX IF NOT EXISTS only_one_winner ON game_teams(game_id, won_game);

					CREATE TABLE IF NOT EXISTS player_participations (
						id BIGSERIAL PRIMARY KEY,
						game_team_id BIGINT NOT NULL,
						player_id BIGINT NOT NULL,
						hero_id BIGINT NULL,
						role VARCHAR(50),
						kills BIGINT DEFAULT 0,
						deaths BIGINT DEFAULT 0,
						assists BIGINT DEFAULT 0,
						stratz_imp_score BIGINT DEFAULT 0,
						experience_per_minute BIGINT DEFAULT 0,
						gold_per_minute BIGINT DEFAULT 0,
						created_at TIMESTAMPTZ DEFAULT NOW(),
						FOREIGN KEY (game_team_id) REFERENCES game_teams(id) ON DELETE CASCADE,
						FOREIGN KEY (player_id) REFERENCES players(id),
						FOREIGN KEY (hero_id) REFERENCES dota_heroes(id)
					);
					CREATE INDEX IF NOT EXISTS idx_player_participations_game_team_id ON player_participations(game_team_id);
					CREATE INDEX IF NOT EXISTS idx_player_participations_player_id ON player_participations(player_id);
				`).Error; err != nil {
					return err
				}

				// Create elo_history table
				if err := db.Exec(`
					CREATE TABLE IF NOT EXISTS elo_history (
						id BIGSERIAL PRIMARY KEY,
						player_id BIGINT NOT NULL,
						game_id BIGINT NOT NULL,
						run_id VARCHAR(36),
						elo_before BIGINT NOT NULL,
						elo_after BIGINT NOT NULL,
						elo_change BIGINT NOT NULL,
						raw_delta DOUBLE PRECISION NOT NULL,
						team_average_elo DOUBLE PRECISION NOT NULL,
						enemy_team_average_elo DOUBLE PRECISION NOT NULL,
						won_game BOOLEAN NOT NULL,
						is_season_game BOOLEAN NOT NULL,
						created_at TIMESTAMPTZ DEFAULT NOW(),
						updated_at TIMESTAMPTZ DEFAULT NOW(),
						deleted_at TIMESTAMPTZ NULL,
						FOREIGN KEY (player_id) REFERENCES players(id) ON DELETE CASCADE,
						FOREIGN KEY (game_id) REFERENCES games(id) ON DELETE CASCADE
					);
					CREATE INDEX IF NOT EXISTS idx_elo_history_player_id ON elo_history(player_id);
					CREATE INDEX IF NOT EXISTS idx_elo_history_game_id ON elo_history(game_id);
					CREATE INDEX IF NOT EXISTS idx_elo_history_run_id ON elo_history(run_id);
					CREATE INDEX IF NOT EXISTS idx_elo_history_deleted_at ON elo_history(deleted_at);
				`).Error; err != nil {
					return err
				}

				return nil
			},
			Down: func(db *gorm.DB) error {
				// Drop tables in reverse order (because of foreign keys)
				tables := []string{
					"elo_history",
					"player_participations",
					"game_teams",
					"games",
					"dota_heroes",
					"team_participations",
					"matches",
					"team_players",
					"teams",
					"seasons",
					"players",
				}
				for _, table := range tables {
					if err := db.Exec("DROP TABLE IF EXISTS " + table + " CASCADE").Error; err != nil {
						return err
					}
				}
				return nil
			},
		},
	}
}
