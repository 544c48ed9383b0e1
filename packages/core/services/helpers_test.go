package services

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"idl-tracker/packages/core/models"
	"idl-tracker/packages/core/rating"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var leagueStart = time.Date(2025, time.March, 3, 19, 0, 0, 0, time.UTC)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

// league is a season with two drafted teams of five and the services to drive them.
type league struct {
	db      *gorm.DB
	players *PlayerService
	seasons *SeasonService
	teams   *TeamService
	matches *MatchService
	ratings *RatingService

	season *models.Season
	home   *models.Team
	away   *models.Team
	roster []models.Player
}

func newLeague(t *testing.T) *league {
	t.Helper()
	ctx := context.Background()
	db := newTestDB(t)

	l := &league{
		db:      db,
		players: NewPlayerService(db, 1500),
		seasons: NewSeasonService(db),
		teams:   NewTeamService(db),
		matches: NewMatchService(db),
		ratings: NewRatingService(db, rating.RoundHalfAwayFromZero, nil),
	}

	for i := 0; i < 2*rating.TeamSize; i++ {
		p, err := l.players.CreatePlayer(ctx, models.CreatePlayerRequest{
			Name:    fmt.Sprintf("player-%d", i+1),
			SteamID: fmt.Sprintf("steam-%d", i+1),
		})
		require.NoError(t, err)
		l.roster = append(l.roster, *p)
	}

	l.season = l.newSeason(t, 1)
	l.home, l.away = l.draft(t, l.season)
	return l
}

func (l *league) newSeason(t *testing.T, number uint) *models.Season {
	t.Helper()
	season, err := l.seasons.CreateSeason(context.Background(), models.CreateSeasonRequest{Number: number})
	require.NoError(t, err)
	return season
}

// draft splits the roster into players 1-5 and 6-10 for season.
func (l *league) draft(t *testing.T, season *models.Season) (*models.Team, *models.Team) {
	t.Helper()
	var teams [2]*models.Team
	for i := range teams {
		members := l.roster[i*rating.TeamSize : (i+1)*rating.TeamSize]
		ids := make([]uint, 0, rating.TeamSize)
		for _, p := range members {
			ids = append(ids, p.ID)
		}
		team, err := l.teams.DraftTeam(context.Background(), models.CreateTeamRequest{
			Name:      fmt.Sprintf("team-%d-s%d", i+1, season.Number),
			SeasonID:  season.ID,
			CaptainID: ids[0],
			PlayerIDs: ids,
		})
		require.NoError(t, err)
		teams[i] = team
	}
	return teams[0], teams[1]
}

func (l *league) newMatch(t *testing.T, season *models.Season, home, away *models.Team, kind string, start time.Time) *models.Match {
	t.Helper()
	match, err := l.matches.CreateMatch(context.Background(), models.CreateMatchRequest{
		SeasonID:  season.ID,
		TeamIDs:   []uint{home.ID, away.ID},
		StartTime: start,
		BestOf:    3,
		Kind:      kind,
	})
	require.NoError(t, err)
	return match
}

func gameRequest(match *models.Match, home, away *models.Team, dotaID string, start time.Time, homeWon bool) models.RecordGameRequest {
	side := func(team *models.Team, radiant, won bool) models.GameTeamRequest {
		players := make([]models.ParticipationRequest, 0, len(team.Players))
		for _, p := range team.Players {
			players = append(players, models.ParticipationRequest{PlayerID: p.ID, Kills: 3, Deaths: 2, Assists: 9})
		}
		return models.GameTeamRequest{TeamID: team.ID, RadiantSide: radiant, WonGame: won, Players: players}
	}

	return models.RecordGameRequest{
		MatchID:   match.ID,
		DotaID:    dotaID,
		StartTime: start,
		Teams:     []models.GameTeamRequest{side(home, true, homeWon), side(away, false, !homeWon)},
	}
}

func (l *league) recordGame(t *testing.T, match *models.Match, home, away *models.Team, dotaID string, start time.Time, homeWon bool) *models.Game {
	t.Helper()
	game, err := l.matches.RecordGame(context.Background(), gameRequest(match, home, away, dotaID, start, homeWon))
	require.NoError(t, err)
	return game
}

func (l *league) player(t *testing.T, id uint) models.Player {
	t.Helper()
	var p models.Player
	require.NoError(t, l.db.First(&p, id).Error)
	return p
}
