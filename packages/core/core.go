package core

import (
	"idl-tracker/logging"
	"idl-tracker/metrics"
	"idl-tracker/packages/core/cron"
	"idl-tracker/packages/core/rating"
	"idl-tracker/packages/core/services"

	"gorm.io/gorm"
)

// Options configures the core module.
type Options struct {
	DefaultElo int
	Rounding   rating.Rounding
	RatingCron string
	Metrics    *metrics.Recorder
}

type Module struct {
	PlayerService     *services.PlayerService
	SeasonService     *services.SeasonService
	TeamService       *services.TeamService
	MatchService      *services.MatchService
	RatingService     *services.RatingService
	EloHistoryService *services.EloHistoryService
	StatsService      *services.StatsService
	Scheduler         *cron.Scheduler
	db                *gorm.DB
}

func NewModule(db *gorm.DB, opts Options) *Module {
	ratingService := services.NewRatingService(db, opts.Rounding, opts.Metrics)

	return &Module{
		PlayerService:     services.NewPlayerService(db, opts.DefaultElo),
		SeasonService:     services.NewSeasonService(db),
		TeamService:       services.NewTeamService(db),
		MatchService:      services.NewMatchService(db),
		RatingService:     ratingService,
		EloHistoryService: services.NewEloHistoryService(db),
		StatsService:      services.NewStatsService(db),
		Scheduler:         cron.NewScheduler(ratingService, opts.RatingCron),
		db:                db,
	}
}

// StartScheduler starts the cron scheduler for pending game ratings
func (m *Module) StartScheduler() error {
	logging.Info("Starting core module scheduler...")
	return m.Scheduler.Start()
}

// StopScheduler stops the cron scheduler
func (m *Module) StopScheduler() {
	logging.Info("Stopping core module scheduler...")
	m.Scheduler.Stop()
}

// RunRatingNow rates pending games immediately
func (m *Module) RunRatingNow() {
	m.Scheduler.RunNow()
}
