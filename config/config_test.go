package config

import (
	"testing"

	"idl-tracker/packages/core/rating"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("RATING_ROUNDING", "")
	t.Setenv("DB_HOST", "db.internal")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.DBHost)
	assert.Equal(t, rating.RoundHalfAwayFromZero, cfg.RatingRounding)
	assert.Contains(t, cfg.DSN(), "host=db.internal")
	assert.Contains(t, cfg.DSN(), "TimeZone=UTC")
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("RATING_ROUNDING", "truncate")
	t.Setenv("DEFAULT_ELO", "1200")
	t.Setenv("RATING_CRON", "0 0 * * * *")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, rating.TruncateTowardZero, cfg.RatingRounding)
	assert.Equal(t, 1200, cfg.DefaultElo)
	assert.Equal(t, "0 0 * * * *", cfg.RatingCron)
}

func TestLoad_InvalidRounding(t *testing.T) {
	t.Setenv("RATING_ROUNDING", "bankers")

	_, err := Load()
	assert.Error(t, err)
}
