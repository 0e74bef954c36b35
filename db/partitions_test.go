package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackPartitions_WindowsCoverTheDay(t *testing.T) {
	day := time.Date(2024, 2, 10, 22, 5, 0, 0, time.UTC)

	parts := TrackPartitions(day)
	require.Len(t, parts, 2)

	assert.Equal(t, "pilot_tracks_20240210_day", parts[0].Name)
	assert.Equal(t, time.Date(2024, 2, 10, 6, 0, 0, 0, time.UTC), parts[0].From)
	assert.Equal(t, time.Date(2024, 2, 10, 18, 0, 0, 0, time.UTC), parts[0].To)

	assert.Equal(t, "pilot_tracks_20240210_night", parts[1].Name)
	assert.Equal(t, time.Date(2024, 2, 10, 18, 0, 0, 0, time.UTC), parts[1].From)
	assert.Equal(t, time.Date(2024, 2, 11, 6, 0, 0, 0, time.UTC), parts[1].To, "night window spans midnight")

	// The windows must not overlap.
	assert.Equal(t, parts[0].To, parts[1].From)
}

func TestTrackPartitions_EarlyMorningBelongsToPreviousNight(t *testing.T) {
	// A sample at 02:30 falls inside no window of its own day; it lands
	// in the previous day's night partition, which is why every pass
	// ensures yesterday too.
	day := time.Date(2024, 2, 10, 2, 30, 0, 0, time.UTC)

	parts := TrackPartitions(day)
	for _, p := range parts {
		assert.False(t, !day.Before(p.From) && day.Before(p.To), "partition %s must not contain %s", p.Name, day)
	}

	yesterday := TrackPartitions(day.AddDate(0, 0, -1))
	night := yesterday[1]
	assert.True(t, !day.Before(night.From) && day.Before(night.To), "sample belongs to %s", night.Name)
}

func TestTrackPartitions_TimezoneNormalizedToUTC(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	local := time.Date(2024, 2, 11, 0, 30, 0, 0, loc) // 23:30 UTC the day before

	parts := TrackPartitions(local)
	assert.Equal(t, "pilot_tracks_20240210_day", parts[0].Name)
}
