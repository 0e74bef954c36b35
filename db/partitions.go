package db

import (
	"fmt"
	"time"
)

// TrackPartition is one physical storage window of the pilot_tracks
// table.
type TrackPartition struct {
	Name string
	From time.Time
	To   time.Time
}

// TrackPartitions returns the two fixed clock windows for a calendar
// day: 06:00-18:00 and 18:00-06:00 of the next day, UTC. Samples
// between midnight and 06:00 land in the previous day's night window.
func TrackPartitions(day time.Time) []TrackPartition {
	y, m, d := day.UTC().Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	stamp := midnight.Format("20060102")

	return []TrackPartition{
		{
			Name: fmt.Sprintf("pilot_tracks_%s_day", stamp),
			From: midnight.Add(6 * time.Hour),
			To:   midnight.Add(18 * time.Hour),
		},
		{
			Name: fmt.Sprintf("pilot_tracks_%s_night", stamp),
			From: midnight.Add(18 * time.Hour),
			To:   midnight.Add(30 * time.Hour),
		},
	}
}

// EnsureTrackPartitions creates the track partitions for the given day
// and the day before, idempotently. Run before every reconciliation
// pass so track inserts never hit a missing partition.
func (s *Store) EnsureTrackPartitions(day time.Time) error {
	days := []time.Time{day.AddDate(0, 0, -1), day}
	for _, d := range days {
		for _, p := range TrackPartitions(d) {
			exists, err := s.partitionExists(p.Name)
			if err != nil {
				return err
			}
			if exists {
				continue
			}
			query := fmt.Sprintf(
				`CREATE TABLE IF NOT EXISTS %s PARTITION OF pilot_tracks FOR VALUES FROM ('%s') TO ('%s')`,
				p.Name,
				p.From.Format("2006-01-02 15:04:05+00"),
				p.To.Format("2006-01-02 15:04:05+00"),
			)
			if _, err := s.db.Exec(query); err != nil {
				return fmt.Errorf("store: create partition %s: %w", p.Name, err)
			}
		}
	}
	return nil
}

func (s *Store) partitionExists(name string) (bool, error) {
	var regclass *string
	if err := s.db.QueryRow(`SELECT to_regclass($1)`, name).Scan(&regclass); err != nil {
		return false, fmt.Errorf("store: check partition %s: %w", name, err)
	}
	return regclass != nil, nil
}
