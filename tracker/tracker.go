package tracker

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/buehner/ivao-tracker/airports"
	"github.com/buehner/ivao-tracker/models"
	"github.com/buehner/ivao-tracker/types"
)

// snapshotTolerance is how close two updatedAt values have to be for
// the snapshots to count as the same feed state.
const snapshotTolerance = time.Microsecond

// Tracker drives one reconciliation pass per poll. The watermark of the
// last processed snapshot lives on the struct and in the store, never
// in a package global; it only advances when a pass commits, so a
// failed pass is fully redone on the next poll.
type Tracker struct {
	store Store
	feed  Feed
	log   zerolog.Logger

	lastSnapshot time.Time

	// stats is read by the API goroutine while the collection loop
	// updates it.
	mu    sync.Mutex
	stats types.CollectionStats
}

func New(store Store, feed Feed, log zerolog.Logger) (*Tracker, error) {
	watermark, err := store.Watermark()
	if err != nil {
		return nil, fmt.Errorf("loading watermark: %w", err)
	}
	return &Tracker{
		store:        store,
		feed:         feed,
		log:          log,
		lastSnapshot: watermark,
		stats: types.CollectionStats{
			StartTime: time.Now(),
		},
	}, nil
}

func (t *Tracker) Stats() types.CollectionStats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stats
}

// FetchAndImport polls the feed once and reconciles the snapshot.
// Errors are returned for the caller to log; the next scheduled poll is
// the retry.
func (t *Tracker) FetchAndImport() error {
	snapshot, err := t.feed.Fetch()
	if err != nil {
		return fmt.Errorf("fetching snapshot: %w", err)
	}
	return t.ProcessSnapshot(snapshot)
}

// ProcessSnapshot runs one reconciliation pass: dedup check, partition
// ensure, then a single transaction covering the snapshot row, the
// per-pilot reconciliation loop and the closure of unreported sessions.
// The watermark is advanced inside the same transaction.
func (t *Tracker) ProcessSnapshot(snapshot *types.Snapshot) error {
	diff := snapshot.UpdatedAt.Sub(t.lastSnapshot)
	if diff < 0 {
		diff = -diff
	}
	if diff < snapshotTolerance {
		t.mu.Lock()
		t.stats.SkippedUpdates++
		t.mu.Unlock()
		t.log.Info().Msg("no update available")
		return nil
	}

	if err := t.store.EnsureTrackPartitions(snapshot.UpdatedAt); err != nil {
		return fmt.Errorf("ensuring track partitions: %w", err)
	}

	start := time.Now()
	tx, err := t.store.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	snap := models.SnapshotFromFeed(snapshot)
	if err := tx.InsertSnapshot(snap); err != nil {
		return fmt.Errorf("inserting snapshot: %w", err)
	}

	lastActive, err := tx.ActiveSessions()
	if err != nil {
		return fmt.Errorf("loading active sessions: %w", err)
	}
	active := make(map[int]*models.PilotSession, len(lastActive))
	for _, s := range lastActive {
		active[s.ID] = s
	}
	t.log.Debug().Int("count", len(active)).Msg("loaded last active sessions")

	aircraftRows, err := tx.Aircraft()
	if err != nil {
		return fmt.Errorf("loading aircraft: %w", err)
	}
	aircraft := make(map[string]*models.Aircraft, len(aircraftRows))
	for _, ac := range aircraftRows {
		aircraft[ac.ICAOCode] = ac
	}

	resolver := airports.NewResolver(tx, t.log)
	rec := newReconciler(tx, resolver, aircraft, t.log)

	for i := range snapshot.Clients.Pilots {
		report := &snapshot.Clients.Pilots[i]
		if _, err := rec.reconcile(report, active, snap.ID); err != nil {
			return fmt.Errorf("reconciling session %d: %w", report.ID, err)
		}
	}

	// Whatever is left in the active set was not reported this cycle.
	for _, s := range active {
		s.IsActive = false
		disconnect := snapshot.UpdatedAt
		s.DisconnectTime = &disconnect
		if err := tx.UpdateSession(s); err != nil {
			return fmt.Errorf("closing session %d: %w", s.ID, err)
		}
		t.log.Debug().Int("session", s.ID).Str("callsign", s.Callsign).Msg("ended session")
	}

	if err := tx.SetWatermark(snapshot.UpdatedAt); err != nil {
		return fmt.Errorf("advancing watermark: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing pass: %w", err)
	}

	t.lastSnapshot = snapshot.UpdatedAt
	t.mu.Lock()
	t.stats.LastUpdate = time.Now()
	t.stats.TotalSnapshots++
	t.stats.ActivePilots = len(snapshot.Clients.Pilots)
	t.stats.ActiveATCs = len(snapshot.Clients.ATCs)
	t.stats.ProcessedPilots += int64(len(snapshot.Clients.Pilots))
	t.mu.Unlock()

	t.log.Info().
		Int("pilots", len(snapshot.Clients.Pilots)).
		Int("atcs", len(snapshot.Clients.ATCs)).
		Dur("took", time.Since(start)).
		Msg("updated db")
	return nil
}
