package tracker

import (
	"time"

	"github.com/buehner/ivao-tracker/airports"
	"github.com/buehner/ivao-tracker/models"
	"github.com/buehner/ivao-tracker/types"
)

// Store is the persistence collaborator of the reconciliation core.
type Store interface {
	// EnsureTrackPartitions makes sure the track partitions for the
	// given day and the day before exist. Called before every pass.
	EnsureTrackPartitions(day time.Time) error

	// Watermark returns the updatedAt of the last successfully
	// processed snapshot, or the zero time when none was processed yet.
	Watermark() (time.Time, error)

	Begin() (Tx, error)
}

// Tx is one reconciliation transaction. Either Commit or Rollback must
// be called; all writes of a pass go through a single Tx.
type Tx interface {
	Commit() error
	Rollback() error

	InsertSnapshot(s *models.Snapshot) error
	LinkSnapshotSession(snapshotID int64, sessionID int) error

	ActiveSessions() ([]*models.PilotSession, error)
	SessionByID(id int) (*models.PilotSession, error)
	InsertSession(s *models.PilotSession) error
	UpdateSession(s *models.PilotSession) error

	Aircraft() ([]*models.Aircraft, error)
	InsertAircraft(a *models.Aircraft) error

	FlightPlanIDs(sessionID int) ([]int, error)
	InsertFlightPlan(fp *models.FlightPlan) error

	LastTrackState(sessionID int) (*models.FlightState, error)
	InsertTrack(t *models.PilotTrack) error

	SetWatermark(t time.Time) error

	airports.Store
}

// Feed delivers decoded snapshots.
type Feed interface {
	Fetch() (*types.Snapshot, error)
}
