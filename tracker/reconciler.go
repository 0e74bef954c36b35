package tracker

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/buehner/ivao-tracker/airports"
	"github.com/buehner/ivao-tracker/models"
	"github.com/buehner/ivao-tracker/types"
)

// Outcome reports how an incoming session was reconciled.
type Outcome int

const (
	Created Outcome = iota + 1
	Revived
	Merged
)

func (o Outcome) String() string {
	switch o {
	case Created:
		return "created"
	case Revived:
		return "revived"
	case Merged:
		return "merged"
	}
	return "unknown"
}

// reconciler carries the per-pass state: the open transaction, the
// pass-scoped airport resolver and the shared aircraft cache.
type reconciler struct {
	tx       Tx
	resolver *airports.Resolver
	aircraft map[string]*models.Aircraft
	log      zerolog.Logger
}

func newReconciler(tx Tx, resolver *airports.Resolver, aircraft map[string]*models.Aircraft, log zerolog.Logger) *reconciler {
	return &reconciler{
		tx:       tx,
		resolver: resolver,
		aircraft: aircraft,
		log:      log,
	}
}

// reconcile matches one reported pilot against the previously active
// set, reviving a ghost session from the store or creating a new one
// when no match exists. A matched or revived session is merged; merged
// sessions are removed from the active set so the closure sweep leaves
// them alone.
func (r *reconciler) reconcile(report *types.PilotReport, active map[int]*models.PilotSession, snapshotID int64) (Outcome, error) {
	incoming, err := models.SessionFromReport(report)
	if err != nil {
		return 0, err
	}

	if existing, ok := active[report.ID]; ok {
		if err := r.merge(existing, report); err != nil {
			return 0, err
		}
		delete(active, report.ID)
		if err := r.tx.LinkSnapshotSession(snapshotID, existing.ID); err != nil {
			return 0, err
		}
		return Merged, nil
	}

	// Ghost lookup: the session may still be in the store as active
	// even though the previous pass never saw it, e.g. after a restart.
	existing, err := r.tx.SessionByID(report.ID)
	if err == nil {
		existing.IsActive = true
		existing.DisconnectTime = nil
		r.log.Debug().Int("session", existing.ID).Str("callsign", existing.Callsign).Msg("revived pilot session")
		if err := r.merge(existing, report); err != nil {
			return 0, err
		}
		if err := r.tx.LinkSnapshotSession(snapshotID, existing.ID); err != nil {
			return 0, err
		}
		return Revived, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return 0, err
	}

	if err := r.create(incoming, report); err != nil {
		return 0, err
	}
	if err := r.tx.LinkSnapshotSession(snapshotID, incoming.ID); err != nil {
		return 0, err
	}
	return Created, nil
}

// create inserts a brand new session with its first flight plan and
// track. No milestone can fire here, there is no previous phase.
func (r *reconciler) create(s *models.PilotSession, report *types.PilotReport) error {
	if err := r.tx.InsertSession(s); err != nil {
		return err
	}

	if report.FlightPlan != nil {
		if err := r.appendFlightPlan(s, report.FlightPlan); err != nil {
			return err
		}
	}

	if report.LastTrack != nil {
		track, err := models.TrackFromReport(s.ID, report.LastTrack)
		if err != nil {
			return err
		}
		if err := r.tx.InsertTrack(track); err != nil {
			return err
		}
	}

	r.log.Debug().Int("session", s.ID).Str("callsign", s.Callsign).Msg("created pilot session")
	return nil
}

// merge applies one snapshot's worth of updates to an existing session:
// new flight plans are appended by id, the newest track advances the
// phase state machine, mutable display attributes are refreshed.
func (r *reconciler) merge(s *models.PilotSession, report *types.PilotReport) error {
	if report.FlightPlan != nil {
		known, err := r.tx.FlightPlanIDs(s.ID)
		if err != nil {
			return err
		}
		present := false
		for _, id := range known {
			if id == report.FlightPlan.ID {
				present = true
				break
			}
		}
		if !present {
			if err := r.appendFlightPlan(s, report.FlightPlan); err != nil {
				return err
			}
			r.log.Debug().Str("callsign", s.Callsign).Int("plan", report.FlightPlan.ID).Msg("appended flight plan")
		}
	}

	if report.LastTrack != nil {
		track, err := models.TrackFromReport(s.ID, report.LastTrack)
		if err != nil {
			return err
		}
		lastState, err := r.tx.LastTrackState(s.ID)
		if err != nil && !errors.Is(err, models.ErrNotFound) {
			return err
		}
		milestones := Advance(lastState, s, track)
		milestones.Apply(s)
		if !milestones.Empty() {
			r.log.Debug().Str("callsign", s.Callsign).Str("state", string(track.State)).Msg("reached flight phase milestone")
		}
		if err := r.tx.InsertTrack(track); err != nil {
			return err
		}
	}

	s.ServerID = report.ServerID
	s.SoftwareTypeID = report.SoftwareTypeID
	s.SoftwareVersion = report.SoftwareVersion
	s.Rating = report.Rating
	s.SimulatorID = report.PilotSession.SimulatorID
	s.TextureID = report.PilotSession.TextureID

	return r.tx.UpdateSession(s)
}

// appendFlightPlan resolves the plan's aircraft and airport references
// and inserts it. Plans are never mutated once stored.
func (r *reconciler) appendFlightPlan(s *models.PilotSession, report *types.FlightPlanReport) error {
	fp, err := models.FlightPlanFromReport(s.ID, report)
	if err != nil {
		return err
	}

	if report.Aircraft != nil && report.Aircraft.ICAOCode != "" {
		ac, err := r.resolveAircraft(report.Aircraft)
		if err != nil {
			return err
		}
		fp.AircraftICAO = &ac.ICAOCode
	}

	if fp.DepartureCode, err = r.resolveAirport(fp.DepartureID); err != nil {
		return err
	}
	if fp.ArrivalCode, err = r.resolveAirport(fp.ArrivalID); err != nil {
		return err
	}
	if fp.AlternativeCode, err = r.resolveAirport(fp.AlternativeID); err != nil {
		return err
	}
	if fp.Alternative2Code, err = r.resolveAirport(fp.Alternative2ID); err != nil {
		return err
	}

	return r.tx.InsertFlightPlan(fp)
}

func (r *reconciler) resolveAirport(id *string) (*string, error) {
	if id == nil || *id == "" {
		return nil, nil
	}
	airport, err := r.resolver.Resolve(*id)
	if err != nil {
		return nil, fmt.Errorf("resolving airport %s: %w", *id, err)
	}
	return &airport.Code, nil
}

// resolveAircraft reuses a cached aircraft by ICAO type code or creates
// it lazily on first encounter.
func (r *reconciler) resolveAircraft(report *types.AircraftReport) (*models.Aircraft, error) {
	if ac, ok := r.aircraft[report.ICAOCode]; ok {
		return ac, nil
	}
	ac, err := models.AircraftFromReport(report)
	if err != nil {
		return nil, err
	}
	if err := r.tx.InsertAircraft(ac); err != nil {
		return nil, err
	}
	r.aircraft[ac.ICAOCode] = ac
	return ac, nil
}
