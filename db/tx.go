package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/buehner/ivao-tracker/models"
	"github.com/buehner/ivao-tracker/tracker"
)

// querier is satisfied by both *sql.DB and *sql.Tx so the query helpers
// can serve the transactional core and the read-only API alike.
type querier interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// Tx is one reconciliation transaction.
type Tx struct {
	tx *sql.Tx
}

func (s *Store) Begin() (tracker.Tx, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("store: begin: %w", err)
	}
	return &Tx{tx: tx}, nil
}

func (t *Tx) Commit() error {
	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf("store: commit: %w", err)
	}
	return nil
}

func (t *Tx) Rollback() error {
	return t.tx.Rollback()
}

// --- snapshots ---

// InsertSnapshot stores the snapshot row and fills in its id.
func (t *Tx) InsertSnapshot(snap *models.Snapshot) error {
	err := t.tx.QueryRow(`
		INSERT INTO snapshots (
			updated_at, total, supervisor, atc, observer,
			pilot, world_tour, follow_me
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`, snap.UpdatedAt, snap.Total, snap.Supervisor, snap.ATC, snap.Observer,
		snap.Pilot, snap.WorldTour, snap.FollowMe).Scan(&snap.ID)
	if err != nil {
		return fmt.Errorf("store: insert snapshot: %w", err)
	}
	return nil
}

func (t *Tx) LinkSnapshotSession(snapshotID int64, sessionID int) error {
	_, err := t.tx.Exec(`
		INSERT INTO snapshot_pilot_sessions (snapshot_id, pilot_session_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, snapshotID, sessionID)
	if err != nil {
		return fmt.Errorf("store: link snapshot session: %w", err)
	}
	return nil
}

// --- pilot sessions ---

const sessionColumns = `
	id, is_active, user_id, callsign, server_id, software_type_id,
	software_version, rating, created_at, simulator_id, texture_id,
	taxi_time, takeoff_time, approach_time, landing_time,
	on_blocks_time, disconnect_time`

func scanSession(row interface{ Scan(...any) error }) (*models.PilotSession, error) {
	var s models.PilotSession
	err := row.Scan(
		&s.ID, &s.IsActive, &s.UserID, &s.Callsign, &s.ServerID,
		&s.SoftwareTypeID, &s.SoftwareVersion, &s.Rating, &s.CreatedAt,
		&s.SimulatorID, &s.TextureID,
		&s.TaxiTime, &s.TakeoffTime, &s.ApproachTime, &s.LandingTime,
		&s.OnBlocksTime, &s.DisconnectTime,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func activeSessions(q querier) ([]*models.PilotSession, error) {
	rows, err := q.Query(`SELECT ` + sessionColumns + ` FROM pilot_sessions WHERE is_active`)
	if err != nil {
		return nil, fmt.Errorf("store: query active sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*models.PilotSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("store: scan session: %w", err)
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

func (t *Tx) ActiveSessions() ([]*models.PilotSession, error) {
	return activeSessions(t.tx)
}

// ActiveSessionList is the read-only variant used by the status API.
func (s *Store) ActiveSessionList() ([]*models.PilotSession, error) {
	return activeSessions(s.db)
}

func (t *Tx) SessionByID(id int) (*models.PilotSession, error) {
	row := t.tx.QueryRow(`SELECT `+sessionColumns+` FROM pilot_sessions WHERE id = $1`, id)
	s, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get session %d: %w", id, err)
	}
	return s, nil
}

func (t *Tx) InsertSession(s *models.PilotSession) error {
	_, err := t.tx.Exec(`
		INSERT INTO pilot_sessions (
			id, is_active, user_id, callsign, server_id, software_type_id,
			software_version, rating, created_at, simulator_id, texture_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, s.ID, s.IsActive, s.UserID, s.Callsign, s.ServerID, s.SoftwareTypeID,
		s.SoftwareVersion, s.Rating, s.CreatedAt, s.SimulatorID, s.TextureID)
	if err != nil {
		return fmt.Errorf("store: insert session %d: %w", s.ID, err)
	}
	return nil
}

func (t *Tx) UpdateSession(s *models.PilotSession) error {
	_, err := t.tx.Exec(`
		UPDATE pilot_sessions SET
			is_active = $2, server_id = $3, software_type_id = $4,
			software_version = $5, rating = $6, simulator_id = $7,
			texture_id = $8, taxi_time = $9, takeoff_time = $10,
			approach_time = $11, landing_time = $12, on_blocks_time = $13,
			disconnect_time = $14
		WHERE id = $1
	`, s.ID, s.IsActive, s.ServerID, s.SoftwareTypeID, s.SoftwareVersion,
		s.Rating, s.SimulatorID, s.TextureID, s.TaxiTime, s.TakeoffTime,
		s.ApproachTime, s.LandingTime, s.OnBlocksTime, s.DisconnectTime)
	if err != nil {
		return fmt.Errorf("store: update session %d: %w", s.ID, err)
	}
	return nil
}

// --- aircraft ---

func (t *Tx) Aircraft() ([]*models.Aircraft, error) {
	rows, err := t.tx.Query(`
		SELECT icao_code, model, wake_turbulence, is_military, description
		FROM aircraft
	`)
	if err != nil {
		return nil, fmt.Errorf("store: query aircraft: %w", err)
	}
	defer rows.Close()

	var aircraft []*models.Aircraft
	for rows.Next() {
		var a models.Aircraft
		if err := rows.Scan(&a.ICAOCode, &a.Model, &a.WakeTurbulence, &a.IsMilitary, &a.Description); err != nil {
			return nil, fmt.Errorf("store: scan aircraft: %w", err)
		}
		aircraft = append(aircraft, &a)
	}
	return aircraft, rows.Err()
}

func (t *Tx) InsertAircraft(a *models.Aircraft) error {
	_, err := t.tx.Exec(`
		INSERT INTO aircraft (icao_code, model, wake_turbulence, is_military, description)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (icao_code) DO NOTHING
	`, a.ICAOCode, a.Model, a.WakeTurbulence, a.IsMilitary, a.Description)
	if err != nil {
		return fmt.Errorf("store: insert aircraft %s: %w", a.ICAOCode, err)
	}
	return nil
}

// --- flight plans ---

func (t *Tx) FlightPlanIDs(sessionID int) ([]int, error) {
	rows, err := t.tx.Query(`SELECT id FROM flight_plans WHERE pilot_session_id = $1`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("store: query flight plans for session %d: %w", sessionID, err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("store: scan flight plan id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (t *Tx) InsertFlightPlan(fp *models.FlightPlan) error {
	_, err := t.tx.Exec(`
		INSERT INTO flight_plans (
			id, pilot_session_id, revision, aircraft_icao, aircraft_number,
			departure_id, arrival_id, alternative_id, alternative2_id,
			departure_code, arrival_code, alternative_code, alternative2_code,
			route, remarks, speed, level, flight_rules, eet, endurance,
			departure_time, actual_departure_time, people_on_board,
			created_at, aircraft_equipments, aircraft_transponder_types
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
			$14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26
		)
		ON CONFLICT (id) DO NOTHING
	`, fp.ID, fp.PilotSessionID, fp.Revision, fp.AircraftICAO, fp.AircraftNumber,
		fp.DepartureID, fp.ArrivalID, fp.AlternativeID, fp.Alternative2ID,
		fp.DepartureCode, fp.ArrivalCode, fp.AlternativeCode, fp.Alternative2Code,
		fp.Route, fp.Remarks, fp.Speed, fp.Level, fp.FlightRules, fp.EET,
		fp.Endurance, fp.DepartureTime, fp.ActualDepartureTime, fp.PeopleOnBoard,
		fp.CreatedAt, fp.AircraftEquipments, fp.AircraftTransponderTypes)
	if err != nil {
		return fmt.Errorf("store: insert flight plan %d: %w", fp.ID, err)
	}
	return nil
}

// --- tracks ---

func (t *Tx) LastTrackState(sessionID int) (*models.FlightState, error) {
	var state models.FlightState
	err := t.tx.QueryRow(`
		SELECT state FROM pilot_tracks
		WHERE pilot_session_id = $1
		ORDER BY timestamp DESC
		LIMIT 1
	`, sessionID).Scan(&state)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: last track state for session %d: %w", sessionID, err)
	}
	return &state, nil
}

func (t *Tx) InsertTrack(track *models.PilotTrack) error {
	_, err := t.tx.Exec(`
		INSERT INTO pilot_tracks (
			pilot_session_id, timestamp, altitude, ground_speed, heading,
			on_ground, state, transponder, transponder_mode, geom
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, ST_GeomFromEWKT($10))
	`, track.PilotSessionID, track.Timestamp, track.Altitude, track.GroundSpeed,
		track.Heading, track.OnGround, track.State, track.Transponder,
		track.TransponderMode, track.EWKT())
	if err != nil {
		return fmt.Errorf("store: insert track for session %d: %w", track.PilotSessionID, err)
	}
	return nil
}

// --- watermark ---

func (s *Store) Watermark() (time.Time, error) {
	var w time.Time
	err := s.db.QueryRow(`SELECT last_snapshot FROM tracker_state WHERE id = 1`).Scan(&w)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("store: load watermark: %w", err)
	}
	return w, nil
}

func (t *Tx) SetWatermark(w time.Time) error {
	_, err := t.tx.Exec(`
		INSERT INTO tracker_state (id, last_snapshot)
		VALUES (1, $1)
		ON CONFLICT (id) DO UPDATE SET last_snapshot = $1
	`, w)
	if err != nil {
		return fmt.Errorf("store: set watermark: %w", err)
	}
	return nil
}
