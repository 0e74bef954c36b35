package db

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/lib/pq"
)

// Store wraps the Postgres connection and implements the persistence
// interfaces of the tracker, airports and api packages.
type Store struct {
	db *sql.DB
}

// Open connects using the DB_* environment variables and creates the
// schema if needed.
func Open() (*Store, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}

	s := &Store{db: db}
	if err = s.createSchema(); err != nil {
		return nil, fmt.Errorf("error creating schema: %w", err)
	}
	return s, nil
}

func (s *Store) createSchema() error {
	queries := []string{
		`CREATE EXTENSION IF NOT EXISTS postgis`,

		`CREATE TABLE IF NOT EXISTS snapshots (
			id BIGSERIAL PRIMARY KEY,
			updated_at TIMESTAMP WITH TIME ZONE NOT NULL,
			total INTEGER NOT NULL,
			supervisor INTEGER NOT NULL,
			atc INTEGER NOT NULL,
			observer INTEGER NOT NULL,
			pilot INTEGER NOT NULL,
			world_tour INTEGER NOT NULL,
			follow_me INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS pilot_sessions (
			id INTEGER PRIMARY KEY,
			is_active BOOLEAN NOT NULL DEFAULT true,
			user_id INTEGER NOT NULL,
			callsign VARCHAR(255) NOT NULL,
			server_id VARCHAR(255) NOT NULL,
			software_type_id VARCHAR(255) NOT NULL,
			software_version VARCHAR(255) NOT NULL,
			rating SMALLINT NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE NOT NULL,
			simulator_id VARCHAR(255),
			texture_id INTEGER,
			taxi_time TIMESTAMP WITH TIME ZONE,
			takeoff_time TIMESTAMP WITH TIME ZONE,
			approach_time TIMESTAMP WITH TIME ZONE,
			landing_time TIMESTAMP WITH TIME ZONE,
			on_blocks_time TIMESTAMP WITH TIME ZONE,
			disconnect_time TIMESTAMP WITH TIME ZONE
		)`,
		`CREATE TABLE IF NOT EXISTS snapshot_pilot_sessions (
			snapshot_id BIGINT NOT NULL REFERENCES snapshots(id),
			pilot_session_id INTEGER NOT NULL REFERENCES pilot_sessions(id),
			PRIMARY KEY (snapshot_id, pilot_session_id)
		)`,
		`CREATE TABLE IF NOT EXISTS aircraft (
			icao_code VARCHAR(8) PRIMARY KEY,
			model VARCHAR(255) NOT NULL,
			wake_turbulence VARCHAR(1) NOT NULL,
			is_military BOOLEAN,
			description VARCHAR(255) NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS airports (
			code VARCHAR(16) PRIMARY KEY,
			ident VARCHAR(16) NOT NULL UNIQUE,
			type VARCHAR(32),
			name TEXT,
			elevation_ft INTEGER,
			continent VARCHAR(2),
			iso_country VARCHAR(2),
			iso_region VARCHAR(8),
			municipality TEXT,
			scheduled_service BOOLEAN NOT NULL DEFAULT false,
			gps_code VARCHAR(8),
			icao_code VARCHAR(8),
			iata_code VARCHAR(8),
			local_code VARCHAR(8),
			keywords TEXT,
			score DOUBLE PRECISION,
			geom geometry(Point, 4326),
			is_fixed BOOLEAN NOT NULL DEFAULT false,
			fix_origin VARCHAR(16),
			is_used BOOLEAN NOT NULL DEFAULT false,
			last_updated TIMESTAMP WITH TIME ZONE
		)`,
		`CREATE TABLE IF NOT EXISTS flight_plans (
			id INTEGER PRIMARY KEY,
			pilot_session_id INTEGER NOT NULL REFERENCES pilot_sessions(id),
			revision INTEGER NOT NULL,
			aircraft_icao VARCHAR(8) REFERENCES aircraft(icao_code),
			aircraft_number INTEGER NOT NULL,
			departure_id VARCHAR(16),
			arrival_id VARCHAR(16),
			alternative_id VARCHAR(16),
			alternative2_id VARCHAR(16),
			departure_code VARCHAR(16),
			arrival_code VARCHAR(16),
			alternative_code VARCHAR(16),
			alternative2_code VARCHAR(16),
			route TEXT NOT NULL,
			remarks TEXT NOT NULL,
			speed VARCHAR(16) NOT NULL,
			level VARCHAR(16) NOT NULL,
			flight_rules VARCHAR(4) NOT NULL,
			eet INTEGER NOT NULL,
			endurance INTEGER NOT NULL,
			departure_time INTEGER NOT NULL,
			actual_departure_time INTEGER,
			people_on_board INTEGER NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE NOT NULL,
			aircraft_equipments VARCHAR(255) NOT NULL,
			aircraft_transponder_types VARCHAR(255) NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS pilot_tracks (
			id BIGINT GENERATED ALWAYS AS IDENTITY,
			pilot_session_id INTEGER NOT NULL,
			timestamp TIMESTAMP WITH TIME ZONE NOT NULL,
			altitude INTEGER NOT NULL,
			ground_speed INTEGER NOT NULL,
			heading SMALLINT NOT NULL,
			on_ground BOOLEAN NOT NULL,
			state VARCHAR(16) NOT NULL,
			transponder INTEGER NOT NULL,
			transponder_mode VARCHAR(1) NOT NULL,
			geom geometry(Point, 4326),
			PRIMARY KEY (timestamp, id)
		) PARTITION BY RANGE (timestamp)`,
		`CREATE TABLE IF NOT EXISTS tracker_state (
			id SMALLINT PRIMARY KEY DEFAULT 1 CHECK (id = 1),
			last_snapshot TIMESTAMP WITH TIME ZONE NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_pilot_sessions_active ON pilot_sessions(is_active)`,
		`CREATE INDEX IF NOT EXISTS idx_pilot_sessions_callsign ON pilot_sessions(callsign)`,
		`CREATE INDEX IF NOT EXISTS idx_flight_plans_session ON flight_plans(pilot_session_id)`,
		`CREATE INDEX IF NOT EXISTS idx_pilot_tracks_session ON pilot_tracks(pilot_session_id)`,
		`CREATE INDEX IF NOT EXISTS idx_airports_gps_code ON airports(gps_code)`,
		`CREATE INDEX IF NOT EXISTS idx_airports_local_code ON airports(local_code)`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) Close() {
	if s.db != nil {
		s.db.Close()
	}
}
