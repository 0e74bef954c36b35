package models

import (
	"fmt"
	"time"
)

// Snapshot is one point-in-time capture of the network, immutable after
// creation. Session rows are linked to every snapshot they appeared in.
type Snapshot struct {
	ID         int64     `json:"id"`
	UpdatedAt  time.Time `json:"updated_at"`
	Total      int       `json:"total"`
	Supervisor int       `json:"supervisor"`
	ATC        int       `json:"atc"`
	Observer   int       `json:"observer"`
	Pilot      int       `json:"pilot"`
	WorldTour  int       `json:"world_tour"`
	FollowMe   int       `json:"follow_me"`
}

// PilotSession is one pilot connection, identified by the feed-assigned
// session id. Milestone timestamps are write-once; sessions are closed
// by flipping IsActive, never deleted.
type PilotSession struct {
	ID              int       `json:"id"`
	IsActive        bool      `json:"is_active"`
	UserID          int       `json:"user_id"`
	Callsign        string    `json:"callsign"`
	ServerID        string    `json:"server_id"`
	SoftwareTypeID  string    `json:"software_type_id"`
	SoftwareVersion string    `json:"software_version"`
	Rating          int       `json:"rating"`
	CreatedAt       time.Time `json:"created_at"`
	SimulatorID     *string   `json:"simulator_id,omitempty"`
	TextureID       *int      `json:"texture_id,omitempty"`

	TaxiTime       *time.Time `json:"taxi_time,omitempty"`
	TakeoffTime    *time.Time `json:"takeoff_time,omitempty"`
	ApproachTime   *time.Time `json:"approach_time,omitempty"`
	LandingTime    *time.Time `json:"landing_time,omitempty"`
	OnBlocksTime   *time.Time `json:"on_blocks_time,omitempty"`
	DisconnectTime *time.Time `json:"disconnect_time,omitempty"`
}

// FlightPlan is append-only per session: a plan id already present on a
// session is never inserted again, existing plans are never mutated.
type FlightPlan struct {
	ID             int     `json:"id"`
	PilotSessionID int     `json:"pilot_session_id"`
	Revision       int     `json:"revision"`
	AircraftICAO   *string `json:"aircraft_icao,omitempty"`

	// Raw identifier strings as reported by the feed.
	DepartureID    *string `json:"departure_id,omitempty"`
	ArrivalID      *string `json:"arrival_id,omitempty"`
	AlternativeID  *string `json:"alternative_id,omitempty"`
	Alternative2ID *string `json:"alternative2_id,omitempty"`

	// Canonical airport codes filled in by the resolver before insert.
	DepartureCode    *string `json:"departure_code,omitempty"`
	ArrivalCode      *string `json:"arrival_code,omitempty"`
	AlternativeCode  *string `json:"alternative_code,omitempty"`
	Alternative2Code *string `json:"alternative2_code,omitempty"`

	AircraftNumber           int       `json:"aircraft_number"`
	Route                    string    `json:"route"`
	Remarks                  string    `json:"remarks"`
	Speed                    string    `json:"speed"`
	Level                    string    `json:"level"`
	FlightRules              string    `json:"flight_rules"`
	EET                      int       `json:"eet"`
	Endurance                int       `json:"endurance"`
	DepartureTime            int       `json:"departure_time"`
	ActualDepartureTime      *int      `json:"actual_departure_time,omitempty"`
	PeopleOnBoard            int       `json:"people_on_board"`
	CreatedAt                time.Time `json:"created_at"`
	AircraftEquipments       string    `json:"aircraft_equipments"`
	AircraftTransponderTypes string    `json:"aircraft_transponder_types"`
}

// Aircraft is shared by reference across flight plans, keyed by ICAO
// type code and created lazily on first encounter.
type Aircraft struct {
	ICAOCode       string         `json:"icao_code"`
	Model          string         `json:"model"`
	WakeTurbulence WakeTurbulence `json:"wake_turbulence"`
	IsMilitary     *bool          `json:"is_military,omitempty"`
	Description    string         `json:"description"`
}

// PilotTrack is one position sample, append-only and ordered by
// timestamp within a session. Storage is range-partitioned on Timestamp.
type PilotTrack struct {
	PilotSessionID  int             `json:"pilot_session_id"`
	Timestamp       time.Time       `json:"timestamp"`
	Altitude        int             `json:"altitude"`
	GroundSpeed     int             `json:"ground_speed"`
	Heading         int             `json:"heading"`
	OnGround        bool            `json:"on_ground"`
	State           FlightState     `json:"state"`
	Transponder     int             `json:"transponder"`
	TransponderMode TransponderMode `json:"transponder_mode"`
	Latitude        float64         `json:"latitude"`
	Longitude       float64         `json:"longitude"`
}

// EWKT renders the track position as an extended WKT point for the
// geometry column.
func (t *PilotTrack) EWKT() string {
	return fmt.Sprintf("SRID=4326;POINT(%g %g)", t.Longitude, t.Latitude)
}

// Airport is a canonical airport record. Code is the stable identity;
// Ident is the reference-data key and never changes. Once IsFixed is
// set, Code is not reassigned by lower-priority resolution tiers.
type Airport struct {
	Code             string     `json:"code"`
	Ident            string     `json:"ident"`
	Type             *string    `json:"type,omitempty"`
	Name             *string    `json:"name,omitempty"`
	ElevationFt      *int       `json:"elevation_ft,omitempty"`
	Continent        *string    `json:"continent,omitempty"`
	ISOCountry       *string    `json:"iso_country,omitempty"`
	ISORegion        *string    `json:"iso_region,omitempty"`
	Municipality     *string    `json:"municipality,omitempty"`
	ScheduledService bool       `json:"scheduled_service"`
	GPSCode          *string    `json:"gps_code,omitempty"`
	ICAOCode         *string    `json:"icao_code,omitempty"`
	IATACode         *string    `json:"iata_code,omitempty"`
	LocalCode        *string    `json:"local_code,omitempty"`
	Keywords         *string    `json:"keywords,omitempty"`
	Score            *float64   `json:"score,omitempty"`
	Latitude         *float64   `json:"latitude,omitempty"`
	Longitude        *float64   `json:"longitude,omitempty"`
	IsFixed          bool       `json:"is_fixed"`
	FixOrigin        *FixOrigin `json:"fix_origin,omitempty"`
	IsUsed           bool       `json:"is_used"`
	LastUpdated      time.Time  `json:"last_updated"`
}

// EWKT returns the airport position as an extended WKT point, or the
// empty string when coordinates are unknown.
func (a *Airport) EWKT() string {
	if a.Latitude == nil || a.Longitude == nil {
		return ""
	}
	return fmt.Sprintf("SRID=4326;POINT(%g %g)", *a.Longitude, *a.Latitude)
}
