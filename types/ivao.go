package types

import "time"

// Decoded shapes of the IVAO whazzup feed. Field names follow the feed's
// JSON keys; values are kept raw here and coerced into typed entities by
// the models package.

type Snapshot struct {
	UpdatedAt    time.Time       `json:"updatedAt"`
	Servers      []Server        `json:"servers"`
	VoiceServers []Server        `json:"voiceServers"`
	Connections  ConnectionStats `json:"connections"`
	Clients      Clients         `json:"clients"`
}

type Server struct {
	ID                 string `json:"id"`
	Hostname           string `json:"hostname"`
	IP                 string `json:"ip"`
	Description        string `json:"description"`
	CountryID          string `json:"countryId"`
	CurrentConnections int    `json:"currentConnections"`
	MaximumConnections int    `json:"maximumConnections"`
}

type ConnectionStats struct {
	Total      int `json:"total"`
	Supervisor int `json:"supervisor"`
	ATC        int `json:"atc"`
	Observer   int `json:"observer"`
	Pilot      int `json:"pilot"`
	WorldTour  int `json:"worldTour"`
	FollowMe   int `json:"followMe"`
}

type Clients struct {
	Pilots []PilotReport `json:"pilots"`
	ATCs   []AtcReport   `json:"atcs"`
}

// SessionReport is the part of a client record shared by pilots and
// controllers. Capability-specific data lives in the embedding reports.
type SessionReport struct {
	ID              int        `json:"id"`
	UserID          int        `json:"userId"`
	Callsign        string     `json:"callsign"`
	ServerID        string     `json:"serverId"`
	SoftwareTypeID  string     `json:"softwareTypeId"`
	SoftwareVersion string     `json:"softwareVersion"`
	Rating          int        `json:"rating"`
	CreatedAt       time.Time  `json:"createdAt"`
	Time            int64      `json:"time"`
	LastTrack       *LastTrack `json:"lastTrack"`
}

type PilotReport struct {
	SessionReport
	PilotSession PilotSessionData  `json:"pilotSession"`
	FlightPlan   *FlightPlanReport `json:"flightPlan"`
}

type AtcReport struct {
	SessionReport
	AtcSession AtcSessionData `json:"atcSession"`
	Atis       *AtisReport    `json:"atis"`
}

type PilotSessionData struct {
	SimulatorID *string `json:"simulatorId"`
	TextureID   *int    `json:"textureId"`
}

type AtcSessionData struct {
	Frequency float64 `json:"frequency"`
	Position  string  `json:"position"`
}

type AtisReport struct {
	Lines     []string  `json:"lines"`
	Revision  string    `json:"revision"`
	Timestamp time.Time `json:"timestamp"`
}

type LastTrack struct {
	Altitude           int       `json:"altitude"`
	AltitudeDifference int       `json:"altitudeDifference"`
	ArrivalDistance    *float64  `json:"arrivalDistance"`
	DepartureDistance  *float64  `json:"departureDistance"`
	GroundSpeed        int       `json:"groundSpeed"`
	Heading            int       `json:"heading"`
	Latitude           float64   `json:"latitude"`
	Longitude          float64   `json:"longitude"`
	OnGround           bool      `json:"onGround"`
	State              string    `json:"state"`
	Timestamp          time.Time `json:"timestamp"`
	Transponder        int       `json:"transponder"`
	TransponderMode    string    `json:"transponderMode"`
	Time               int64     `json:"time"`
}

type FlightPlanReport struct {
	ID                       int             `json:"id"`
	Revision                 int             `json:"revision"`
	AircraftID               *string         `json:"aircraftId"`
	AircraftNumber           int             `json:"aircraftNumber"`
	DepartureID              *string         `json:"departureId"`
	ArrivalID                *string         `json:"arrivalId"`
	AlternativeID            *string         `json:"alternativeId"`
	Alternative2ID           *string         `json:"alternative2Id"`
	Route                    string          `json:"route"`
	Remarks                  string          `json:"remarks"`
	Speed                    string          `json:"speed"`
	Level                    string          `json:"level"`
	FlightRules              string          `json:"flightRules"`
	EET                      int             `json:"eet"`
	Endurance                int             `json:"endurance"`
	DepartureTime            int             `json:"departureTime"`
	ActualDepartureTime      *int            `json:"actualDepartureTime"`
	PeopleOnBoard            int             `json:"peopleOnBoard"`
	CreatedAt                time.Time       `json:"createdAt"`
	Aircraft                 *AircraftReport `json:"aircraft"`
	AircraftEquipments       string          `json:"aircraftEquipments"`
	AircraftTransponderTypes string          `json:"aircraftTransponderTypes"`
}

type AircraftReport struct {
	ICAOCode       string `json:"icaoCode"`
	Model          string `json:"model"`
	WakeTurbulence string `json:"wakeTurbulence"`
	IsMilitary     *bool  `json:"isMilitary"`
	Description    string `json:"description"`
}
