package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buehner/ivao-tracker/types"
)

const pilotJSON = `{
	"id": 51730050,
	"userId": 540147,
	"callsign": "DLH42",
	"serverId": "EU1",
	"softwareTypeId": "altitude",
	"softwareVersion": "1.12",
	"rating": 5,
	"createdAt": "2024-02-10T20:00:00Z",
	"time": 7500,
	"pilotSession": {"simulatorId": "MSFS", "textureId": 321},
	"lastTrack": {
		"altitude": 35076,
		"altitudeDifference": 0,
		"groundSpeed": 441,
		"heading": 92,
		"latitude": 51.1,
		"longitude": 13.7,
		"onGround": false,
		"state": "En Route",
		"timestamp": "2024-02-10T22:05:00Z",
		"transponder": 2000,
		"transponderMode": "N",
		"time": 7400
	},
	"flightPlan": {
		"id": 7,
		"revision": 2,
		"aircraftId": "B77W",
		"aircraftNumber": 1,
		"departureId": "EDDF",
		"arrivalId": "EGLL",
		"route": "DCT",
		"remarks": "PBN/A1",
		"speed": "N0480",
		"level": "F350",
		"flightRules": "I",
		"eet": 4500,
		"endurance": 10800,
		"departureTime": 72000,
		"peopleOnBoard": 2,
		"createdAt": "2024-02-10T19:45:00Z",
		"aircraft": {
			"icaoCode": "B77W",
			"model": "777-300ER",
			"wakeTurbulence": "H",
			"isMilitary": false,
			"description": "Boeing 777-300ER"
		},
		"aircraftEquipments": "SDE3FGHIRWY",
		"aircraftTransponderTypes": "LB1"
	}
}`

func decodePilot(t *testing.T) *types.PilotReport {
	var p types.PilotReport
	require.NoError(t, json.Unmarshal([]byte(pilotJSON), &p))
	return &p
}

func TestSessionFromReport(t *testing.T) {
	p := decodePilot(t)

	s, err := SessionFromReport(p)
	require.NoError(t, err)

	assert.Equal(t, 51730050, s.ID)
	assert.Equal(t, 540147, s.UserID)
	assert.Equal(t, "DLH42", s.Callsign)
	assert.True(t, s.IsActive)
	require.NotNil(t, s.SimulatorID)
	assert.Equal(t, "MSFS", *s.SimulatorID)
	assert.Nil(t, s.TaxiTime)
}

func TestSessionFromReport_MissingMandatoryFields(t *testing.T) {
	p := decodePilot(t)
	p.Callsign = ""
	_, err := SessionFromReport(p)
	assert.ErrorIs(t, err, ErrMalformedRecord)

	p = decodePilot(t)
	p.ID = 0
	_, err = SessionFromReport(p)
	assert.ErrorIs(t, err, ErrMalformedRecord)
}

func TestTrackFromReport(t *testing.T) {
	p := decodePilot(t)

	track, err := TrackFromReport(p.ID, p.LastTrack)
	require.NoError(t, err)

	assert.Equal(t, StateEnRoute, track.State)
	assert.Equal(t, TransponderModeN, track.TransponderMode)
	assert.Equal(t, 35076, track.Altitude)
	assert.Equal(t, time.Date(2024, 2, 10, 22, 5, 0, 0, time.UTC), track.Timestamp)
	assert.Equal(t, "SRID=4326;POINT(13.7 51.1)", track.EWKT())
}

func TestTrackFromReport_UnknownState(t *testing.T) {
	p := decodePilot(t)
	p.LastTrack.State = "Hovering"

	_, err := TrackFromReport(p.ID, p.LastTrack)
	assert.ErrorIs(t, err, ErrMalformedRecord)
}

func TestFlightPlanFromReport(t *testing.T) {
	p := decodePilot(t)

	fp, err := FlightPlanFromReport(p.ID, p.FlightPlan)
	require.NoError(t, err)

	assert.Equal(t, 7, fp.ID)
	assert.Equal(t, p.ID, fp.PilotSessionID)
	require.NotNil(t, fp.DepartureID)
	assert.Equal(t, "EDDF", *fp.DepartureID)
	assert.Nil(t, fp.DepartureCode, "resolution happens later, not during construction")
}

func TestAircraftFromReport(t *testing.T) {
	p := decodePilot(t)

	ac, err := AircraftFromReport(p.FlightPlan.Aircraft)
	require.NoError(t, err)
	assert.Equal(t, "B77W", ac.ICAOCode)
	assert.Equal(t, WakeTurbulenceH, ac.WakeTurbulence)

	bad := *p.FlightPlan.Aircraft
	bad.WakeTurbulence = "X"
	_, err = AircraftFromReport(&bad)
	assert.ErrorIs(t, err, ErrMalformedRecord)
}

func TestParseFlightState(t *testing.T) {
	for _, valid := range []string{"Boarding", "Departing", "Initial Climb", "En Route", "Approach", "Landed", "On Blocks"} {
		_, err := ParseFlightState(valid)
		assert.NoError(t, err, valid)
	}
	_, err := ParseFlightState("Cruise")
	assert.ErrorIs(t, err, ErrMalformedRecord)
}

func TestSnapshotFromFeed(t *testing.T) {
	snap := SnapshotFromFeed(&types.Snapshot{
		UpdatedAt: time.Date(2024, 2, 10, 22, 5, 0, 607809000, time.UTC),
		Connections: types.ConnectionStats{
			Total: 1204, Supervisor: 3, ATC: 118, Observer: 20,
			Pilot: 1056, WorldTour: 200, FollowMe: 7,
		},
	})

	assert.Equal(t, 1204, snap.Total)
	assert.Equal(t, 1056, snap.Pilot)
	assert.Equal(t, time.Date(2024, 2, 10, 22, 5, 0, 607809000, time.UTC), snap.UpdatedAt)
}
