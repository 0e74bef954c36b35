package models

import (
	"fmt"

	"github.com/buehner/ivao-tracker/types"
)

// Construction from decoded feed records. Pure coercion, no side
// effects; records missing mandatory fields fail with ErrMalformedRecord.

func SnapshotFromFeed(s *types.Snapshot) *Snapshot {
	c := s.Connections
	return &Snapshot{
		UpdatedAt:  s.UpdatedAt,
		Total:      c.Total,
		Supervisor: c.Supervisor,
		ATC:        c.ATC,
		Observer:   c.Observer,
		Pilot:      c.Pilot,
		WorldTour:  c.WorldTour,
		FollowMe:   c.FollowMe,
	}
}

func SessionFromReport(p *types.PilotReport) (*PilotSession, error) {
	if p.ID == 0 {
		return nil, fmt.Errorf("%w: pilot report without session id", ErrMalformedRecord)
	}
	if p.Callsign == "" {
		return nil, fmt.Errorf("%w: pilot session %d without callsign", ErrMalformedRecord, p.ID)
	}
	return &PilotSession{
		ID:              p.ID,
		IsActive:        true,
		UserID:          p.UserID,
		Callsign:        p.Callsign,
		ServerID:        p.ServerID,
		SoftwareTypeID:  p.SoftwareTypeID,
		SoftwareVersion: p.SoftwareVersion,
		Rating:          p.Rating,
		CreatedAt:       p.CreatedAt,
		SimulatorID:     p.PilotSession.SimulatorID,
		TextureID:       p.PilotSession.TextureID,
	}, nil
}

func TrackFromReport(sessionID int, lt *types.LastTrack) (*PilotTrack, error) {
	state, err := ParseFlightState(lt.State)
	if err != nil {
		return nil, fmt.Errorf("track for session %d: %w", sessionID, err)
	}
	mode, err := ParseTransponderMode(lt.TransponderMode)
	if err != nil {
		return nil, fmt.Errorf("track for session %d: %w", sessionID, err)
	}
	if lt.Timestamp.IsZero() {
		return nil, fmt.Errorf("%w: track for session %d without timestamp", ErrMalformedRecord, sessionID)
	}
	return &PilotTrack{
		PilotSessionID:  sessionID,
		Timestamp:       lt.Timestamp,
		Altitude:        lt.Altitude,
		GroundSpeed:     lt.GroundSpeed,
		Heading:         lt.Heading,
		OnGround:        lt.OnGround,
		State:           state,
		Transponder:     lt.Transponder,
		TransponderMode: mode,
		Latitude:        lt.Latitude,
		Longitude:       lt.Longitude,
	}, nil
}

func FlightPlanFromReport(sessionID int, fp *types.FlightPlanReport) (*FlightPlan, error) {
	if fp.ID == 0 {
		return nil, fmt.Errorf("%w: flight plan for session %d without id", ErrMalformedRecord, sessionID)
	}
	return &FlightPlan{
		ID:                       fp.ID,
		PilotSessionID:           sessionID,
		Revision:                 fp.Revision,
		AircraftNumber:           fp.AircraftNumber,
		DepartureID:              fp.DepartureID,
		ArrivalID:                fp.ArrivalID,
		AlternativeID:            fp.AlternativeID,
		Alternative2ID:           fp.Alternative2ID,
		Route:                    fp.Route,
		Remarks:                  fp.Remarks,
		Speed:                    fp.Speed,
		Level:                    fp.Level,
		FlightRules:              fp.FlightRules,
		EET:                      fp.EET,
		Endurance:                fp.Endurance,
		DepartureTime:            fp.DepartureTime,
		ActualDepartureTime:      fp.ActualDepartureTime,
		PeopleOnBoard:            fp.PeopleOnBoard,
		CreatedAt:                fp.CreatedAt,
		AircraftEquipments:       fp.AircraftEquipments,
		AircraftTransponderTypes: fp.AircraftTransponderTypes,
	}, nil
}

func AircraftFromReport(ac *types.AircraftReport) (*Aircraft, error) {
	if ac.ICAOCode == "" {
		return nil, fmt.Errorf("%w: aircraft without icao code", ErrMalformedRecord)
	}
	wake, err := ParseWakeTurbulence(ac.WakeTurbulence)
	if err != nil {
		return nil, fmt.Errorf("aircraft %s: %w", ac.ICAOCode, err)
	}
	return &Aircraft{
		ICAOCode:       ac.ICAOCode,
		Model:          ac.Model,
		WakeTurbulence: wake,
		IsMilitary:     ac.IsMilitary,
		Description:    ac.Description,
	}, nil
}
