package models

import (
	"errors"
	"fmt"
)

// ErrMalformedRecord marks feed or reference records missing required
// fields or carrying values outside their enums. A snapshot containing
// one is rejected as a whole, nothing is committed.
var ErrMalformedRecord = errors.New("malformed record")

// ErrNotFound is returned by store lookups that match no row.
var ErrNotFound = errors.New("not found")

// FlightState is the flight phase reported with a pilot track. The
// phases form a strict progression from Boarding to On Blocks.
type FlightState string

const (
	StateBoarding     FlightState = "Boarding"
	StateDeparting    FlightState = "Departing"
	StateInitialClimb FlightState = "Initial Climb"
	StateEnRoute      FlightState = "En Route"
	StateApproach     FlightState = "Approach"
	StateLanded       FlightState = "Landed"
	StateOnBlocks     FlightState = "On Blocks"
)

func ParseFlightState(s string) (FlightState, error) {
	switch st := FlightState(s); st {
	case StateBoarding, StateDeparting, StateInitialClimb, StateEnRoute,
		StateApproach, StateLanded, StateOnBlocks:
		return st, nil
	}
	return "", fmt.Errorf("%w: unknown flight state %q", ErrMalformedRecord, s)
}

type TransponderMode string

const (
	TransponderModeN TransponderMode = "N"
	TransponderModeS TransponderMode = "S"
	TransponderModeY TransponderMode = "Y"
)

func ParseTransponderMode(s string) (TransponderMode, error) {
	switch m := TransponderMode(s); m {
	case TransponderModeN, TransponderModeS, TransponderModeY:
		return m, nil
	}
	return "", fmt.Errorf("%w: unknown transponder mode %q", ErrMalformedRecord, s)
}

type WakeTurbulence string

const (
	WakeTurbulenceH WakeTurbulence = "H"
	WakeTurbulenceJ WakeTurbulence = "J"
	WakeTurbulenceL WakeTurbulence = "L"
	WakeTurbulenceM WakeTurbulence = "M"
)

func ParseWakeTurbulence(s string) (WakeTurbulence, error) {
	switch w := WakeTurbulence(s); w {
	case WakeTurbulenceH, WakeTurbulenceJ, WakeTurbulenceL, WakeTurbulenceM:
		return w, nil
	}
	return "", fmt.Errorf("%w: unknown wake turbulence %q", ErrMalformedRecord, s)
}

// FixOrigin records which resolution tier rewrote an airport's canonical
// code, or DUMMY for synthesized placeholder records.
type FixOrigin string

const (
	FixOriginGPSCode       FixOrigin = "GPS_CODE"
	FixOriginLocalCode     FixOrigin = "LOCAL_CODE"
	FixOriginCustomMapping FixOrigin = "CUSTOM_MAPPING"
	FixOriginKeywords      FixOrigin = "KEYWORDS"
	FixOriginDummy         FixOrigin = "DUMMY"
)
