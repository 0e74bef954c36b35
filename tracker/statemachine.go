package tracker

import (
	"time"

	"github.com/buehner/ivao-tracker/models"
)

// Milestones holds the timestamps a single phase transition derives.
// At most one field is non-nil per transition.
type Milestones struct {
	Taxi     *time.Time
	Takeoff  *time.Time
	Approach *time.Time
	Landing  *time.Time
	OnBlocks *time.Time
}

func (m Milestones) Empty() bool {
	return m.Taxi == nil && m.Takeoff == nil && m.Approach == nil &&
		m.Landing == nil && m.OnBlocks == nil
}

// Apply writes the milestones onto the session. Fields already set are
// left untouched.
func (m Milestones) Apply(s *models.PilotSession) {
	if m.Taxi != nil && s.TaxiTime == nil {
		s.TaxiTime = m.Taxi
	}
	if m.Takeoff != nil && s.TakeoffTime == nil {
		s.TakeoffTime = m.Takeoff
	}
	if m.Approach != nil && s.ApproachTime == nil {
		s.ApproachTime = m.Approach
	}
	if m.Landing != nil && s.LandingTime == nil {
		s.LandingTime = m.Landing
	}
	if m.OnBlocks != nil && s.OnBlocksTime == nil {
		s.OnBlocksTime = m.OnBlocks
	}
}

// Advance derives milestone timestamps from the transition between the
// session's last recorded phase and the phase of the newly arriving
// track. Only the exact adjacent-pair transitions fire; skipped or
// repeated phases derive nothing, and a milestone that is already set
// on the session is never overwritten.
//
// The takeoff milestone uses the raw track timestamp. An earlier
// revision backdated it by one minute to compensate feed sampling lag;
// that offset was dropped to keep all milestones on the same clock.
func Advance(lastState *models.FlightState, session *models.PilotSession, track *models.PilotTrack) Milestones {
	var m Milestones
	if lastState == nil || *lastState == track.State {
		return m
	}

	ts := track.Timestamp
	switch {
	case *lastState == models.StateBoarding && track.State == models.StateDeparting:
		if session.TaxiTime == nil {
			m.Taxi = &ts
		}
	case *lastState == models.StateDeparting && track.State == models.StateInitialClimb:
		if session.TakeoffTime == nil {
			m.Takeoff = &ts
		}
	case *lastState == models.StateEnRoute && track.State == models.StateApproach:
		if session.ApproachTime == nil {
			m.Approach = &ts
		}
	case *lastState == models.StateApproach && track.State == models.StateLanded:
		if session.LandingTime == nil {
			m.Landing = &ts
		}
	case *lastState == models.StateLanded && track.State == models.StateOnBlocks:
		if session.OnBlocksTime == nil {
			m.OnBlocks = &ts
		}
	}
	return m
}
