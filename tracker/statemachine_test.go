package tracker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buehner/ivao-tracker/models"
)

func statePtr(s models.FlightState) *models.FlightState {
	return &s
}

func trackAt(state models.FlightState, ts time.Time) *models.PilotTrack {
	return &models.PilotTrack{
		PilotSessionID: 42,
		Timestamp:      ts,
		State:          state,
	}
}

func TestAdvance_AdjacentTransitions(t *testing.T) {
	ts := time.Date(2024, 2, 10, 22, 5, 0, 0, time.UTC)

	tests := []struct {
		name      string
		last      models.FlightState
		next      models.FlightState
		milestone func(m Milestones) *time.Time
	}{
		{"taxi", models.StateBoarding, models.StateDeparting, func(m Milestones) *time.Time { return m.Taxi }},
		{"takeoff", models.StateDeparting, models.StateInitialClimb, func(m Milestones) *time.Time { return m.Takeoff }},
		{"approach", models.StateEnRoute, models.StateApproach, func(m Milestones) *time.Time { return m.Approach }},
		{"landing", models.StateApproach, models.StateLanded, func(m Milestones) *time.Time { return m.Landing }},
		{"on blocks", models.StateLanded, models.StateOnBlocks, func(m Milestones) *time.Time { return m.OnBlocks }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := &models.PilotSession{ID: 42}
			m := Advance(statePtr(tt.last), session, trackAt(tt.next, ts))

			got := tt.milestone(m)
			require.NotNil(t, got)
			assert.Equal(t, ts, *got, "milestone must carry the raw track timestamp")
		})
	}
}

func TestAdvance_SkippedPhaseFiresNothing(t *testing.T) {
	session := &models.PilotSession{ID: 42}
	track := trackAt(models.StateInitialClimb, time.Now())

	m := Advance(statePtr(models.StateBoarding), session, track)

	assert.True(t, m.Empty(), "Boarding -> Initial Climb skips Departing and must not fire")
}

func TestAdvance_RepeatedStateFiresNothing(t *testing.T) {
	session := &models.PilotSession{ID: 42}
	track := trackAt(models.StateEnRoute, time.Now())

	m := Advance(statePtr(models.StateEnRoute), session, track)

	assert.True(t, m.Empty())
}

func TestAdvance_FirstTrackFiresNothing(t *testing.T) {
	session := &models.PilotSession{ID: 42}
	track := trackAt(models.StateDeparting, time.Now())

	m := Advance(nil, session, track)

	assert.True(t, m.Empty(), "no previous phase means no transition")
}

func TestAdvance_MilestonesAreWriteOnce(t *testing.T) {
	first := time.Date(2024, 2, 10, 22, 0, 0, 0, time.UTC)
	second := first.Add(30 * time.Minute)

	session := &models.PilotSession{ID: 42}

	m := Advance(statePtr(models.StateBoarding), session, trackAt(models.StateDeparting, first))
	m.Apply(session)
	require.NotNil(t, session.TaxiTime)
	assert.Equal(t, first, *session.TaxiTime)

	// The same transition later must not move the milestone.
	m = Advance(statePtr(models.StateBoarding), session, trackAt(models.StateDeparting, second))
	assert.True(t, m.Empty())
	m.Apply(session)
	assert.Equal(t, first, *session.TaxiTime)
}

func TestAdvance_FullFlightSetsEveryMilestoneOnce(t *testing.T) {
	phases := []models.FlightState{
		models.StateBoarding,
		models.StateDeparting,
		models.StateInitialClimb,
		models.StateEnRoute,
		models.StateApproach,
		models.StateLanded,
		models.StateOnBlocks,
	}

	session := &models.PilotSession{ID: 42}
	base := time.Date(2024, 2, 10, 20, 0, 0, 0, time.UTC)

	var last *models.FlightState
	for i, phase := range phases {
		track := trackAt(phase, base.Add(time.Duration(i)*10*time.Minute))
		Advance(last, session, track).Apply(session)
		last = statePtr(phase)
	}

	require.NotNil(t, session.TaxiTime)
	require.NotNil(t, session.TakeoffTime)
	require.NotNil(t, session.ApproachTime)
	require.NotNil(t, session.LandingTime)
	require.NotNil(t, session.OnBlocksTime)

	assert.Equal(t, base.Add(10*time.Minute), *session.TaxiTime)
	assert.Equal(t, base.Add(20*time.Minute), *session.TakeoffTime)
	assert.Equal(t, base.Add(40*time.Minute), *session.ApproachTime)
	assert.Equal(t, base.Add(50*time.Minute), *session.LandingTime)
	assert.Equal(t, base.Add(60*time.Minute), *session.OnBlocksTime)
}
