package airports

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buehner/ivao-tracker/models"
)

const airportCSV = `id,ident,type,name,latitude_deg,longitude_deg,elevation_ft,continent,iso_country,iso_region,municipality,scheduled_service,gps_code,icao_code,iata_code,local_code,keywords,score,last_updated
2434,EDDC,large_airport,Dresden Airport,51.1328,13.7672,755,EU,DE,DE-SN,Dresden,yes,EDDC,EDDC,DRS,,,120,2024-01-05T10:00:00Z
2435,EDAB,small_airport,Bautzen,51.1936,14.5197,,EU,DE,DE-SN,Bautzen,no,EDAB,,,,"airfield, glider",40,2024-01-06T09:30:00Z
9999,,small_airport,No Ident Row,0,0,,EU,DE,DE-SN,,no,,,,,,0,2024-01-06T09:30:00Z`

func TestParseAirportCSV(t *testing.T) {
	rows, err := parseAirportCSV(strings.NewReader(airportCSV))
	require.NoError(t, err)
	require.Len(t, rows, 2, "rows without ident are skipped")

	dresden := rows[0]
	assert.Equal(t, "EDDC", dresden.Ident)
	assert.Equal(t, "EDDC", dresden.Code)
	assert.True(t, dresden.ScheduledService)
	require.NotNil(t, dresden.ElevationFt)
	assert.Equal(t, 755, *dresden.ElevationFt)
	require.NotNil(t, dresden.IATACode)
	assert.Equal(t, "DRS", *dresden.IATACode)
	assert.Equal(t, time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC), dresden.LastUpdated)
	assert.Equal(t, "SRID=4326;POINT(13.7672 51.1328)", dresden.EWKT())

	bautzen := rows[1]
	assert.False(t, bautzen.ScheduledService)
	assert.Nil(t, bautzen.ElevationFt)
	require.NotNil(t, bautzen.Keywords)
	assert.Equal(t, "airfield, glider", *bautzen.Keywords)
}

func TestParseAirportCSV_MissingColumnsFail(t *testing.T) {
	_, err := parseAirportCSV(strings.NewReader("id,name\n1,foo"))
	assert.ErrorIs(t, err, models.ErrMalformedRecord)
}

// syncRecorder implements SyncStore over the resolver test fake and
// records reference updates.
type syncRecorder struct {
	*fakeAirportStore
	updated []string
}

func (s *syncRecorder) AirportIdents() (map[string]bool, error) {
	idents := make(map[string]bool)
	for ident := range s.airports {
		idents[ident] = true
	}
	return idents, nil
}

func (s *syncRecorder) LatestAirportUpdate() (time.Time, error) {
	var latest time.Time
	for _, a := range s.airports {
		if a.LastUpdated.After(latest) {
			latest = a.LastUpdated
		}
	}
	return latest, nil
}

func (s *syncRecorder) UpdateAirportReference(a *models.Airport) error {
	s.updated = append(s.updated, a.Ident)
	return nil
}

func TestSync_InsertsNewAndUpdatesNewer(t *testing.T) {
	existing := testAirport("EDDC")
	existing.LastUpdated = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store := &syncRecorder{fakeAirportStore: newFakeAirportStore(existing)}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(airportCSV))
	}))
	defer srv.Close()

	syncer := NewSyncer(store, srv.URL, zerolog.Nop())
	require.NoError(t, syncer.Sync())

	// EDAB is new and inserted; EDDC exists with a newer CSV row.
	assert.Contains(t, store.airports, "EDAB")
	assert.Equal(t, []string{"EDDC"}, store.updated)
}
