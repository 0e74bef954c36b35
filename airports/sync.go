package airports

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/buehner/ivao-tracker/models"
)

// SyncStore is the persistence slice used by the reference-data sync.
type SyncStore interface {
	AirportIdents() (map[string]bool, error)
	LatestAirportUpdate() (time.Time, error)
	InsertAirport(a *models.Airport) error
	UpdateAirportReference(a *models.Airport) error
}

// Syncer refreshes the airport reference data from a CSV export. It
// inserts rows with unknown idents and updates known idents whose
// last_updated is newer than anything stored, never touching the
// canonical code of an existing record.
type Syncer struct {
	store  SyncStore
	url    string
	client *http.Client
	log    zerolog.Logger
}

func NewSyncer(store SyncStore, url string, log zerolog.Logger) *Syncer {
	return &Syncer{
		store: store,
		url:   url,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
		log: log,
	}
}

func (s *Syncer) Sync() error {
	start := time.Now()

	resp, err := s.client.Get(s.url)
	if err != nil {
		return fmt.Errorf("fetching airport csv: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetching airport csv: unexpected status %s", resp.Status)
	}

	rows, err := parseAirportCSV(resp.Body)
	if err != nil {
		return err
	}

	existing, err := s.store.AirportIdents()
	if err != nil {
		return err
	}
	latest, err := s.store.LatestAirportUpdate()
	if err != nil {
		return err
	}

	var added, updated int
	for _, a := range rows {
		if !existing[a.Ident] {
			if err := s.store.InsertAirport(a); err != nil {
				return fmt.Errorf("adding airport %s: %w", a.Ident, err)
			}
			added++
			continue
		}
		if a.LastUpdated.After(latest) {
			if err := s.store.UpdateAirportReference(a); err != nil {
				return fmt.Errorf("updating airport %s: %w", a.Ident, err)
			}
			updated++
		}
	}

	s.log.Info().
		Int("added", added).
		Int("updated", updated).
		Dur("took", time.Since(start)).
		Msg("synced airports")
	return nil
}

// parseAirportCSV reads an OurAirports-style CSV export into airport
// records keyed by ident. Rows without ident or last_updated are
// skipped, not fatal.
func parseAirportCSV(r io.Reader) ([]*models.Airport, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = false

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading airport csv header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{"ident", "last_updated"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("%w: airport csv without %q column", models.ErrMalformedRecord, required)
		}
	}

	field := func(rec []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}
	optional := func(rec []string, name string) *string {
		v := field(rec, name)
		if v == "" {
			return nil
		}
		return &v
	}

	var airports []*models.Airport
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading airport csv: %w", err)
		}

		ident := field(rec, "ident")
		if ident == "" {
			continue
		}
		lastUpdated, err := time.Parse(time.RFC3339, field(rec, "last_updated"))
		if err != nil {
			continue
		}

		a := &models.Airport{
			Code:             ident,
			Ident:            ident,
			Type:             optional(rec, "type"),
			Name:             optional(rec, "name"),
			Continent:        optional(rec, "continent"),
			ISOCountry:       optional(rec, "iso_country"),
			ISORegion:        optional(rec, "iso_region"),
			Municipality:     optional(rec, "municipality"),
			ScheduledService: parseCSVBool(field(rec, "scheduled_service")),
			GPSCode:          optional(rec, "gps_code"),
			ICAOCode:         optional(rec, "icao_code"),
			IATACode:         optional(rec, "iata_code"),
			LocalCode:        optional(rec, "local_code"),
			Keywords:         optional(rec, "keywords"),
			LastUpdated:      lastUpdated.UTC(),
		}
		if v := field(rec, "elevation_ft"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				a.ElevationFt = &n
			}
		}
		if v := field(rec, "score"); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				a.Score = &f
			}
		}
		if lat := field(rec, "latitude_deg"); lat != "" {
			if lon := field(rec, "longitude_deg"); lon != "" {
				latF, latErr := strconv.ParseFloat(lat, 64)
				lonF, lonErr := strconv.ParseFloat(lon, 64)
				if latErr == nil && lonErr == nil {
					a.Latitude = &latF
					a.Longitude = &lonF
				}
			}
		}

		airports = append(airports, a)
	}

	return airports, nil
}

func parseCSVBool(s string) bool {
	switch strings.ToLower(s) {
	case "1", "yes", "true":
		return true
	}
	return false
}
