package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/buehner/ivao-tracker/models"
)

const airportColumns = `
	code, ident, type, name, elevation_ft, continent, iso_country,
	iso_region, municipality, scheduled_service, gps_code, icao_code,
	iata_code, local_code, keywords, score,
	ST_X(geom), ST_Y(geom), is_fixed, fix_origin, is_used, last_updated`

func scanAirport(row interface{ Scan(...any) error }) (*models.Airport, error) {
	var a models.Airport
	var lastUpdated sql.NullTime
	err := row.Scan(
		&a.Code, &a.Ident, &a.Type, &a.Name, &a.ElevationFt, &a.Continent,
		&a.ISOCountry, &a.ISORegion, &a.Municipality, &a.ScheduledService,
		&a.GPSCode, &a.ICAOCode, &a.IATACode, &a.LocalCode, &a.Keywords,
		&a.Score, &a.Longitude, &a.Latitude, &a.IsFixed, &a.FixOrigin,
		&a.IsUsed, &lastUpdated,
	)
	if err != nil {
		return nil, err
	}
	if lastUpdated.Valid {
		a.LastUpdated = lastUpdated.Time
	}
	return &a, nil
}

func airportByColumn(q querier, column, value string) (*models.Airport, error) {
	row := q.QueryRow(`SELECT `+airportColumns+` FROM airports WHERE `+column+` = $1 LIMIT 1`, value)
	a, err := scanAirport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: airport by %s %q: %w", column, value, err)
	}
	return a, nil
}

func (t *Tx) AirportByCode(code string) (*models.Airport, error) {
	return airportByColumn(t.tx, "code", code)
}

func (t *Tx) AirportByGPSCode(code string) (*models.Airport, error) {
	return airportByColumn(t.tx, "gps_code", code)
}

func (t *Tx) AirportByLocalCode(code string) (*models.Airport, error) {
	return airportByColumn(t.tx, "local_code", code)
}

// AirportByCode on the non-transactional store serves the status API.
func (s *Store) AirportByCode(code string) (*models.Airport, error) {
	return airportByColumn(s.db, "code", code)
}

// AirportsByKeyword prefilters candidates by substring; the resolver
// applies the exact token-boundary match on the result.
func (t *Tx) AirportsByKeyword(id string) ([]*models.Airport, error) {
	rows, err := t.tx.Query(`
		SELECT `+airportColumns+` FROM airports
		WHERE keywords LIKE '%' || $1 || '%'
	`, id)
	if err != nil {
		return nil, fmt.Errorf("store: airports by keyword %q: %w", id, err)
	}
	defer rows.Close()

	var airports []*models.Airport
	for rows.Next() {
		a, err := scanAirport(rows)
		if err != nil {
			return nil, fmt.Errorf("store: scan airport: %w", err)
		}
		airports = append(airports, a)
	}
	return airports, rows.Err()
}

func insertAirport(q querier, a *models.Airport) error {
	_, err := q.Exec(`
		INSERT INTO airports (
			code, ident, type, name, elevation_ft, continent, iso_country,
			iso_region, municipality, scheduled_service, gps_code, icao_code,
			iata_code, local_code, keywords, score, geom,
			is_fixed, fix_origin, is_used, last_updated
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, ST_GeomFromEWKT(NULLIF($17, '')), $18, $19, $20, $21
		)
	`, a.Code, a.Ident, a.Type, a.Name, a.ElevationFt, a.Continent,
		a.ISOCountry, a.ISORegion, a.Municipality, a.ScheduledService,
		a.GPSCode, a.ICAOCode, a.IATACode, a.LocalCode, a.Keywords, a.Score,
		a.EWKT(), a.IsFixed, a.FixOrigin, a.IsUsed, a.LastUpdated)
	if err != nil {
		return fmt.Errorf("store: insert airport %s: %w", a.Ident, err)
	}
	return nil
}

func (t *Tx) InsertAirport(a *models.Airport) error {
	return insertAirport(t.tx, a)
}

func (s *Store) InsertAirport(a *models.Airport) error {
	return insertAirport(s.db, a)
}

// UpdateAirport writes back a record mutated by the resolver. Keyed by
// ident, which never changes, so canonical code rewrites are covered.
func (t *Tx) UpdateAirport(a *models.Airport) error {
	_, err := t.tx.Exec(`
		UPDATE airports SET
			code = $2, is_fixed = $3, fix_origin = $4, is_used = $5
		WHERE ident = $1
	`, a.Ident, a.Code, a.IsFixed, a.FixOrigin, a.IsUsed)
	if err != nil {
		return fmt.Errorf("store: update airport %s: %w", a.Ident, err)
	}
	return nil
}

// UpdateAirportReference refreshes the reference-data columns from a
// newer CSV row. The canonical code and the fix provenance are owned by
// the resolver and deliberately left alone.
func (s *Store) UpdateAirportReference(a *models.Airport) error {
	_, err := s.db.Exec(`
		UPDATE airports SET
			type = $2, name = $3, elevation_ft = $4, continent = $5,
			iso_country = $6, iso_region = $7, municipality = $8,
			scheduled_service = $9, gps_code = $10, icao_code = $11,
			iata_code = $12, local_code = $13, keywords = $14, score = $15,
			geom = ST_GeomFromEWKT(NULLIF($16, '')), last_updated = $17
		WHERE ident = $1
	`, a.Ident, a.Type, a.Name, a.ElevationFt, a.Continent, a.ISOCountry,
		a.ISORegion, a.Municipality, a.ScheduledService, a.GPSCode,
		a.ICAOCode, a.IATACode, a.LocalCode, a.Keywords, a.Score,
		a.EWKT(), a.LastUpdated)
	if err != nil {
		return fmt.Errorf("store: update airport reference %s: %w", a.Ident, err)
	}
	return nil
}

func (s *Store) AirportIdents() (map[string]bool, error) {
	rows, err := s.db.Query(`SELECT ident FROM airports`)
	if err != nil {
		return nil, fmt.Errorf("store: query airport idents: %w", err)
	}
	defer rows.Close()

	idents := make(map[string]bool)
	for rows.Next() {
		var ident string
		if err := rows.Scan(&ident); err != nil {
			return nil, fmt.Errorf("store: scan airport ident: %w", err)
		}
		idents[ident] = true
	}
	return idents, rows.Err()
}

func (s *Store) LatestAirportUpdate() (time.Time, error) {
	var latest sql.NullTime
	err := s.db.QueryRow(`SELECT MAX(last_updated) FROM airports`).Scan(&latest)
	if err != nil {
		return time.Time{}, fmt.Errorf("store: latest airport update: %w", err)
	}
	if !latest.Valid {
		return time.Time{}, nil
	}
	return latest.Time, nil
}
