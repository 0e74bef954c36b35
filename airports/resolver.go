package airports

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/rs/zerolog"

	"github.com/buehner/ivao-tracker/models"
)

// Store is the slice of the persistence layer the resolver needs. All
// lookups return models.ErrNotFound when no row matches.
type Store interface {
	AirportByCode(code string) (*models.Airport, error)
	AirportByGPSCode(code string) (*models.Airport, error)
	AirportByLocalCode(code string) (*models.Airport, error)
	AirportsByKeyword(id string) ([]*models.Airport, error)
	InsertAirport(a *models.Airport) error
	UpdateAirport(a *models.Airport) error
}

// codeFixes maps identifiers the feed is known to report against the
// wrong canonical code currently stored under that code, so the record
// can be found and its code corrected.
var codeFixes = map[string]string{
	"EGYP": "EGYP-old",
	"SPJC": "SPIM",
	"UTTP": "UTTT",
	"VOBZ": "VGBZ",
}

// correctCodes protects canonical codes that are confirmed right; a
// tier 2-5 match on such a record never reassigns its code.
var correctCodes = map[string]bool{
	"SPIM": true,
	"UTTT": true,
}

// Resolver maps loosely specified airport identifiers to canonical
// records. The memo cache is scoped to one reconciliation pass; the
// Resolver must not outlive the transaction it was created with.
type Resolver struct {
	store Store
	cache map[string]*models.Airport
	log   zerolog.Logger
}

func NewResolver(store Store, log zerolog.Logger) *Resolver {
	return &Resolver{
		store: store,
		cache: make(map[string]*models.Airport),
		log:   log,
	}
}

// Resolve returns the canonical airport for an identifier, walking the
// lookup tiers in order and synthesizing a placeholder when every tier
// misses. Repeated calls with the same identifier within a pass return
// the memoized record without touching the store.
func (r *Resolver) Resolve(id string) (*models.Airport, error) {
	if a, ok := r.cache[id]; ok {
		return a, nil
	}

	a, changed, err := r.lookup(id)
	if err != nil {
		return nil, err
	}

	if !a.IsUsed {
		a.IsUsed = true
		changed = true
	}
	if changed {
		if err := r.store.UpdateAirport(a); err != nil {
			return nil, fmt.Errorf("persisting airport %s: %w", a.Ident, err)
		}
	}

	r.cache[id] = a
	return a, nil
}

// lookup walks tiers 1-6. The returned bool reports whether the record
// was mutated and needs to be written back.
func (r *Resolver) lookup(id string) (*models.Airport, bool, error) {
	// Tier 1: exact canonical code.
	a, err := r.store.AirportByCode(id)
	if err == nil {
		return a, false, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, false, err
	}

	// Tier 2: gps_code covers most cases.
	a, err = r.store.AirportByGPSCode(id)
	if err == nil {
		return a, r.adopt(a, id, models.FixOriginGPSCode), nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, false, err
	}

	// Tier 3: local_code.
	a, err = r.store.AirportByLocalCode(id)
	if err == nil {
		return a, r.adopt(a, id, models.FixOriginLocalCode), nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, false, err
	}

	// Tier 4: known wrong codes.
	if wrong, ok := codeFixes[id]; ok {
		a, err = r.store.AirportByCode(wrong)
		if err == nil {
			return a, r.adopt(a, id, models.FixOriginCustomMapping), nil
		}
		if !errors.Is(err, models.ErrNotFound) {
			return nil, false, err
		}
	}

	// Tier 5: fuzzy match on the keywords field.
	candidates, err := r.store.AirportsByKeyword(id)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, false, err
	}
	for _, c := range candidates {
		if c.Keywords != nil && keywordsContain(id, *c.Keywords) {
			return c, r.adopt(c, id, models.FixOriginKeywords), nil
		}
	}

	// Tier 6: synthesize a placeholder so the next lookup hits tier 1.
	origin := models.FixOriginDummy
	keywords := "Dummy created by ivao-tracker"
	dummy := &models.Airport{
		Code:        id,
		Ident:       id,
		Keywords:    &keywords,
		IsFixed:     true,
		FixOrigin:   &origin,
		LastUpdated: time.Now().UTC(),
	}
	if err := r.store.InsertAirport(dummy); err != nil {
		return nil, false, fmt.Errorf("creating dummy airport %s: %w", id, err)
	}
	r.log.Warn().Str("identifier", id).Msg("no airport found, created dummy record")
	return dummy, false, nil
}

// adopt rewrites the canonical code of a record matched by tiers 2-5,
// unless the record is protected. Protected matches are returned
// unchanged; the conflict is logged, not raised.
func (r *Resolver) adopt(a *models.Airport, id string, origin models.FixOrigin) bool {
	switch {
	case correctCodes[a.Code]:
		r.log.Info().
			Str("code", a.Code).
			Str("identifier", id).
			Msg("airport code is known correct, keeping existing mapping")
	case a.IsUsed:
		r.log.Debug().
			Str("code", a.Code).
			Str("identifier", id).
			Str("origin", string(origin)).
			Msg("re-using already resolved airport")
	case !a.IsFixed:
		a.Code = id
		a.IsFixed = true
		a.FixOrigin = &origin
		r.log.Info().
			Str("identifier", id).
			Str("origin", string(origin)).
			Msg("fixed airport code")
		return true
	case a.Code != id:
		r.log.Debug().
			Str("code", a.Code).
			Str("identifier", id).
			Str("origin", string(origin)).
			Msg("re-using fixed airport code")
	}
	return false
}

var keywordPattern = `(^|\s|[,;])%s(\s|[,;]|$)`

// keywordsContain matches the identifier as a whole token bounded by
// whitespace, comma or semicolon, not as a raw substring.
func keywordsContain(id, keywords string) bool {
	re, err := regexp.Compile(fmt.Sprintf(keywordPattern, regexp.QuoteMeta(id)))
	if err != nil {
		return false
	}
	return re.MatchString(keywords)
}
