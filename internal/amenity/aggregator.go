// Package amenity discovers nearby points of interest. The primary
// provider is Overpass, tried mirror by mirror in configured order; only
// when every mirror is exhausted does the aggregator fall back to a
// bounded Nominatim text search. No outcome is an error to the caller:
// the worst case is an empty list.
package amenity

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/yourorg/estimate-api/internal/logging"
	"github.com/yourorg/estimate-api/internal/metrics"
	"github.com/yourorg/estimate-api/osm"
)

// viewboxDelta is the half-size in degrees of the fallback search box.
const viewboxDelta = 0.02

// fallbackLimit bounds the secondary provider's result count.
const fallbackLimit = 20

// StructuredProvider is the Overpass-shaped collaborator.
type StructuredProvider interface {
	Mirrors() []string
	Query(ctx context.Context, endpoint, filter string, lat, lon float64, radiusMeters int) ([]osm.Element, error)
}

// TextSearchProvider is the less precise free-text fallback.
type TextSearchProvider interface {
	SearchViewbox(ctx context.Context, query string, lat, lon, delta float64, limit int) ([]osm.GeocodeResult, error)
}

type Config struct {
	DefaultRadiusMeters int
	MaxRadiusMeters     int
}

type Aggregator struct {
	primary   StructuredProvider
	secondary TextSearchProvider
	breakers  map[string]*gobreaker.CircuitBreaker[[]osm.Element]
	cfg       Config
	log       zerolog.Logger
}

func New(primary StructuredProvider, secondary TextSearchProvider, cfg Config) *Aggregator {
	if cfg.DefaultRadiusMeters <= 0 {
		cfg.DefaultRadiusMeters = 2000
	}
	if cfg.MaxRadiusMeters <= 0 {
		cfg.MaxRadiusMeters = 10000
	}
	a := &Aggregator{
		primary:   primary,
		secondary: secondary,
		breakers:  make(map[string]*gobreaker.CircuitBreaker[[]osm.Element]),
		cfg:       cfg,
		log:       logging.Component("amenity"),
	}
	for _, endpoint := range primary.Mirrors() {
		a.breakers[endpoint] = newMirrorBreaker(endpoint, a.log)
	}
	return a
}

// newMirrorBreaker guards one Overpass mirror. An open breaker makes the
// aggregator skip straight to the next mirror instead of burning the
// request timeout on a host that is known to be down.
func newMirrorBreaker(endpoint string, log zerolog.Logger) *gobreaker.CircuitBreaker[[]osm.Element] {
	return gobreaker.NewCircuitBreaker[[]osm.Element](gobreaker.Settings{
		Name: endpoint,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Info().Str("endpoint", name).Str("from", from.String()).Str("to", to.String()).Msg("mirror breaker state change")
		},
	})
}

// FindNearby returns points of interest within radiusMeters of the point.
// radiusMeters <= 0 uses the configured default; oversized radii are
// clamped. The returned slice is never nil.
func (a *Aggregator) FindNearby(ctx context.Context, lat, lon float64, category string, radiusMeters int) []osm.Place {
	if radiusMeters <= 0 {
		radiusMeters = a.cfg.DefaultRadiusMeters
	}
	if radiusMeters > a.cfg.MaxRadiusMeters {
		radiusMeters = a.cfg.MaxRadiusMeters
	}
	filter := osm.BuildFilter(category)

	// Mirrors strictly in configured order, short-circuiting on the first
	// endpoint producing at least one usable element.
	for _, endpoint := range a.primary.Mirrors() {
		els, err := a.queryMirror(ctx, endpoint, filter, lat, lon, radiusMeters)
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				a.log.Debug().Str("endpoint", endpoint).Msg("mirror breaker open, skipping")
			} else {
				a.log.Warn().Err(err).Str("endpoint", endpoint).Msg("mirror query failed")
			}
			continue
		}
		if places := osm.MapElements(els, category); len(places) > 0 {
			return places
		}
	}

	metrics.AmenityFallbacks.Inc()
	results, err := a.secondary.SearchViewbox(ctx, category, lat, lon, viewboxDelta, fallbackLimit)
	if err != nil {
		a.log.Warn().Err(err).Str("category", category).Msg("fallback text search failed")
		return []osm.Place{}
	}
	return osm.MapGeocodeResults(results, category)
}

func (a *Aggregator) queryMirror(ctx context.Context, endpoint, filter string, lat, lon float64, radiusMeters int) ([]osm.Element, error) {
	cb, ok := a.breakers[endpoint]
	if !ok {
		// Mirror list changed under us; query unguarded.
		return a.primary.Query(ctx, endpoint, filter, lat, lon, radiusMeters)
	}
	return cb.Execute(func() ([]osm.Element, error) {
		return a.primary.Query(ctx, endpoint, filter, lat, lon, radiusMeters)
	})
}
