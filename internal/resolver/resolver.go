// Package resolver turns free-text location names into coordinates using a
// cache-then-fallback chain: Redis hot cache, Postgres store, then the
// external geocoder. Provider failures never escape; they collapse into
// ErrNotFound after the chain is exhausted.
package resolver

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/yourorg/estimate-api/internal/events"
	"github.com/yourorg/estimate-api/internal/logging"
	"github.com/yourorg/estimate-api/internal/metrics"
	"github.com/yourorg/estimate-api/internal/redisx"
	"github.com/yourorg/estimate-api/internal/store"
	"github.com/yourorg/estimate-api/osm"
)

var (
	// ErrInvalidInput marks an empty location after normalization.
	ErrInvalidInput = errors.New("location required")
	// ErrNotFound means no cache tier and no provider produced coordinates.
	ErrNotFound = errors.New("coordinates not found")
)

// Source records where a resolution came from.
type Source string

const (
	SourceCache    Source = "cache"
	SourceProvider Source = "provider"
)

type Coordinates struct {
	Lat float64
	Lon float64
}

// LocationStore is the persistence collaborator. Lookup returns (nil, nil)
// on absence; insert reports whether a row was actually written.
type LocationStore interface {
	LookupLocation(ctx context.Context, name string) (*store.Location, error)
	InsertLocationIfAbsent(ctx context.Context, name string, lat, lon float64) (bool, error)
}

// Geocoder is the external provider collaborator.
type Geocoder interface {
	Geocode(ctx context.Context, query string, limit int) ([]osm.GeocodeResult, error)
}

// CoordCache is the hot-cache collaborator, implemented by *redisx.Client.
// It carries both positive entries and the negative-cache miss keys that
// keep unresolvable names from hammering the provider.
type CoordCache interface {
	GetCoords(ctx context.Context, name string) (*redisx.Coords, error)
	SetCoords(ctx context.Context, name string, coords redisx.Coords, ttl time.Duration) error
	MarkMiss(ctx context.Context, name string, ttl time.Duration) error
	IsMiss(ctx context.Context, name string) bool
}

type Config struct {
	// RegionSuffix is appended to provider queries to disambiguate bare
	// neighbourhood names, e.g. "Bangalore, India".
	RegionSuffix string
	CacheTTL     time.Duration
	NegativeTTL  time.Duration
}

type Resolver struct {
	store    LocationStore
	cache    CoordCache
	geocoder Geocoder
	pub      events.Publisher
	cfg      Config
	log      zerolog.Logger
}

// New builds a resolver. store, cache and pub may each be nil; the chain
// simply skips the missing tier.
func New(st LocationStore, cache CoordCache, geocoder Geocoder, pub events.Publisher, cfg Config) *Resolver {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 24 * time.Hour
	}
	if cfg.NegativeTTL <= 0 {
		cfg.NegativeTTL = 15 * time.Minute
	}
	return &Resolver{
		store:    st,
		cache:    cache,
		geocoder: geocoder,
		pub:      pub,
		cfg:      cfg,
		log:      logging.Component("resolver"),
	}
}

// Normalize trims and case-folds a location name. All cache keys and
// store rows use the normalized form, so "Koramangala", " koramangala "
// and "KORAMANGALA" share one row.
func Normalize(location string) string {
	return strings.ToLower(strings.TrimSpace(location))
}

// Resolve maps a location name to coordinates. Exactly one external
// geocoding attempt is made per call; on success the result is written
// back with insert-if-absent semantics so concurrent duplicate
// resolutions stay idempotent.
func (r *Resolver) Resolve(ctx context.Context, location string) (Coordinates, Source, error) {
	name := Normalize(location)
	if name == "" {
		return Coordinates{}, "", ErrInvalidInput
	}

	if r.cache != nil {
		if c, err := r.cache.GetCoords(ctx, name); err == nil && c != nil {
			metrics.CoordinateCacheHits.WithLabelValues("redis").Inc()
			return Coordinates{Lat: c.Lat, Lon: c.Lon}, SourceCache, nil
		} else if err != nil {
			r.log.Warn().Err(err).Str("location", name).Msg("redis read failed, falling through")
		}
		if r.cache.IsMiss(ctx, name) {
			return Coordinates{}, "", ErrNotFound
		}
	}

	if r.store != nil {
		loc, err := r.store.LookupLocation(ctx, name)
		if err != nil {
			r.log.Warn().Err(err).Str("location", name).Msg("store lookup failed, falling through")
		} else if loc != nil {
			metrics.CoordinateCacheHits.WithLabelValues("db").Inc()
			r.warmCache(ctx, name, loc.Latitude, loc.Longitude)
			return Coordinates{Lat: loc.Latitude, Lon: loc.Longitude}, SourceCache, nil
		}
	}

	metrics.CoordinateCacheMisses.Inc()
	coords, ok := r.geocode(ctx, name)
	if !ok {
		if r.cache != nil {
			if err := r.cache.MarkMiss(ctx, name, r.cfg.NegativeTTL); err != nil {
				r.log.Warn().Err(err).Str("location", name).Msg("negative cache write failed")
			}
		}
		return Coordinates{}, "", ErrNotFound
	}

	r.writeBack(ctx, name, coords)
	return coords, SourceProvider, nil
}

// geocode makes the single provider attempt. Transport errors, bad
// payloads and empty result sets all report !ok; the distinction only
// matters for logs.
func (r *Resolver) geocode(ctx context.Context, name string) (Coordinates, bool) {
	query := name
	if r.cfg.RegionSuffix != "" {
		query = name + ", " + r.cfg.RegionSuffix
	}
	results, err := r.geocoder.Geocode(ctx, query, 1)
	if err != nil {
		metrics.GeocodeRequests.WithLabelValues("error").Inc()
		r.log.Warn().Err(err).Str("location", name).Msg("geocode failed")
		return Coordinates{}, false
	}
	if len(results) == 0 {
		metrics.GeocodeRequests.WithLabelValues("empty").Inc()
		return Coordinates{}, false
	}
	metrics.GeocodeRequests.WithLabelValues("ok").Inc()
	// Highest-ranked match only; no disambiguation pass.
	return Coordinates{Lat: results[0].Lat, Lon: results[0].Lon}, true
}

func (r *Resolver) writeBack(ctx context.Context, name string, coords Coordinates) {
	if r.store != nil {
		inserted, err := r.store.InsertLocationIfAbsent(ctx, name, coords.Lat, coords.Lon)
		if err != nil {
			// A failed write-back loses nothing but cache warmth.
			r.log.Warn().Err(err).Str("location", name).Msg("coordinate write-back failed")
		} else if inserted {
			r.log.Info().Str("location", name).Msg("cached new location")
		}
	}
	r.warmCache(ctx, name, coords.Lat, coords.Lon)
	if r.pub != nil {
		r.pub.PublishLocationResolved(ctx, events.LocationResolved{
			Name:      name,
			Latitude:  coords.Lat,
			Longitude: coords.Lon,
		})
	}
}

func (r *Resolver) warmCache(ctx context.Context, name string, lat, lon float64) {
	if r.cache == nil {
		return
	}
	if err := r.cache.SetCoords(ctx, name, redisx.Coords{Lat: lat, Lon: lon}, r.cfg.CacheTTL); err != nil {
		r.log.Warn().Err(err).Str("location", name).Msg("redis write failed")
	}
}
