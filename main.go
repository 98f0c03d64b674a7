package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/yourorg/estimate-api/internal/amenity"
	"github.com/yourorg/estimate-api/internal/config"
	"github.com/yourorg/estimate-api/internal/estimator"
	"github.com/yourorg/estimate-api/internal/events"
	"github.com/yourorg/estimate-api/internal/heatmap"
	"github.com/yourorg/estimate-api/internal/logging"
	"github.com/yourorg/estimate-api/internal/redisx"
	"github.com/yourorg/estimate-api/internal/resolver"
	"github.com/yourorg/estimate-api/internal/seeder"
	"github.com/yourorg/estimate-api/internal/store"
	"github.com/yourorg/estimate-api/osm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Error().Err(err).Msg("configuration error")
		return
	}
	logging.Init(cfg.Log)
	log := logging.Component("main")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Model artifacts load before anything else; a missing artifact is a
	// degradation, not a boot failure.
	var schema *estimator.FeatureSchema
	var model estimator.Model
	if cfg.Model.ColumnsPath != "" {
		schema, err = estimator.LoadSchema(cfg.Model.ColumnsPath)
		if err != nil {
			log.Warn().Err(err).Str("path", cfg.Model.ColumnsPath).Msg("feature schema unavailable")
			schema = nil
		}
	}
	if schema != nil && cfg.Model.Path != "" {
		model, err = estimator.LoadModel(cfg.Model.Path, schema)
		if err != nil {
			if !errors.Is(err, estimator.ErrModelUnavailable) {
				log.Error().Err(err).Str("path", cfg.Model.Path).Msg("model artifact rejected")
				return
			}
			log.Warn().Str("path", cfg.Model.Path).Msg("model artifact missing, heuristic estimation enabled")
			model = nil
		}
	}

	var st *store.Store
	if cfg.Database.URL != "" {
		st, err = store.Open(cfg.Database.URL)
		if err != nil {
			log.Error().Err(err).Msg("store open failed")
			return
		}
		defer st.Close()
		initCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		if err := st.Migrate(initCtx); err != nil {
			cancel()
			log.Error().Err(err).Msg("store migrate failed")
			return
		}
		cancel()
	} else {
		log.Warn().Msg("no DATABASE_URL, coordinate cache runs provider-only")
	}

	var cache *redisx.Client
	if cfg.Redis.Addr != "" {
		cache = redisx.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := cache.Ping(pingCtx); err != nil {
			log.Warn().Err(err).Msg("redis unreachable, continuing without hot cache")
			cache = nil
		}
		cancel()
	}

	nominatim := osm.NewNominatim(osm.NominatimOptions{
		BaseURL:    cfg.Geocode.BaseURL,
		UserAgent:  cfg.Geocode.UserAgent,
		Timeout:    cfg.Geocode.Timeout,
		RatePerSec: cfg.Geocode.RatePerSec,
	})
	overpass := osm.NewOverpass(osm.OverpassOptions{
		Mirrors:    cfg.Overpass.Mirrors,
		Timeout:    cfg.Overpass.Timeout,
		MaxResults: cfg.Overpass.MaxResults,
	})

	pub := events.NewInMemory(256)
	res := resolver.New(storeOrNil(st), cacheOrNil(cache), nominatim, pub, resolver.Config{
		RegionSuffix: cfg.Geocode.RegionSuffix,
		CacheTTL:     cfg.Geocode.CacheTTL,
		NegativeTTL:  cfg.Geocode.NegativeTTL,
	})
	agg := amenity.New(overpass, nominatim, amenity.Config{
		DefaultRadiusMeters: cfg.Amenity.DefaultRadiusMeters,
		MaxRadiusMeters:     cfg.Amenity.MaxRadiusMeters,
	})
	est := estimator.New(schema, model, cfg.Tiers)

	snap := heatmap.New(pub)
	warmCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	snap.Warm(warmCtx, st)
	cancel()
	go snap.Run(ctx)

	if cfg.Seeder.Enabled && schema != nil {
		go runSeeder(ctx, cache, res, schema, cfg.Seeder.Workers)
	}

	router := BuildRouter(AppDeps{
		Resolver:   res,
		Aggregator: agg,
		Estimator:  est,
		Heatmap:    snap,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutCtx)
	}()

	log.Info().Int("port", cfg.Port).Msg("estimate-api listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("server error")
	}
}

// runSeeder warms the coordinate cache for every schema location. The
// Redis lock keeps multiple replicas from racing through the same pass.
func runSeeder(ctx context.Context, cache *redisx.Client, res *resolver.Resolver, schema *estimator.FeatureSchema, workers int) {
	log := logging.Component("main")
	ok, err := cache.AcquireLock(ctx, "seed", time.Hour)
	if err != nil {
		log.Warn().Err(err).Msg("seed lock check failed")
		return
	}
	if !ok {
		log.Info().Msg("seed pass already running elsewhere")
		return
	}
	seeder.New(res, workers).Run(ctx, schema.Locations())
}

// storeOrNil avoids handing the resolver a typed-nil interface value.
func storeOrNil(st *store.Store) resolver.LocationStore {
	if st == nil {
		return nil
	}
	return st
}

func cacheOrNil(c *redisx.Client) resolver.CoordCache {
	if c == nil {
		return nil
	}
	return c
}
