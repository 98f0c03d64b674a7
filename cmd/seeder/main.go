// Command seeder bulk-resolves every schema location into the coordinate
// store, the offline equivalent of letting the cache warm up organically.
// Run it once after deploying a new model build.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yourorg/estimate-api/internal/config"
	"github.com/yourorg/estimate-api/internal/estimator"
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
		os.Exit(1)
	}
	logging.Init(cfg.Log)
	log := logging.Component("seeder-cli")

	if cfg.Database.URL == "" {
		log.Error().Msg("DATABASE_URL is required for seeding")
		os.Exit(1)
	}

	schema, err := estimator.LoadSchema(cfg.Model.ColumnsPath)
	if err != nil {
		log.Error().Err(err).Str("path", cfg.Model.ColumnsPath).Msg("cannot load feature schema")
		os.Exit(1)
	}

	st, err := store.Open(cfg.Database.URL)
	if err != nil {
		log.Error().Err(err).Msg("store open failed")
		os.Exit(1)
	}
	defer st.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	initCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	if err := st.Migrate(initCtx); err != nil {
		cancel()
		log.Error().Err(err).Msg("store migrate failed")
		os.Exit(1)
	}
	cancel()

	var cache *redisx.Client
	if cfg.Redis.Addr != "" {
		cache = redisx.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	}

	nominatim := osm.NewNominatim(osm.NominatimOptions{
		BaseURL:    cfg.Geocode.BaseURL,
		UserAgent:  cfg.Geocode.UserAgent,
		Timeout:    cfg.Geocode.Timeout,
		RatePerSec: cfg.Geocode.RatePerSec,
	})
	res := resolver.New(st, cacheOrNil(cache), nominatim, nil, resolver.Config{
		RegionSuffix: cfg.Geocode.RegionSuffix,
		CacheTTL:     cfg.Geocode.CacheTTL,
		NegativeTTL:  cfg.Geocode.NegativeTTL,
	})

	names := schema.Locations()
	log.Info().Int("locations", len(names)).Msg("starting seed pass")
	resolved := seeder.New(res, cfg.Seeder.Workers).Run(ctx, names)
	log.Info().Int("resolved", resolved).Int("total", len(names)).Msg("seed pass finished")
}

// cacheOrNil avoids handing the resolver a typed-nil interface value.
func cacheOrNil(c *redisx.Client) resolver.CoordCache {
	if c == nil {
		return nil
	}
	return c
}
