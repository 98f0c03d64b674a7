package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpapi "github.com/yourorg/estimate-api/http"
	"github.com/yourorg/estimate-api/internal/amenity"
	"github.com/yourorg/estimate-api/internal/estimator"
	"github.com/yourorg/estimate-api/internal/heatmap"
	"github.com/yourorg/estimate-api/internal/resolver"
)

type AppDeps struct {
	Resolver   *resolver.Resolver
	Aggregator *amenity.Aggregator
	Estimator  *estimator.Estimator
	Heatmap    *heatmap.Snapshot
}

func BuildRouter(d AppDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(httprate.LimitByIP(100, 1*time.Minute)) // protect upstream quota
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Use(httpapi.RequestLogger)

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) { w.Write([]byte(`{"ok":true}`)) })
	r.Handle("/metrics", promhttp.Handler())

	httpapi.RegisterResolve(r, httpapi.ResolveDeps{Resolver: d.Resolver})
	httpapi.RegisterAmenity(r, httpapi.AmenityDeps{Aggregator: d.Aggregator})
	httpapi.RegisterEstimate(r, httpapi.EstimateDeps{Estimator: d.Estimator})
	httpapi.RegisterLocations(r, httpapi.LocationsDeps{Estimator: d.Estimator, Heatmap: d.Heatmap})

	return r
}
