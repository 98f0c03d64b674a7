package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/yourorg/estimate-api/internal/estimator"
	"github.com/yourorg/estimate-api/internal/heatmap"
)

type LocationsDeps struct {
	Estimator *estimator.Estimator
	Heatmap   *heatmap.Snapshot
}

func RegisterLocations(r chi.Router, d LocationsDeps) {
	// The schema's one-hot location names, for frontend dropdowns.
	r.Get("/v1/locations", func(w http.ResponseWriter, req *http.Request) {
		locations := d.Estimator.Locations()
		if locations == nil {
			locations = []string{}
		}
		render.JSON(w, req, map[string]any{"locations": locations})
	})

	r.Get("/v1/heatmap", func(w http.ResponseWriter, req *http.Request) {
		render.JSON(w, req, map[string]any{"points": d.Heatmap.Points()})
	})
}
