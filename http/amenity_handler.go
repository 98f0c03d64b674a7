package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/yourorg/estimate-api/internal/amenity"
)

type AmenityDeps struct {
	Aggregator *amenity.Aggregator
}

func RegisterAmenity(r chi.Router, d AmenityDeps) {
	r.Get("/v1/places/nearby", func(w http.ResponseWriter, req *http.Request) {
		q := req.URL.Query()

		lat, latErr := strconv.ParseFloat(q.Get("lat"), 64)
		lon, lonErr := strconv.ParseFloat(q.Get("lon"), 64)
		if q.Get("lat") == "" || q.Get("lon") == "" || latErr != nil || lonErr != nil {
			writeError(w, req, http.StatusBadRequest, "latlon_required", "lat and lon query parameters are required")
			return
		}

		category := q.Get("type")
		if category == "" {
			category = "school"
		}
		radius := 0
		if v := q.Get("radius"); v != "" {
			if i, err := strconv.Atoi(v); err == nil {
				radius = i
			}
		}

		places := d.Aggregator.FindNearby(req.Context(), lat, lon, category, radius)
		render.JSON(w, req, map[string]any{"places": places})
	})
}
