package httpapi

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/yourorg/estimate-api/internal/resolver"
)

type ResolveDeps struct {
	Resolver *resolver.Resolver
}

func RegisterResolve(r chi.Router, d ResolveDeps) {
	r.Get("/v1/locations/resolve", func(w http.ResponseWriter, req *http.Request) {
		location := req.URL.Query().Get("location")

		coords, source, err := d.Resolver.Resolve(req.Context(), location)
		switch {
		case errors.Is(err, resolver.ErrInvalidInput):
			writeError(w, req, http.StatusBadRequest, "location_required", "location query parameter is required")
			return
		case errors.Is(err, resolver.ErrNotFound):
			writeError(w, req, http.StatusNotFound, "not_found", "coordinates not found")
			return
		case err != nil:
			writeError(w, req, http.StatusInternalServerError, "resolve_error", err.Error())
			return
		}

		render.JSON(w, req, map[string]any{
			"lat":    coords.Lat,
			"lon":    coords.Lon,
			"source": string(source),
		})
	})
}
