package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/yourorg/estimate-api/internal/estimator"
)

type EstimateDeps struct {
	Estimator *estimator.Estimator
}

func RegisterEstimate(r chi.Router, d EstimateDeps) {
	r.Post("/v1/estimate", func(w http.ResponseWriter, req *http.Request) {
		var body estimator.Request
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeError(w, req, http.StatusBadRequest, "invalid_json", err.Error())
			return
		}

		result, err := d.Estimator.Estimate(body)
		switch {
		case errors.Is(err, estimator.ErrInvalidRequest):
			writeError(w, req, http.StatusBadRequest, "validation_failed", err.Error())
			return
		case err != nil:
			writeError(w, req, http.StatusInternalServerError, "estimate_error", err.Error())
			return
		}

		render.JSON(w, req, map[string]any{
			"estimated_price": result.EstimatedPrice,
			"details": map[string]any{
				"location_tier_mult": result.TierMultiplier,
			},
		})
	})
}
