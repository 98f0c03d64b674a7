// Package estimator assembles feature vectors per the model's column
// schema and produces price estimates, falling back to a deterministic
// heuristic when no trained artifact is loaded.
package estimator

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/yourorg/estimate-api/internal/logging"
	"github.com/yourorg/estimate-api/internal/metrics"
)

// ErrInvalidRequest marks a request that failed validation.
var ErrInvalidRequest = errors.New("invalid estimation request")

// Heuristic rates used when no model artifact is loaded.
const (
	heuristicSqftRate = 5000
	heuristicBHKRate  = 500000
)

// Request is one estimation input.
type Request struct {
	TotalSqft   float64 `json:"total_sqft" validate:"required,gt=0"`
	Location    string  `json:"location" validate:"required"`
	BHK         int     `json:"bhk" validate:"gte=0"`
	Bath        int     `json:"bath" validate:"gte=0"`
	PropertyAge int     `json:"property_age" validate:"gte=0"`
}

// Result carries the final price and the tier multiplier that was applied,
// so callers can show the adjustment transparently.
type Result struct {
	EstimatedPrice float64
	TierMultiplier float64
	// Mode records how the raw price was produced: "model" or "heuristic".
	Mode string
}

type Estimator struct {
	schema   *FeatureSchema
	model    Model
	tiers    map[string]float64
	validate *validator.Validate
	log      zerolog.Logger
}

// New builds an estimator. model may be nil (heuristic mode); tier keys are
// folded so matching is case-insensitive.
func New(schema *FeatureSchema, model Model, tiers map[string]float64) *Estimator {
	folded := make(map[string]float64, len(tiers))
	for name, mult := range tiers {
		folded[fold(name)] = mult
	}
	e := &Estimator{
		schema:   schema,
		model:    model,
		tiers:    folded,
		validate: validator.New(),
		log:      logging.Component("estimator"),
	}
	if model == nil {
		e.log.Warn().Msg("no model artifact loaded, estimates use the linear heuristic")
	}
	return e
}

// Estimate is a pure function of the request and the immutable loaded
// model/schema. It fails only on invalid input or an internal model error;
// unknown locations degrade to the model's implicit "other" bucket.
func (e *Estimator) Estimate(req Request) (Result, error) {
	if err := e.validate.Struct(req); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	var raw float64
	mode := "heuristic"
	if e.model != nil && e.schema != nil {
		x := e.featureVector(req)
		price, err := e.model.Predict(x)
		if err != nil {
			return Result{}, fmt.Errorf("model predict: %w", err)
		}
		raw = price
		mode = "model"
	} else {
		raw = req.TotalSqft*heuristicSqftRate + float64(req.BHK)*heuristicBHKRate
	}

	mult := 1.0
	if m, ok := e.tiers[fold(req.Location)]; ok {
		mult = m
	}
	final := math.Max(0, raw*mult)
	final = math.Round(final*100) / 100

	metrics.Estimates.WithLabelValues(mode).Inc()
	return Result{EstimatedPrice: final, TierMultiplier: mult, Mode: mode}, nil
}

// featureVector writes each fixed feature at its schema-assigned position
// and sets at most one location indicator. Positions come from the name
// lookup table only; the schema layout varies by model build.
func (e *Estimator) featureVector(req Request) []float64 {
	x := make([]float64, e.schema.Len())
	set := func(name string, v float64) {
		if i, ok := e.schema.FeatureIndex(name); ok {
			x[i] = v
		}
	}
	set(FeatureTotalSqft, req.TotalSqft)
	set(FeatureBath, float64(req.Bath))
	set(FeatureBHK, float64(req.BHK))
	set(FeaturePropertyAge, float64(req.PropertyAge))

	if i, ok := e.schema.LocationIndex(req.Location); ok {
		x[i] = 1
	}
	return x
}

// Locations exposes the schema's one-hot location names for the locations
// endpoint. Nil schema means no locations to offer.
func (e *Estimator) Locations() []string {
	if e.schema == nil {
		return nil
	}
	return e.schema.Locations()
}
