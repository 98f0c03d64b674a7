package estimator

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrModelUnavailable marks a missing model artifact. Callers degrade to
// the heuristic estimator instead of failing.
var ErrModelUnavailable = errors.New("model artifact unavailable")

// Model is the trained regression artifact. The feature vector must follow
// the FeatureSchema the artifact was built with.
type Model interface {
	Predict(features []float64) (float64, error)
}

// LinearModel is the serialized artifact format: an intercept plus one
// coefficient per schema column.
type LinearModel struct {
	Intercept    float64   `json:"intercept"`
	Coefficients []float64 `json:"coefficients"`
}

func (m *LinearModel) Predict(features []float64) (float64, error) {
	if len(features) != len(m.Coefficients) {
		return 0, fmt.Errorf("feature vector length %d, model expects %d", len(features), len(m.Coefficients))
	}
	sum := m.Intercept
	for i, f := range features {
		sum += f * m.Coefficients[i]
	}
	return sum, nil
}

// LoadModel reads the artifact and checks it against the schema it is
// paired with. A missing file is ErrModelUnavailable, not a hard failure.
func LoadModel(path string, schema *FeatureSchema) (Model, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrModelUnavailable
		}
		return nil, err
	}
	var m LinearModel
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("model file %s: %w", path, err)
	}
	if schema != nil && len(m.Coefficients) != schema.Len() {
		return nil, fmt.Errorf("model has %d coefficients, schema has %d columns", len(m.Coefficients), schema.Len())
	}
	return &m, nil
}
