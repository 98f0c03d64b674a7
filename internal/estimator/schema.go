package estimator

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Fixed numeric feature names a schema may carry. Their vector positions
// are whatever the schema assigns, never assumed literal offsets: schemas
// from different model builds disagree on ordering and on whether
// property_age exists at all. Every column outside this set is a one-hot
// location indicator.
const (
	FeatureTotalSqft   = "total_sqft"
	FeatureBath        = "bath"
	FeatureBHK         = "bhk"
	FeaturePropertyAge = "property_age"
)

var fixedFeatures = map[string]struct{}{
	FeatureTotalSqft:   {},
	FeatureBath:        {},
	FeatureBHK:         {},
	FeaturePropertyAge: {},
}

// FeatureSchema is the ordered column list the trained model expects,
// with a name→index table built once so feature assembly never relies on
// positional assumptions.
type FeatureSchema struct {
	columns   []string
	index     map[string]int
	locations []string
}

// LoadSchema reads a columns file of the form {"data_columns": [...]}.
func LoadSchema(path string) (*FeatureSchema, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var root struct {
		DataColumns []string `json:"data_columns"`
	}
	if err := json.Unmarshal(b, &root); err != nil {
		return nil, fmt.Errorf("columns file %s: %w", path, err)
	}
	return NewSchema(root.DataColumns)
}

// NewSchema validates and indexes a column list.
func NewSchema(columns []string) (*FeatureSchema, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("feature schema is empty")
	}
	s := &FeatureSchema{
		columns: append([]string(nil), columns...),
		index:   make(map[string]int, len(columns)),
	}
	for i, col := range columns {
		key := fold(col)
		if _, dup := s.index[key]; dup {
			return nil, fmt.Errorf("feature schema has duplicate column %q", col)
		}
		s.index[key] = i
		if _, ok := fixedFeatures[key]; !ok {
			s.locations = append(s.locations, col)
		}
	}
	return s, nil
}

// Len is the feature vector length.
func (s *FeatureSchema) Len() int { return len(s.columns) }

// FeatureIndex returns the vector position of a fixed numeric feature,
// or ok=false when this schema was built without it.
func (s *FeatureSchema) FeatureIndex(name string) (int, bool) {
	key := fold(name)
	if _, isFixed := fixedFeatures[key]; !isFixed {
		return 0, false
	}
	i, ok := s.index[key]
	return i, ok
}

// LocationIndex returns the one-hot position for a location name,
// case-insensitively. Fixed feature names never match, so a location that
// happens to collide with a feature name cannot corrupt the vector.
func (s *FeatureSchema) LocationIndex(name string) (int, bool) {
	key := fold(name)
	if _, isFixed := fixedFeatures[key]; isFixed {
		return 0, false
	}
	i, ok := s.index[key]
	return i, ok
}

// Locations lists the one-hot columns in schema order.
func (s *FeatureSchema) Locations() []string {
	return append([]string(nil), s.locations...)
}

func fold(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
