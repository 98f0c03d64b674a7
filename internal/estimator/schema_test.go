package estimator

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewSchema_Indexing(t *testing.T) {
	s := mustSchema(t, []string{"total_sqft", "bath", "bhk", "hebbal", "jp nagar"})

	if s.Len() != 5 {
		t.Fatalf("Len = %d, want 5", s.Len())
	}
	if i, ok := s.FeatureIndex("bath"); !ok || i != 1 {
		t.Errorf("FeatureIndex(bath) = %d,%v", i, ok)
	}
	if _, ok := s.FeatureIndex("property_age"); ok {
		t.Error("property_age should be absent in this schema")
	}
	if i, ok := s.LocationIndex("Hebbal"); !ok || i != 3 {
		t.Errorf("LocationIndex(Hebbal) = %d,%v", i, ok)
	}
	if i, ok := s.LocationIndex("JP NAGAR"); !ok || i != 4 {
		t.Errorf("LocationIndex(JP NAGAR) = %d,%v", i, ok)
	}
	// A fixed feature name must never be treated as a location.
	if _, ok := s.LocationIndex("total_sqft"); ok {
		t.Error("LocationIndex(total_sqft) should not match")
	}

	locs := s.Locations()
	if len(locs) != 2 || locs[0] != "hebbal" || locs[1] != "jp nagar" {
		t.Errorf("Locations = %v", locs)
	}
}

func TestNewSchema_Errors(t *testing.T) {
	if _, err := NewSchema(nil); err == nil {
		t.Error("empty schema should fail")
	}
	if _, err := NewSchema([]string{"total_sqft", "bath", "Total_Sqft"}); err == nil {
		t.Error("duplicate column (case-insensitive) should fail")
	}
}

func TestLoadSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "columns.json")
	content := `{"data_columns": ["total_sqft", "bath", "bhk", "indiranagar"]}`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	s, err := LoadSchema(path)
	if err != nil {
		t.Fatalf("LoadSchema: %v", err)
	}
	if s.Len() != 4 {
		t.Errorf("Len = %d, want 4", s.Len())
	}
}

func TestLoadModel(t *testing.T) {
	schema := mustSchema(t, []string{"total_sqft", "bath", "bhk"})

	dir := t.TempDir()
	path := filepath.Join(dir, "model.json")
	if err := os.WriteFile(path, []byte(`{"intercept": 10, "coefficients": [2, 3, 4]}`), 0o600); err != nil {
		t.Fatal(err)
	}

	m, err := LoadModel(path, schema)
	if err != nil {
		t.Fatalf("LoadModel: %v", err)
	}
	got, err := m.Predict([]float64{1, 1, 1})
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if got != 19 {
		t.Errorf("Predict = %v, want 19", got)
	}

	if _, err := m.Predict([]float64{1, 1}); err == nil {
		t.Error("short vector should fail")
	}
}

func TestLoadModel_Missing(t *testing.T) {
	schema := mustSchema(t, []string{"total_sqft", "bath", "bhk"})
	if _, err := LoadModel(filepath.Join(t.TempDir(), "absent.json"), schema); err != ErrModelUnavailable {
		t.Errorf("expected ErrModelUnavailable, got %v", err)
	}
}

func TestLoadModel_CoefficientMismatch(t *testing.T) {
	schema := mustSchema(t, []string{"total_sqft", "bath", "bhk"})
	path := filepath.Join(t.TempDir(), "model.json")
	if err := os.WriteFile(path, []byte(`{"intercept": 0, "coefficients": [1]}`), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadModel(path, schema); err == nil {
		t.Error("coefficient/schema mismatch should fail")
	}
}
