package osm

import "testing"

func fptr(v float64) *float64 { return &v }

func TestMapElements(t *testing.T) {
	els := []Element{
		{Type: "node", Lat: fptr(12.9), Lon: fptr(77.6), Tags: map[string]string{"name": "DPS East"}},
		{Type: "way", Center: &Center{Lat: 12.95, Lon: 77.65}},
		{Type: "relation"}, // no coordinates at all, must be skipped
	}

	places := MapElements(els, "school")
	if len(places) != 2 {
		t.Fatalf("expected 2 places, got %d", len(places))
	}

	if places[0].Name != "DPS East" || places[0].Lat != 12.9 || places[0].Lon != 77.6 {
		t.Errorf("unexpected first place: %+v", places[0])
	}
	if places[0].Type != "school" {
		t.Errorf("expected category school, got %q", places[0].Type)
	}

	if places[1].Name != UnnamedPlace {
		t.Errorf("nameless element should map to %q, got %q", UnnamedPlace, places[1].Name)
	}
	if places[1].Lat != 12.95 || places[1].Lon != 77.65 {
		t.Errorf("way should use its center, got %+v", places[1])
	}
}

func TestMapElements_Empty(t *testing.T) {
	if places := MapElements(nil, "park"); len(places) != 0 {
		t.Errorf("expected empty slice, got %v", places)
	}
}

func TestMapGeocodeResults(t *testing.T) {
	results := []GeocodeResult{
		{Lat: 12.91, Lon: 77.64, DisplayName: "Orion Mall, Rajajinagar, Bengaluru, India"},
		{Lat: 12.92, Lon: 77.62, DisplayName: "Forum"},
	}
	places := MapGeocodeResults(results, "mall")
	if len(places) != 2 {
		t.Fatalf("expected 2 places, got %d", len(places))
	}
	if places[0].Name != "Orion Mall" {
		t.Errorf("expected name before first comma, got %q", places[0].Name)
	}
	if places[1].Name != "Forum" {
		t.Errorf("expected full name when no comma, got %q", places[1].Name)
	}
	if places[0].Type != "mall" {
		t.Errorf("expected category mall, got %q", places[0].Type)
	}
}
