package osm

import "testing"

func TestBuildFilter_KnownCategories(t *testing.T) {
	cases := map[string]string{
		"school":     `"amenity"~"school|college|university"`,
		"hospital":   `"amenity"~"hospital|clinic"`,
		"restaurant": `"amenity"~"restaurant|cafe"`,
		"mall":       `"shop"~"mall|supermarket"`,
		"park":       `"leisure"="park"`,
	}
	for category, want := range cases {
		if got := BuildFilter(category); got != want {
			t.Errorf("BuildFilter(%q) = %q, want %q", category, got, want)
		}
	}
}

func TestBuildFilter_UnknownCategoryFallsBack(t *testing.T) {
	got := BuildFilter("gym")
	want := `"amenity"="gym"`
	if got != want {
		t.Errorf("BuildFilter(gym) = %q, want %q", got, want)
	}
}
