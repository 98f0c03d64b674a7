package osm

import "fmt"

// categoryFilters maps coarse amenity categories to Overpass tag filters.
// Related sub-tags are ORed together so a "school" search also surfaces
// colleges and universities.
var categoryFilters = map[string]string{
	"school":     `"amenity"~"school|college|university"`,
	"hospital":   `"amenity"~"hospital|clinic"`,
	"restaurant": `"amenity"~"restaurant|cafe"`,
	"mall":       `"shop"~"mall|supermarket"`,
	"park":       `"leisure"="park"`,
}

// BuildFilter translates a category into an Overpass tag-filter expression.
// Unrecognized categories get a direct equality filter on the amenity tag,
// a permissive default so unanticipated categories still query something
// sensible rather than erroring.
func BuildFilter(category string) string {
	if f, ok := categoryFilters[category]; ok {
		return f
	}
	return fmt.Sprintf(`"amenity"=%q`, category)
}
