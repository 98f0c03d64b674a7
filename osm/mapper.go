package osm

import "strings"

// UnnamedPlace is the display name for elements carrying no name tag.
const UnnamedPlace = "Unnamed"

// MapElements normalizes Overpass elements into Places. Elements with
// neither their own coordinates nor a computed center are dropped.
func MapElements(els []Element, category string) []Place {
	out := make([]Place, 0, len(els))
	for _, el := range els {
		var lat, lon float64
		switch {
		case el.Lat != nil && el.Lon != nil:
			lat, lon = *el.Lat, *el.Lon
		case el.Center != nil:
			lat, lon = el.Center.Lat, el.Center.Lon
		default:
			continue
		}
		name := el.Tags["name"]
		if name == "" {
			name = UnnamedPlace
		}
		out = append(out, Place{Name: name, Lat: lat, Lon: lon, Type: category})
	}
	return out
}

// MapGeocodeResults normalizes bounded text-search matches into Places.
// Nominatim only offers a full comma-joined address; everything before the
// first comma serves as the display name.
func MapGeocodeResults(results []GeocodeResult, category string) []Place {
	out := make([]Place, 0, len(results))
	for _, r := range results {
		name, _, _ := strings.Cut(r.DisplayName, ",")
		out = append(out, Place{Name: strings.TrimSpace(name), Lat: r.Lat, Lon: r.Lon, Type: category})
	}
	return out
}
