package osm

import "encoding/json"

// Place is a normalized point of interest, the single shape both providers
// are mapped into. It is ephemeral: never persisted, no cross-provider
// dedup guarantee.
type Place struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
	Type string  `json:"type"`
}

// GeocodeResult is one ranked Nominatim match.
type GeocodeResult struct {
	Lat         float64
	Lon         float64
	DisplayName string
}

// Element is a raw Overpass element. Nodes carry their own coordinates;
// ways and relations carry a computed center instead.
type Element struct {
	Type   string            `json:"type"`
	ID     int64             `json:"id"`
	Lat    *float64          `json:"lat,omitempty"`
	Lon    *float64          `json:"lon,omitempty"`
	Center *Center           `json:"center,omitempty"`
	Tags   map[string]string `json:"tags,omitempty"`
}

type Center struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// coord accepts string or number JSON; Nominatim serializes coordinates as
// quoted strings.
type coord float64

func (c *coord) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*c = 0
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		var num json.Number = json.Number(s)
		f, err := num.Float64()
		if err != nil {
			return err
		}
		*c = coord(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*c = coord(f)
	return nil
}
