// Package osm contains the OpenStreetMap provider clients: Nominatim for
// geocoding and bounded text search, Overpass for structured amenity
// queries. Both return provider-shaped results; callers own fallback policy.
package osm

import (
	"errors"
	"io"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

func newHTTPClient(timeout time.Duration) *retryablehttp.Client {
	rc := retryablehttp.NewClient()
	rc.Logger = nil
	// Fallback chains are the retry policy here; a failed call must surface
	// immediately so the caller can advance to the next provider.
	rc.RetryMax = 0
	rc.HTTPClient.Timeout = timeout
	return rc
}

func readAllLimit(r io.Reader, limit int64) ([]byte, error) {
	b, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(b)) > limit {
		return nil, errors.New("payload too large")
	}
	return b, nil
}
