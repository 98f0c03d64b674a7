package osm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"

	"github.com/yourorg/estimate-api/internal/metrics"
)

// NominatimOptions configures the geocoding client.
type NominatimOptions struct {
	BaseURL    string
	UserAgent  string
	Timeout    time.Duration
	RatePerSec float64
}

// Nominatim is a client for the OSM text-search geocoder. All calls share a
// rate limiter; the public instance's usage policy caps clients at 1 rps.
type Nominatim struct {
	baseURL   string
	userAgent string
	http      *retryablehttp.Client
	limiter   *rate.Limiter
}

func NewNominatim(opts NominatimOptions) *Nominatim {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.RatePerSec <= 0 {
		opts.RatePerSec = 1
	}
	return &Nominatim{
		baseURL:   opts.BaseURL,
		userAgent: opts.UserAgent,
		http:      newHTTPClient(opts.Timeout),
		limiter:   rate.NewLimiter(rate.Limit(opts.RatePerSec), 1),
	}
}

// Geocode resolves a free-text query to ranked matches, best first.
// An empty slice means the provider found nothing; an error means the
// provider could not be consulted at all.
func (n *Nominatim) Geocode(ctx context.Context, query string, limit int) ([]GeocodeResult, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("format", "json")
	q.Set("limit", fmt.Sprintf("%d", limit))
	return n.search(ctx, q)
}

// SearchViewbox runs a bounded free-text search over a box of ±delta
// degrees around the point. Used as the imprecise fallback for amenity
// discovery when every Overpass mirror comes up empty.
func (n *Nominatim) SearchViewbox(ctx context.Context, query string, lat, lon, delta float64, limit int) ([]GeocodeResult, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("format", "json")
	q.Set("limit", fmt.Sprintf("%d", limit))
	q.Set("viewbox", fmt.Sprintf("%f,%f,%f,%f", lon-delta, lat+delta, lon+delta, lat-delta))
	q.Set("bounded", "1")
	return n.search(ctx, q)
}

func (n *Nominatim) search(ctx context.Context, q url.Values) ([]GeocodeResult, error) {
	if err := n.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s/search?%s", n.baseURL, q.Encode())
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("User-Agent", n.userAgent)

	start := time.Now()
	resp, err := n.http.Do(req)
	metrics.ProviderLatency.WithLabelValues("nominatim").Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("nominatim status %d", resp.StatusCode)
	}
	body, err := readAllLimit(resp.Body, 4<<20)
	if err != nil {
		return nil, err
	}

	var raw []struct {
		Lat         coord  `json:"lat"`
		Lon         coord  `json:"lon"`
		DisplayName string `json:"display_name"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("nominatim payload: %w", err)
	}

	out := make([]GeocodeResult, 0, len(raw))
	for _, r := range raw {
		out = append(out, GeocodeResult{
			Lat:         float64(r.Lat),
			Lon:         float64(r.Lon),
			DisplayName: r.DisplayName,
		})
	}
	return out, nil
}
