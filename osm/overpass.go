package osm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/yourorg/estimate-api/internal/metrics"
)

// OverpassOptions configures the structured-query client.
type OverpassOptions struct {
	Mirrors    []string
	Timeout    time.Duration
	MaxResults int
}

// Overpass issues QL queries against a set of mirror endpoints. The client
// itself is mirror-agnostic; callers pick the endpoint per call so they can
// own the fallback order.
type Overpass struct {
	mirrors    []string
	http       *retryablehttp.Client
	timeoutSec int
	maxResults int
}

func NewOverpass(opts OverpassOptions) *Overpass {
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = 30
	}
	return &Overpass{
		mirrors:    append([]string(nil), opts.Mirrors...),
		http:       newHTTPClient(opts.Timeout),
		timeoutSec: 25,
		maxResults: opts.MaxResults,
	}
}

// Mirrors returns the configured endpoints in priority order.
func (o *Overpass) Mirrors() []string {
	return append([]string(nil), o.mirrors...)
}

// BuildQuery assembles the QL text for a radius search: node, way and
// relation clauses under one tag filter, with way/relation geometry
// replaced by computed centers.
func (o *Overpass) BuildQuery(filter string, lat, lon float64, radiusMeters int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[out:json][timeout:%d];\n(\n", o.timeoutSec)
	for _, kind := range []string{"node", "way", "relation"} {
		fmt.Fprintf(&b, "  %s[%s](around:%d,%f,%f);\n", kind, filter, radiusMeters, lat, lon)
	}
	fmt.Fprintf(&b, ");\nout center %d;", o.maxResults)
	return b.String()
}

// Query runs one QL query against one endpoint and returns the raw
// elements. Non-2xx responses and malformed payloads are errors; the caller
// decides whether to try the next mirror.
func (o *Overpass) Query(ctx context.Context, endpoint, filter string, lat, lon float64, radiusMeters int) ([]Element, error) {
	form := url.Values{}
	form.Set("data", o.BuildQuery(filter, lat, lon, radiusMeters))

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	start := time.Now()
	resp, err := o.http.Do(req)
	metrics.ProviderLatency.WithLabelValues("overpass").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.OverpassRequests.WithLabelValues(endpoint, "error").Inc()
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		metrics.OverpassRequests.WithLabelValues(endpoint, "error").Inc()
		return nil, fmt.Errorf("overpass status %d", resp.StatusCode)
	}

	body, err := readAllLimit(resp.Body, 8<<20)
	if err != nil {
		metrics.OverpassRequests.WithLabelValues(endpoint, "error").Inc()
		return nil, err
	}
	var root struct {
		Elements []Element `json:"elements"`
	}
	if err := json.Unmarshal(body, &root); err != nil {
		metrics.OverpassRequests.WithLabelValues(endpoint, "error").Inc()
		return nil, fmt.Errorf("overpass payload: %w", err)
	}
	metrics.OverpassRequests.WithLabelValues(endpoint, "ok").Inc()
	return root.Elements, nil
}
