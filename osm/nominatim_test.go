package osm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
)

func newTestNominatim(baseURL string) *Nominatim {
	return NewNominatim(NominatimOptions{
		BaseURL:    baseURL,
		UserAgent:  "estimate-api-test",
		Timeout:    2 * time.Second,
		RatePerSec: 1000, // no throttling in tests
	})
}

func TestNominatim_Geocode(t *testing.T) {
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		if ua := r.Header.Get("User-Agent"); !strings.Contains(ua, "estimate-api-test") {
			t.Errorf("missing user agent, got %q", ua)
		}
		// Nominatim serializes coordinates as strings.
		w.Write([]byte(`[{"lat":"12.9352","lon":"77.6245","display_name":"Koramangala, Bengaluru, India"}]`))
	}))
	defer srv.Close()

	results, err := newTestNominatim(srv.URL).Geocode(context.Background(), "koramangala, Bangalore, India", 1)
	if err != nil {
		t.Fatalf("Geocode: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Lat != 12.9352 || results[0].Lon != 77.6245 {
		t.Errorf("unexpected coordinates: %+v", results[0])
	}
	if gotQuery.Get("q") != "koramangala, Bangalore, India" {
		t.Errorf("unexpected query %q", gotQuery.Get("q"))
	}
	if gotQuery.Get("limit") != "1" {
		t.Errorf("unexpected limit %q", gotQuery.Get("limit"))
	}
}

func TestNominatim_GeocodeEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	results, err := newTestNominatim(srv.URL).Geocode(context.Background(), "nowhere", 1)
	if err != nil {
		t.Fatalf("Geocode: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}

func TestNominatim_GeocodeStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	if _, err := newTestNominatim(srv.URL).Geocode(context.Background(), "x", 1); err == nil {
		t.Fatal("expected error on non-2xx status")
	}
}

func TestNominatim_SearchViewbox(t *testing.T) {
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	_, err := newTestNominatim(srv.URL).SearchViewbox(context.Background(), "school", 12.90, 77.60, 0.02, 20)
	if err != nil {
		t.Fatalf("SearchViewbox: %v", err)
	}
	if gotQuery.Get("bounded") != "1" {
		t.Error("expected bounded=1")
	}
	if gotQuery.Get("limit") != "20" {
		t.Errorf("unexpected limit %q", gotQuery.Get("limit"))
	}
	// viewbox is left,top,right,bottom around the point
	want := "77.580000,12.920000,77.620000,12.880000"
	if gotQuery.Get("viewbox") != want {
		t.Errorf("viewbox = %q, want %q", gotQuery.Get("viewbox"), want)
	}
}
