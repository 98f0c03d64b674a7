package amenity

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/yourorg/estimate-api/osm"
)

func fptr(v float64) *float64 { return &v }

// fakePrimary scripts per-mirror responses and records call order.
type fakePrimary struct {
	mu        sync.Mutex
	mirrors   []string
	responses map[string]func() ([]osm.Element, error)
	calls     []string
}

func (f *fakePrimary) Mirrors() []string { return f.mirrors }

func (f *fakePrimary) Query(_ context.Context, endpoint, _ string, _, _ float64, _ int) ([]osm.Element, error) {
	f.mu.Lock()
	f.calls = append(f.calls, endpoint)
	f.mu.Unlock()
	if fn, ok := f.responses[endpoint]; ok {
		return fn()
	}
	return nil, errors.New("unscripted endpoint")
}

type fakeSecondary struct {
	mu      sync.Mutex
	calls   int
	results []osm.GeocodeResult
	err     error
}

func (f *fakeSecondary) SearchViewbox(_ context.Context, _ string, _, _, _ float64, _ int) ([]osm.GeocodeResult, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.results, f.err
}

func elements(n int) []osm.Element {
	out := make([]osm.Element, n)
	for i := range out {
		out[i] = osm.Element{Type: "node", Lat: fptr(12.9), Lon: fptr(77.6)}
	}
	return out
}

func TestFindNearby_FirstMirrorWins(t *testing.T) {
	primary := &fakePrimary{
		mirrors: []string{"m1", "m2"},
		responses: map[string]func() ([]osm.Element, error){
			"m1": func() ([]osm.Element, error) { return elements(2), nil },
			"m2": func() ([]osm.Element, error) { t.Error("m2 must not be called"); return nil, nil },
		},
	}
	secondary := &fakeSecondary{}
	a := New(primary, secondary, Config{})

	places := a.FindNearby(context.Background(), 12.9, 77.6, "school", 0)
	if len(places) != 2 {
		t.Fatalf("expected 2 places, got %d", len(places))
	}
	if secondary.calls != 0 {
		t.Error("secondary consulted although primary succeeded")
	}
}

func TestFindNearby_MirrorFallbackOrder(t *testing.T) {
	primary := &fakePrimary{
		mirrors: []string{"m1", "m2"},
		responses: map[string]func() ([]osm.Element, error){
			"m1": func() ([]osm.Element, error) { return nil, errors.New("transport error") },
			"m2": func() ([]osm.Element, error) { return elements(1), nil },
		},
	}
	secondary := &fakeSecondary{}
	a := New(primary, secondary, Config{})

	places := a.FindNearby(context.Background(), 12.9, 77.6, "hospital", 2000)
	if len(places) != 1 {
		t.Fatalf("expected 1 place, got %d", len(places))
	}
	if len(primary.calls) != 2 || primary.calls[0] != "m1" || primary.calls[1] != "m2" {
		t.Errorf("mirror order = %v, want [m1 m2]", primary.calls)
	}
	if secondary.calls != 0 {
		t.Error("secondary must only run after every mirror is exhausted")
	}
}

func TestFindNearby_SecondaryAfterAllMirrorsFail(t *testing.T) {
	primary := &fakePrimary{
		mirrors: []string{"m1", "m2"},
		responses: map[string]func() ([]osm.Element, error){
			"m1": func() ([]osm.Element, error) { return nil, errors.New("down") },
			"m2": func() ([]osm.Element, error) { return nil, nil }, // up but empty
		},
	}
	secondary := &fakeSecondary{results: []osm.GeocodeResult{
		{Lat: 12.91, Lon: 77.61, DisplayName: "National Public School, Indiranagar, Bengaluru"},
	}}
	a := New(primary, secondary, Config{})

	places := a.FindNearby(context.Background(), 12.9, 77.6, "school", 2000)
	if secondary.calls != 1 {
		t.Fatalf("secondary calls = %d, want 1", secondary.calls)
	}
	if len(places) != 1 || places[0].Name != "National Public School" {
		t.Errorf("unexpected places %v", places)
	}
}

func TestFindNearby_NeverFails(t *testing.T) {
	primary := &fakePrimary{
		mirrors: []string{"m1"},
		responses: map[string]func() ([]osm.Element, error){
			"m1": func() ([]osm.Element, error) { return nil, errors.New("down") },
		},
	}
	secondary := &fakeSecondary{err: errors.New("also down")}
	a := New(primary, secondary, Config{})

	places := a.FindNearby(context.Background(), 12.9, 77.6, "bizarre-category", 2000)
	if places == nil {
		t.Fatal("places must never be nil")
	}
	if len(places) != 0 {
		t.Errorf("expected empty result, got %v", places)
	}
}

func TestFindNearby_RadiusClamped(t *testing.T) {
	var gotRadius int
	primary := &recordingPrimary{radius: &gotRadius}
	a := New(primary, &fakeSecondary{}, Config{DefaultRadiusMeters: 2000, MaxRadiusMeters: 5000})

	a.FindNearby(context.Background(), 12.9, 77.6, "park", 999999)
	if gotRadius != 5000 {
		t.Errorf("radius = %d, want clamped 5000", gotRadius)
	}

	a.FindNearby(context.Background(), 12.9, 77.6, "park", 0)
	if gotRadius != 2000 {
		t.Errorf("radius = %d, want default 2000", gotRadius)
	}
}

type recordingPrimary struct {
	radius *int
}

func (r *recordingPrimary) Mirrors() []string { return []string{"m1"} }

func (r *recordingPrimary) Query(_ context.Context, _, _ string, _, _ float64, radiusMeters int) ([]osm.Element, error) {
	*r.radius = radiusMeters
	return elements(1), nil
}
