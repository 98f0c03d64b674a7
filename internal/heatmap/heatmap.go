// Package heatmap maintains the in-memory snapshot of cached locations
// served by the heatmap endpoint. It warms from the store at startup and
// stays fresh by consuming resolved-location events.
package heatmap

import (
	"context"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/yourorg/estimate-api/internal/events"
	"github.com/yourorg/estimate-api/internal/logging"
	"github.com/yourorg/estimate-api/internal/store"
)

// Point is one heatmap entry.
type Point struct {
	Location string  `json:"location"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	AvgPrice float64 `json:"avg_price"`
}

type Snapshot struct {
	mu     sync.RWMutex
	points map[string]Point
	pub    events.Publisher
	log    zerolog.Logger
}

func New(pub events.Publisher) *Snapshot {
	return &Snapshot{
		points: make(map[string]Point),
		pub:    pub,
		log:    logging.Component("heatmap"),
	}
}

// Warm seeds the snapshot from the store. Called once at startup; a store
// error leaves the snapshot empty rather than failing boot.
func (s *Snapshot) Warm(ctx context.Context, st *store.Store) {
	if st == nil {
		return
	}
	locs, err := st.ListLocations(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("heatmap warm-up failed")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, loc := range locs {
		s.points[loc.Name] = Point{
			Location: loc.Name,
			Lat:      loc.Latitude,
			Lon:      loc.Longitude,
			AvgPrice: loc.AvgPrice,
		}
	}
	s.log.Info().Int("locations", len(locs)).Msg("heatmap warmed")
}

// Run consumes resolved-location events until the context is canceled.
func (s *Snapshot) Run(ctx context.Context) {
	sub := s.pub.SubscribeLocationResolved()
	for {
		select {
		case <-ctx.Done():
			return
		case evt := <-sub:
			s.mu.Lock()
			if _, exists := s.points[evt.Name]; !exists {
				s.points[evt.Name] = Point{Location: evt.Name, Lat: evt.Latitude, Lon: evt.Longitude}
			}
			s.mu.Unlock()
		}
	}
}

// Points returns the snapshot sorted by location name.
func (s *Snapshot) Points() []Point {
	s.mu.RLock()
	out := make([]Point, 0, len(s.points))
	for _, p := range s.points {
		out = append(out, p)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Location < out[j].Location })
	return out
}
