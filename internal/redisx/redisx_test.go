package redisx

import (
	"context"
	"testing"
	"time"
)

// A nil client is how the service runs without Redis configured; every
// method must be a safe no-op in that state.
func TestNilClient(t *testing.T) {
	var c *Client
	ctx := context.Background()

	if err := c.Ping(ctx); err != nil {
		t.Errorf("Ping: %v", err)
	}
	coords, err := c.GetCoords(ctx, "hebbal")
	if coords != nil || err != nil {
		t.Errorf("GetCoords = %v, %v, want miss", coords, err)
	}
	if err := c.SetCoords(ctx, "hebbal", Coords{Lat: 1, Lon: 2}, time.Minute); err != nil {
		t.Errorf("SetCoords: %v", err)
	}
	if err := c.MarkMiss(ctx, "nowhere", time.Minute); err != nil {
		t.Errorf("MarkMiss: %v", err)
	}
	if c.IsMiss(ctx, "nowhere") {
		t.Error("IsMiss on nil client must report false")
	}
	ok, err := c.AcquireLock(ctx, "seed", time.Hour)
	if !ok || err != nil {
		t.Errorf("AcquireLock = %v, %v, want granted", ok, err)
	}
}
