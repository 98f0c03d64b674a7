// Package redisx is the optional Redis hot cache in front of the Postgres
// coordinate store. Every method is nil-receiver-safe so the service runs
// unchanged without Redis configured.
package redisx

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	coordsPrefix = "loc:coords:"
	missPrefix   = "loc:miss:"
	lockPrefix   = "loc:lock:"
)

type Client struct{ Rdb *redis.Client }

// Coords is the cached coordinate envelope.
type Coords struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func New(addr, password string, db int) *Client {
	return &Client{Rdb: redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})}
}

func (c *Client) Ping(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.Rdb.Ping(ctx).Err()
}

// GetCoords returns the cached coordinates for a normalized name, or
// (nil, nil) on a miss. Cache errors degrade to a miss.
func (c *Client) GetCoords(ctx context.Context, name string) (*Coords, error) {
	if c == nil {
		return nil, nil
	}
	val, err := c.Rdb.Get(ctx, coordsPrefix+name).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var out Coords
	if err := json.Unmarshal([]byte(val), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SetCoords(ctx context.Context, name string, coords Coords, ttl time.Duration) error {
	if c == nil {
		return nil
	}
	b, err := json.Marshal(coords)
	if err != nil {
		return err
	}
	return c.Rdb.Set(ctx, coordsPrefix+name, string(b), ttl).Err()
}

// MarkMiss records a name the provider could not resolve, so repeated
// lookups of the same unknown name skip the provider for the TTL.
func (c *Client) MarkMiss(ctx context.Context, name string, ttl time.Duration) error {
	if c == nil {
		return nil
	}
	return c.Rdb.Set(ctx, missPrefix+name, "1", ttl).Err()
}

func (c *Client) IsMiss(ctx context.Context, name string) bool {
	if c == nil {
		return false
	}
	n, err := c.Rdb.Exists(ctx, missPrefix+name).Result()
	return err == nil && n == 1
}

// AcquireLock takes a short-lived named lock via SETNX. Used by the seeder
// so only one replica runs the bulk pass.
func (c *Client) AcquireLock(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	if c == nil {
		return true, nil
	}
	return c.Rdb.SetNX(ctx, lockPrefix+name, "1", ttl).Result()
}
