// Package rediscache mirrors driver positions into Redis with a short TTL
// so that presence lookups do not touch the primary store. A driver that
// stops reporting falls out of the cache on its own.
package rediscache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"dispatch/internal/core/domain/model/kernel"
)

const (
	keyPrefix  = "drivers:active:"
	defaultTTL = 120 * time.Second
)

type locationEntry struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LocationCache stores the latest driver position under
// drivers:active:<driver-id> with a fixed TTL.
type LocationCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewLocationCache(client redis.UniversalClient) *LocationCache {
	return &LocationCache{client: client, ttl: defaultTTL}
}

func (c *LocationCache) SetDriverLocation(ctx context.Context, driverID kernel.UUID, location kernel.GeoPoint) error {
	if err := driverID.Validate(); err != nil {
		return err
	}
	if err := location.Validate(); err != nil {
		return err
	}

	entry := locationEntry{
		Latitude:  location.Latitude(),
		Longitude: location.Longitude(),
		UpdatedAt: time.Now().UTC(),
	}
	value, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode location entry: %w", err)
	}

	if err := c.client.Set(ctx, keyPrefix+driverID.String(), value, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}
