package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/tiw25999/license-plate-system/internal/model"
)

const (
	// plateCachePrefix is the Redis key prefix for plate lookups.
	plateCachePrefix = "plate:latest:"
	// plateCacheTTL is the time-to-live for cached plate lookups.
	plateCacheTTL = 60 * time.Second
)

// cachedPlate is the stored representation of a sighting.
type cachedPlate struct {
	ID          string    `json:"id"`
	PlateNumber string    `json:"plate"`
	Province    string    `json:"province,omitempty"`
	CameraID    string    `json:"camera_id,omitempty"`
	CameraName  string    `json:"camera_name,omitempty"`
	CapturedAt  time.Time `json:"captured_at"`
	CreatedAt   time.Time `json:"created_at"`
}

// GetPlate retrieves the cached latest sighting for a plate number.
// Returns nil on cache miss.
func (c *Cache) GetPlate(ctx context.Context, plateNumber string) (*model.Plate, error) {
	key := plateCachePrefix + plateNumber

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		// Cache miss is not an error
		return nil, nil //nolint:nilerr
	}

	var cached cachedPlate
	if err := json.Unmarshal(data, &cached); err != nil {
		// Corrupted cache entry - treat as miss
		return nil, nil //nolint:nilerr
	}

	return &model.Plate{
		ID:          cached.ID,
		PlateNumber: cached.PlateNumber,
		Province:    cached.Province,
		CameraID:    cached.CameraID,
		CameraName:  cached.CameraName,
		CapturedAt:  cached.CapturedAt,
		CreatedAt:   cached.CreatedAt,
	}, nil
}

// SetPlate caches the latest sighting for a plate number.
func (c *Cache) SetPlate(ctx context.Context, plate *model.Plate) error {
	key := plateCachePrefix + plate.PlateNumber

	cached := cachedPlate{
		ID:          plate.ID,
		PlateNumber: plate.PlateNumber,
		Province:    plate.Province,
		CameraID:    plate.CameraID,
		CameraName:  plate.CameraName,
		CapturedAt:  plate.CapturedAt,
		CreatedAt:   plate.CreatedAt,
	}

	data, err := json.Marshal(cached)
	if err != nil {
		return fmt.Errorf("marshal plate: %w", err)
	}

	return c.client.Set(ctx, key, data, plateCacheTTL).Err()
}

// DeletePlate removes a cached plate lookup.
// Called when a newer sighting of the plate is inserted.
func (c *Cache) DeletePlate(ctx context.Context, plateNumber string) error {
	key := plateCachePrefix + plateNumber
	return c.client.Del(ctx, key).Err()
}
