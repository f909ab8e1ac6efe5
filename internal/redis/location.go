package redis

import (
	"context"

	"github.com/redis/go-redis/v9"
)

const walkerLocationKey = "walkers:locations"

// WalkerCoordinate is a walker's last-known position.
type WalkerCoordinate struct {
	WalkerID string
	Lat      float64
	Lng      float64
}

// LocationStore handles walker location operations in Redis.
type LocationStore struct {
	client *redis.Client
}

// NewLocationStore creates a new LocationStore.
func NewLocationStore(client *redis.Client) *LocationStore {
	return &LocationStore{client: client}
}

// UpdateLocation stores a walker's last-known location using GEOADD.
func (s *LocationStore) UpdateLocation(ctx context.Context, walkerID string, lat, lng float64) error {
	return s.client.GeoAdd(ctx, walkerLocationKey, &redis.GeoLocation{
		Name:      walkerID,
		Longitude: lng,
		Latitude:  lat,
	}).Err()
}

// Locations returns the last-known coordinates for the given walkers.
// Walkers with no recorded position are absent from the result.
func (s *LocationStore) Locations(ctx context.Context, walkerIDs []string) (map[string]WalkerCoordinate, error) {
	if len(walkerIDs) == 0 {
		return map[string]WalkerCoordinate{}, nil
	}

	positions, err := s.client.GeoPos(ctx, walkerLocationKey, walkerIDs...).Result()
	if err != nil {
		return nil, err
	}

	coords := make(map[string]WalkerCoordinate, len(walkerIDs))
	for i, pos := range positions {
		if pos == nil {
			continue
		}
		coords[walkerIDs[i]] = WalkerCoordinate{
			WalkerID: walkerIDs[i],
			Lat:      pos.Latitude,
			Lng:      pos.Longitude,
		}
	}
	return coords, nil
}

// RemoveLocation removes a walker's position from the geo index.
func (s *LocationStore) RemoveLocation(ctx context.Context, walkerID string) error {
	return s.client.ZRem(ctx, walkerLocationKey, walkerID).Err()
}
