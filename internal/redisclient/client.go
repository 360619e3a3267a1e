package redisclient

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"hotel-analytics-service/internal/models"

	"github.com/go-redis/redis/v8"
)

// Client caches completed analysis snapshots so repeat reads of a run do
// not depend on the in-process memory of the node that computed it.
type Client struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewClient creates a new Redis client
func NewClient(addr, password string, db int, snapshotTTL time.Duration) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb, ttl: snapshotTTL}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

func snapshotKey(runID string) string {
	return fmt.Sprintf("analysis:%s", runID)
}

// SaveSnapshot stores a snapshot as JSON with the configured TTL.
func (c *Client) SaveSnapshot(ctx context.Context, snap *models.AnalysisSnapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if err := c.rdb.Set(ctx, snapshotKey(snap.RunID), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache snapshot: %w", err)
	}
	return nil
}

// GetSnapshot fetches a cached snapshot. A cache miss returns (nil, nil).
func (c *Client) GetSnapshot(ctx context.Context, runID string) (*models.AnalysisSnapshot, error) {
	payload, err := c.rdb.Get(ctx, snapshotKey(runID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var snap models.AnalysisSnapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return &snap, nil
}

// DeleteSnapshot evicts a cached snapshot.
func (c *Client) DeleteSnapshot(ctx context.Context, runID string) error {
	return c.rdb.Del(ctx, snapshotKey(runID)).Err()
}
