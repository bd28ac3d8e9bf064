package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
)

const scanReportKey = "security:scan:report"

// ScanReportCache keeps the latest security scan report in redis so repeated
// dashboard loads do not re-run all checks.
type ScanReportCache struct {
	client *redisv9.Client
	ttl    time.Duration
}

func NewScanReportCache(client *redisv9.Client, ttl time.Duration) *ScanReportCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ScanReportCache{client: client, ttl: ttl}
}

// Get unmarshals the cached report into dest. Returns false on a miss.
func (c *ScanReportCache) Get(ctx context.Context, dest interface{}) (bool, error) {
	raw, err := c.client.Get(ctx, scanReportKey).Result()
	if err == redisv9.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get scan report failed: %w", err)
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false, fmt.Errorf("unmarshal cached scan report failed: %w", err)
	}
	return true, nil
}

func (c *ScanReportCache) Set(ctx context.Context, report interface{}) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal scan report failed: %w", err)
	}
	if err := c.client.Set(ctx, scanReportKey, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set scan report failed: %w", err)
	}
	return nil
}

func (c *ScanReportCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, scanReportKey).Err(); err != nil {
		return fmt.Errorf("redis delete scan report failed: %w", err)
	}
	return nil
}
