// Package cache provides Redis-backed caches for expensive read paths.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"dukapos/internal/domain/reports"
)

const dashboardKey = "dukapos:reports:dashboard"

// ReportCache implements reports.Cache on Redis.
type ReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewReportCache creates a new report cache with the given TTL.
func NewReportCache(client *redis.Client, ttl time.Duration) *ReportCache {
	return &ReportCache{client: client, ttl: ttl}
}

// GetDashboard returns the cached dashboard, or (nil, nil) on a miss.
func (c *ReportCache) GetDashboard(ctx context.Context) (*reports.Dashboard, error) {
	raw, err := c.client.Get(ctx, dashboardKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get dashboard cache: %w", err)
	}

	var d reports.Dashboard
	if err := json.Unmarshal(raw, &d); err != nil {
		// Stale format after a deploy: treat as a miss.
		return nil, nil
	}
	return &d, nil
}

// SetDashboard stores the dashboard for the configured TTL.
func (c *ReportCache) SetDashboard(ctx context.Context, d *reports.Dashboard) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshal dashboard: %w", err)
	}
	if err := c.client.Set(ctx, dashboardKey, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("set dashboard cache: %w", err)
	}
	return nil
}
