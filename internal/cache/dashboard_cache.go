package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/stocklens/doi-dashboard/internal/config"
	"github.com/stocklens/doi-dashboard/internal/domain"
)

const (
	dashboardKeyPrefix     = "dashboard:view"
	dashboardScanBatchSize = 100
)

// DashboardCache caches fully composed dashboard payloads keyed by the
// normalized filter. Only the composed payload is cached; individual chart
// queries are cheap enough to recompute.
type DashboardCache interface {
	GetDashboard(ctx context.Context, filter domain.InventoryFilter) (*domain.Dashboard, bool, error)
	SetDashboard(ctx context.Context, filter domain.InventoryFilter, dashboard *domain.Dashboard) error
	InvalidateAll(ctx context.Context) error
}

type redisDashboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopDashboardCache struct{}

// NewDashboardCache returns a redis-backed cache when enabled, otherwise a
// noop implementation so callers never branch on the config.
func NewDashboardCache(cfg config.CacheConfig) (DashboardCache, error) {
	if !cfg.Enabled {
		return &noopDashboardCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisDashboardCache{client: client, ttl: ttl}, nil
}

func NewNoopDashboardCache() DashboardCache {
	return &noopDashboardCache{}
}

func (c *redisDashboardCache) GetDashboard(ctx context.Context, filter domain.InventoryFilter) (*domain.Dashboard, bool, error) {
	key := buildDashboardKey(filter)

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var dashboard domain.Dashboard
	if err := json.Unmarshal(payload, &dashboard); err != nil {
		return nil, false, fmt.Errorf("decode dashboard cache: %w", err)
	}

	return &dashboard, true, nil
}

func (c *redisDashboardCache) SetDashboard(ctx context.Context, filter domain.InventoryFilter, dashboard *domain.Dashboard) error {
	key := buildDashboardKey(filter)
	payload, err := json.Marshal(dashboard)
	if err != nil {
		return fmt.Errorf("encode dashboard cache: %w", err)
	}

	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisDashboardCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, dashboardKeyPrefix, dashboardScanBatchSize)
}

func (n *noopDashboardCache) GetDashboard(ctx context.Context, filter domain.InventoryFilter) (*domain.Dashboard, bool, error) {
	return nil, false, nil
}

func (n *noopDashboardCache) SetDashboard(ctx context.Context, filter domain.InventoryFilter, dashboard *domain.Dashboard) error {
	return nil
}

func (n *noopDashboardCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func buildDashboardKey(filter domain.InventoryFilter) string {
	return fmt.Sprintf("%s:%s", dashboardKeyPrefix, FilterKey(filter))
}

// FilterKey normalizes a filter into a stable cache key fragment so
// equivalent filters share an entry regardless of value order.
func FilterKey(filter domain.InventoryFilter) string {
	parts := []string{}

	if v := normalizeList(filter.Buyers); v != "" {
		parts = append(parts, "buyers="+v)
	}
	if v := normalizeList(filter.Categories); v != "" {
		parts = append(parts, "categories="+v)
	}
	if v := normalizeList(filter.Warehouses); v != "" {
		parts = append(parts, "warehouses="+v)
	}
	if filter.DOIStatus != "" {
		parts = append(parts, "status="+strings.ToLower(strings.TrimSpace(filter.DOIStatus)))
	}

	if len(parts) == 0 {
		return "all"
	}
	return strings.Join(parts, "&")
}

func normalizeList(values []string) string {
	normalized := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		normalized = append(normalized, v)
	}
	if len(normalized) == 0 {
		return ""
	}
	sort.Strings(normalized)
	return strings.Join(normalized, ",")
}
