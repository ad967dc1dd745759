package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stocklens/backend-go/internal/config"
	"github.com/stocklens/backend-go/internal/domain"
)

const (
	overviewKeyPrefix = "series:overview"
	scanBatchSize     = 100
)

// SeriesCache caches chart overview reads per dataset and filter. Entries
// for a dataset are invalidated whenever it mutates.
type SeriesCache interface {
	GetOverview(ctx context.Context, datasetID int64, filter domain.SeriesFilter) ([]domain.OverviewPoint, bool, error)
	SetOverview(ctx context.Context, datasetID int64, filter domain.SeriesFilter, points []domain.OverviewPoint) error
	InvalidateDataset(ctx context.Context, datasetID int64) error
}

type redisSeriesCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopSeriesCache struct{}

// NewSeriesCache returns a redis-backed cache when enabled, otherwise a noop.
func NewSeriesCache(cfg config.CacheConfig) (SeriesCache, error) {
	if !cfg.Enabled {
		return &noopSeriesCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisSeriesCache{client: client, ttl: ttl}, nil
}

func NewNoopSeriesCache() SeriesCache {
	return &noopSeriesCache{}
}

func (c *redisSeriesCache) GetOverview(ctx context.Context, datasetID int64, filter domain.SeriesFilter) ([]domain.OverviewPoint, bool, error) {
	payload, err := c.client.Get(ctx, overviewKey(datasetID, filter)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var points []domain.OverviewPoint
	if err := json.Unmarshal(payload, &points); err != nil {
		return nil, false, fmt.Errorf("cached overview decode failed: %w", err)
	}
	return points, true, nil
}

func (c *redisSeriesCache) SetOverview(ctx context.Context, datasetID int64, filter domain.SeriesFilter, points []domain.OverviewPoint) error {
	payload, err := json.Marshal(points)
	if err != nil {
		return fmt.Errorf("overview encode failed: %w", err)
	}
	if err := c.client.Set(ctx, overviewKey(datasetID, filter), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisSeriesCache) InvalidateDataset(ctx context.Context, datasetID int64) error {
	prefix := fmt.Sprintf("%s:%d:", overviewKeyPrefix, datasetID)
	return deleteKeysWithPrefix(ctx, c.client, prefix, scanBatchSize)
}

// overviewKey hashes the filter so every distinct selection gets its own
// entry while identical selections share one.
func overviewKey(datasetID int64, filter domain.SeriesFilter) string {
	var b strings.Builder
	if filter.ProductIDs != nil {
		ids := make([]string, 0, len(filter.ProductIDs))
		for _, id := range filter.ProductIDs {
			ids = append(ids, strconv.FormatInt(id, 10))
		}
		b.WriteString("p=" + strings.Join(ids, ",") + ";")
	}
	if filter.DayStart != nil {
		b.WriteString("s=" + strconv.Itoa(*filter.DayStart) + ";")
	}
	if filter.DayEnd != nil {
		b.WriteString("e=" + strconv.Itoa(*filter.DayEnd) + ";")
	}

	sum := sha1.Sum([]byte(b.String()))
	return fmt.Sprintf("%s:%d:%s", overviewKeyPrefix, datasetID, hex.EncodeToString(sum[:]))
}

func (noopSeriesCache) GetOverview(context.Context, int64, domain.SeriesFilter) ([]domain.OverviewPoint, bool, error) {
	return nil, false, nil
}

func (noopSeriesCache) SetOverview(context.Context, int64, domain.SeriesFilter, []domain.OverviewPoint) error {
	return nil
}

func (noopSeriesCache) InvalidateDataset(context.Context, int64) error {
	return nil
}
