package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/costaendriw/delivery-system/models"
	repositories "github.com/costaendriw/delivery-system/repository"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	productListCachePrefix = "products:v:"
	cacheVersionKey        = "products:version"
	defaultCacheTTL        = 5 * time.Minute
)

// CacheManager handles Redis caching for product listings. Every write to
// the catalog bumps a version key, which invalidates all cached lists at
// once. All operations degrade to a cache miss when Redis is unreachable.
type CacheManager struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewCacheManager(redis *redis.Client) *CacheManager {
	return &CacheManager{
		redis: redis,
		ttl:   defaultCacheTTL,
	}
}

func (cm *CacheManager) GetProductList(ctx context.Context, skip, limit int, filters repositories.ProductFilters) ([]models.Product, bool) {
	version, err := cm.getCacheVersion(ctx)
	if err != nil || version == 0 {
		return nil, false
	}

	cached, err := cm.redis.Get(ctx, cm.listCacheKey(version, skip, limit, filters)).Result()
	if err != nil {
		return nil, false
	}

	var products []models.Product
	if err := json.Unmarshal([]byte(cached), &products); err != nil {
		zap.L().Warn("Failed to unmarshal cached product list", zap.Error(err))
		return nil, false
	}
	return products, true
}

// SetProductListAsync caches a product list off the request path.
func (cm *CacheManager) SetProductListAsync(skip, limit int, filters repositories.ProductFilters, products []models.Product) {
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		version, err := cm.getCacheVersion(bgCtx)
		if err != nil || version == 0 {
			return
		}

		raw, err := json.Marshal(products)
		if err != nil {
			zap.L().Warn("Failed to marshal product list for cache", zap.Error(err))
			return
		}

		if err := cm.redis.Set(bgCtx, cm.listCacheKey(version, skip, limit, filters), raw, cm.ttl).Err(); err != nil {
			zap.L().Warn("Failed to cache product list", zap.Error(err))
		}
	}()
}

// Invalidate invalidates all cached product lists by bumping the version.
func (cm *CacheManager) Invalidate(ctx context.Context) {
	if err := cm.redis.Incr(ctx, cacheVersionKey).Err(); err != nil {
		zap.L().Warn("Failed to invalidate product cache", zap.Error(err))
	}
}

func (cm *CacheManager) getCacheVersion(ctx context.Context) (int64, error) {
	ver, err := cm.redis.Get(ctx, cacheVersionKey).Int64()
	if err == redis.Nil {
		if err := cm.redis.Set(ctx, cacheVersionKey, 1, 0).Err(); err != nil {
			return 0, err
		}
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	return ver, nil
}

func (cm *CacheManager) listCacheKey(version int64, skip, limit int, filters repositories.ProductFilters) string {
	active := ""
	if filters.IsActive != nil {
		active = fmt.Sprintf("%t", *filters.IsActive)
	}
	return fmt.Sprintf("%s%d:s:%d:l:%d:t:%s:a:%s",
		productListCachePrefix, version, skip, limit, filters.ProductType, active)
}
