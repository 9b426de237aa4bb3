package cache

import (
	"context"
	"time"

	"github.com/dujiao-next/cupcake/internal/constants"
)

// GetCatalogFeed 读取缓存的目录接口数据
func GetCatalogFeed(ctx context.Context, dest interface{}) (bool, error) {
	return GetJSON(ctx, constants.CacheKeyCatalogFeed, dest)
}

// SetCatalogFeed 写入目录接口数据，ttl<=0 时不缓存
func SetCatalogFeed(ctx context.Context, value interface{}, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return SetJSON(ctx, constants.CacheKeyCatalogFeed, value, ttl)
}

// InvalidateCatalogFeed 商品变更后清除目录缓存
func InvalidateCatalogFeed(ctx context.Context) error {
	return Del(ctx, constants.CacheKeyCatalogFeed)
}
