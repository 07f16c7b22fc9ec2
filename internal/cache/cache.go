package cache

import (
	"context"
	"errors"
	"strconv"
	"time"
)

// ErrCacheMiss is returned by Get when the key is absent or expired.
var ErrCacheMiss = errors.New("cache: key not found")

// Store is the capability the catalog and token layers depend on.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

const (
	FeaturedProductsKey = "featuredProducts"
	FeaturedProductsTTL = 10 * time.Minute

	RefreshTokenTTL = 7 * 24 * time.Hour
)

func RefreshTokenKey(userID uint) string {
	return "refreshToken:" + strconv.FormatUint(uint64(userID), 10)
}
