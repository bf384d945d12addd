package windows

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client часть redis.Client, используемая кешем
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}
