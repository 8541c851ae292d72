package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const ticketListKey = "tickets:list"

// TicketCache keeps the serialized ticket listing in Redis for a short TTL.
// It is best-effort: cache failures are logged and the caller falls through
// to the database.
type TicketCache struct {
	client *redis.Client
	logger *zap.Logger
	ttl    time.Duration
}

// NewTicketCache constructs the cache. A nil client disables it.
func NewTicketCache(client *redis.Client, logger *zap.Logger, ttl time.Duration) *TicketCache {
	return &TicketCache{client: client, logger: logger, ttl: ttl}
}

// GetList returns the cached listing body, if present.
func (c *TicketCache) GetList(ctx context.Context) ([]byte, bool) {
	if c == nil || c.client == nil || c.ttl <= 0 {
		return nil, false
	}
	data, err := c.client.Get(ctx, ticketListKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Debug("ticket cache read failed", zap.Error(err))
		}
		return nil, false
	}
	return data, true
}

// SetList stores the listing body.
func (c *TicketCache) SetList(ctx context.Context, data []byte) {
	if c == nil || c.client == nil || c.ttl <= 0 {
		return
	}
	if err := c.client.Set(ctx, ticketListKey, data, c.ttl).Err(); err != nil {
		c.logger.Debug("ticket cache write failed", zap.Error(err))
	}
}

// Invalidate drops the cached listing after a mutation.
func (c *TicketCache) Invalidate(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, ticketListKey).Err(); err != nil {
		c.logger.Debug("ticket cache invalidation failed", zap.Error(err))
	}
}
