package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/mkamath/quotedesk/internal/config"
	"github.com/mkamath/quotedesk/internal/model"
)

// QuoteCache caches per-enquiry quote lists in Redis and is invalidated
// after every successful quote mutation. With no Redis configured it
// degrades to a no-op, so the service runs without a cache in
// development.
type QuoteCache struct {
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

func New(cfg config.RedisConfig, log zerolog.Logger) *QuoteCache {
	if cfg.Addr == "" {
		return &QuoteCache{log: log}
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
	})
	return &QuoteCache{client: client, ttl: cfg.TTL, log: log}
}

func quotesKey(enquiryID string) string {
	return fmt.Sprintf("quotes:enquiry:%s", enquiryID)
}

// GetQuotes returns the cached list, or ok=false on miss, disabled cache
// or any Redis error. Cache errors are logged, never surfaced.
func (c *QuoteCache) GetQuotes(ctx context.Context, enquiryID string) ([]model.Quote, bool) {
	if c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, quotesKey(enquiryID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn().Err(err).Msg("quote cache read failed")
		}
		return nil, false
	}
	var quotes []model.Quote
	if err := json.Unmarshal(raw, &quotes); err != nil {
		c.log.Warn().Err(err).Msg("quote cache entry corrupt, dropping")
		_ = c.client.Del(ctx, quotesKey(enquiryID)).Err()
		return nil, false
	}
	return quotes, true
}

func (c *QuoteCache) SetQuotes(ctx context.Context, enquiryID string, quotes []model.Quote) {
	if c.client == nil {
		return
	}
	raw, err := json.Marshal(quotes)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, quotesKey(enquiryID), raw, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Msg("quote cache write failed")
	}
}

// InvalidateEnquiry drops the cached list after a mutation. The next read
// refetches from Postgres.
func (c *QuoteCache) InvalidateEnquiry(ctx context.Context, enquiryID string) {
	if c.client == nil {
		return
	}
	if err := c.client.Del(ctx, quotesKey(enquiryID)).Err(); err != nil {
		c.log.Warn().Err(err).Msg("quote cache invalidation failed")
	}
}
