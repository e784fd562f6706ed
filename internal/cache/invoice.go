package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rapidinvoice/rapidinvoice-mcp/internal/model"
)

// Cache key prefixes and TTLs.
const (
	invoiceKeyPrefix  = "invoice:"
	negCacheKeySuffix = ":neg"

	// DefaultInvoiceTTL is the TTL for cached public invoice views.
	DefaultInvoiceTTL = time.Hour

	// NegativeCacheTTL is the TTL for unknown-token entries, keeping
	// token scans off the database.
	NegativeCacheTTL = 5 * time.Minute
)

// Common cache errors.
var (
	// ErrCacheMiss means the token is not cached either way.
	ErrCacheMiss = errors.New("cache miss")
	// ErrKnownMissing means a negative entry records that the token
	// resolves to nothing.
	ErrKnownMissing = errors.New("token cached as missing")
)

// GetInvoice retrieves a public invoice view by token.
func (c *Cache) GetInvoice(ctx context.Context, token string) (*model.Invoice, error) {
	key := invoiceKeyPrefix + token

	payload, err := c.client.Get(ctx, key).Result()
	if err == nil {
		var invoice model.Invoice
		if err := json.Unmarshal([]byte(payload), &invoice); err != nil {
			// A corrupt entry behaves like a miss; the next Set heals it.
			return nil, ErrCacheMiss
		}
		return &invoice, nil
	}
	if !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	neg, err := c.client.Exists(ctx, key+negCacheKeySuffix).Result()
	if err != nil {
		return nil, fmt.Errorf("redis exists failed: %w", err)
	}
	if neg > 0 {
		return nil, ErrKnownMissing
	}

	return nil, ErrCacheMiss
}

// SetInvoice stores a public invoice view. The TTL never outlives the
// public-link expiry, so an expired link cannot keep serving from
// cache.
func (c *Cache) SetInvoice(ctx context.Context, invoice *model.Invoice) error {
	key := invoiceKeyPrefix + invoice.PublicToken

	ttl := InvoiceTTL(invoice, time.Now())
	if ttl <= 0 {
		return c.client.Del(ctx, key, key+negCacheKeySuffix).Err()
	}

	payload, err := json.Marshal(invoice)
	if err != nil {
		return fmt.Errorf("failed to encode invoice: %w", err)
	}

	pipe := c.client.Pipeline()
	pipe.Set(ctx, key, payload, ttl)
	pipe.Del(ctx, key+negCacheKeySuffix)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to cache invoice: %w", err)
	}

	return nil
}

// SetInvoiceMissing records a negative entry for an unknown token.
func (c *Cache) SetInvoiceMissing(ctx context.Context, token string) error {
	key := invoiceKeyPrefix + token + negCacheKeySuffix
	if err := c.client.Set(ctx, key, "1", NegativeCacheTTL).Err(); err != nil {
		return fmt.Errorf("failed to cache negative entry: %w", err)
	}
	return nil
}

// InvoiceTTL computes the TTL SetInvoice would apply at the given
// instant. Split out for tests.
func InvoiceTTL(invoice *model.Invoice, now time.Time) time.Duration {
	ttl := DefaultInvoiceTTL
	if invoice.PublicExpiresAt != nil {
		expiresIn := invoice.PublicExpiresAt.Sub(now)
		if expiresIn < ttl {
			ttl = expiresIn
		}
	}
	return ttl
}
