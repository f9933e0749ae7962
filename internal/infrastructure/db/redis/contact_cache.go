package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mercatino/vendor-api/internal/core/domain"
	"github.com/mercatino/vendor-api/internal/core/ports"
)

const contactTTL = 15 * time.Minute

// ContactCache caches vendor contact sheets, the hottest public read.
// Key format: contact:<vendor_id>
type ContactCache struct {
	client *redis.Client
}

// NewContactCache creates a ContactCache wrapping the given Redis client.
func NewContactCache(client *redis.Client) *ContactCache {
	return &ContactCache{client: client}
}

var _ ports.ContactCache = (*ContactCache)(nil)

// Get returns the cached contact, or (nil, nil) on a miss.
func (c *ContactCache) Get(ctx context.Context, vendorID string) (*domain.Contact, error) {
	raw, err := c.client.Get(ctx, c.key(vendorID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("contact cache get: %w", err)
	}

	var contact domain.Contact
	if err := json.Unmarshal(raw, &contact); err != nil {
		return nil, fmt.Errorf("contact cache decode: %w", err)
	}
	return &contact, nil
}

func (c *ContactCache) Set(ctx context.Context, vendorID string, contact domain.Contact) error {
	raw, err := json.Marshal(contact)
	if err != nil {
		return fmt.Errorf("contact cache encode: %w", err)
	}
	return c.client.Set(ctx, c.key(vendorID), raw, contactTTL).Err()
}

func (c *ContactCache) Invalidate(ctx context.Context, vendorID string) error {
	return c.client.Del(ctx, c.key(vendorID)).Err()
}

func (c *ContactCache) key(vendorID string) string {
	return fmt.Sprintf("contact:%s", vendorID)
}
