package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/billy-le/love-edith/internal/cart"
	"github.com/billy-le/love-edith/internal/domain"
)

// keyPrefix is the documented cart persistence key. Each session's line list
// lives under shopping_cart:<session_id> as one JSON array.
const keyPrefix = "shopping_cart:"

// CartStorage hands out session-scoped cart.Storage adapters backed by Redis.
type CartStorage struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCartStorage creates a Redis-backed cart storage provider.
func NewCartStorage(client *redis.Client, ttl time.Duration) *CartStorage {
	return &CartStorage{
		client: client,
		ttl:    ttl,
	}
}

// ForSession returns the storage adapter for one session's cart.
func (s *CartStorage) ForSession(sessionID string) cart.Storage {
	return &sessionStorage{
		client: s.client,
		key:    keyPrefix + sessionID,
		ttl:    s.ttl,
	}
}

type sessionStorage struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// Load reads the persisted line list. A missing key yields an empty cart; a
// payload that fails to decode is reported so the store can clear it.
func (s *sessionStorage) Load(ctx context.Context) ([]domain.LineItem, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return []domain.LineItem{}, nil
		}
		return nil, fmt.Errorf("redis get cart: %w", err)
	}

	var items []domain.LineItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("unmarshal cart: %w", err)
	}

	return items, nil
}

// Save overwrites the persisted line list with the configured TTL.
func (s *sessionStorage) Save(ctx context.Context, items []domain.LineItem) error {
	if items == nil {
		items = []domain.LineItem{}
	}

	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}

	if err := s.client.Set(ctx, s.key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set cart: %w", err)
	}

	return nil
}

// Clear removes the persisted entry.
func (s *sessionStorage) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("redis del cart: %w", err)
	}
	return nil
}
