package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func NewRedisClient(addr, password string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
		Protocol: 2,
	})
}

// RedisPersister stores cart snapshots as JSON strings under cart:{id}.
type RedisPersister struct {
	client *redis.Client
}

func NewRedisPersister(client *redis.Client) *RedisPersister {
	return &RedisPersister{client: client}
}

func cartKey(id uuid.UUID) string {
	return fmt.Sprintf("cart:%s", id)
}

func (p *RedisPersister) Load(ctx context.Context, id uuid.UUID) (Snapshot, error) {
	body, err := p.client.Get(ctx, cartKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Snapshot{}, ErrSessionNotFound
	}
	if err != nil {
		return Snapshot{}, err
	}

	var snap Snapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("failed to unmarshal cart: %w", err)
	}
	return snap, nil
}

func (p *RedisPersister) Store(ctx context.Context, id uuid.UUID, s Snapshot, ttl time.Duration) error {
	body, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal cart: %w", err)
	}
	return p.client.Set(ctx, cartKey(id), body, ttl).Err()
}

func (p *RedisPersister) Delete(ctx context.Context, id uuid.UUID) error {
	return p.client.Del(ctx, cartKey(id)).Err()
}

// Ping checks connectivity at startup.
func (p *RedisPersister) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}
