package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const currentSessionKey = "antigolpes:session:current"

// RedisSlot keeps the snapshot as a JSON value under a single key.
type RedisSlot struct {
	client *redis.Client
	ttl    time.Duration // 0 = no expiry
}

var _ Slot = (*RedisSlot)(nil)

func NewRedisSlot(client *redis.Client, ttl time.Duration) *RedisSlot {
	return &RedisSlot{client: client, ttl: ttl}
}

func (s *RedisSlot) Load(ctx context.Context) (*Snapshot, error) {
	data, err := s.client.Get(ctx, currentSessionKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (s *RedisSlot) Save(ctx context.Context, snap Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, currentSessionKey, data, s.ttl).Err()
}

func (s *RedisSlot) Clear(ctx context.Context) error {
	return s.client.Del(ctx, currentSessionKey).Err()
}
