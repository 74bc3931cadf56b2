package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/zdaf-zdaf/group-platform/internal/ports"
)

var _ ports.KeyValueStore = (*KeyValueStore)(nil)

// KeyValueStore stores documents as plain Redis strings under a namespace prefix.
type KeyValueStore struct {
	client redis.UniversalClient
	prefix string
}

// NewKeyValueStore creates a store whose keys are prefix+key.
func NewKeyValueStore(client redis.UniversalClient, prefix string) *KeyValueStore {
	return &KeyValueStore{client: client, prefix: prefix}
}

func (s *KeyValueStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return data, nil
}

func (s *KeyValueStore) Set(ctx context.Context, key string, value []byte) error {
	return s.client.Set(ctx, s.prefix+key, value, 0).Err()
}

func (s *KeyValueStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.prefix+key).Err()
}
