package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	ferrors "github.com/matzehuels/flowdeck/pkg/errors"
	"github.com/matzehuels/flowdeck/pkg/persist"
)

const (
	redisKeyPrefix = "flowdeck:doc:"
	redisIndexKey  = "flowdeck:docs"
)

// RedisStore keeps each document under flowdeck:doc:<name> and indexes the
// names in the set flowdeck:docs.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to addr and pings it, retrying transient failures.
func NewRedisStore(ctx context.Context, addr string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	err := RetryWithBackoff(ctx, BackendRedis, func() error {
		if err := client.Ping(ctx).Err(); err != nil {
			return Retryable(ferrors.Wrap(ferrors.ErrCodeNetwork, err, "ping redis at %s", addr))
		}
		return nil
	})
	if err != nil {
		client.Close()
		return nil, err
	}
	return &RedisStore{client: client}, nil
}

// NewRedisStoreFromClient wraps an existing client.
func NewRedisStoreFromClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func redisKey(name string) string { return redisKeyPrefix + name }

func (s *RedisStore) Save(ctx context.Context, name string, doc persist.Document) error {
	if err := checkName(name); err != nil {
		return err
	}
	data, err := encode(doc)
	if err != nil {
		return err
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, redisKey(name), data, 0)
		pipe.SAdd(ctx, redisIndexKey, name)
		return nil
	})
	if err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context, name string) (persist.Document, error) {
	if err := checkName(name); err != nil {
		return persist.Document{}, err
	}
	data, err := s.client.Get(ctx, redisKey(name)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return persist.Document{}, notFound(name)
		}
		return persist.Document{}, fmt.Errorf("load document: %w", err)
	}
	return decode(data)
}

func (s *RedisStore) Delete(ctx context.Context, name string) error {
	if err := checkName(name); err != nil {
		return err
	}
	var del *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, redisKey(name))
		pipe.SRem(ctx, redisIndexKey, name)
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if del.Val() == 0 {
		return notFound(name)
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context) ([]string, error) {
	names, err := s.client.SMembers(ctx, redisIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return sortedNames(names), nil
}

func (s *RedisStore) Close() error { return s.client.Close() }
