package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/tatianab/veritas-chamber/internal/config"
	"github.com/tatianab/veritas-chamber/internal/models"
)

const (
	redisIndexKey     = "veritas:sessions"
	redisSessionKeyFn = "veritas:session:%s"
)

// RedisStore keeps sessions as JSON strings that expire after a TTL.
// A set indexes the keys for List.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// OpenRedis connects to the server in cfg and checks it responds.
func OpenRedis(ctx context.Context, cfg config.RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", cfg.Addr, err)
	}
	return &RedisStore{client: client, ttl: cfg.TTL}, nil
}

func redisKey(key string) string {
	return fmt.Sprintf(redisSessionKeyFn, key)
}

func (r *RedisStore) Load(ctx context.Context, key string) (*models.Session, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	data, err := r.client.Get(ctx, redisKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session %s: %w", key, err)
	}

	var s models.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", key, err)
	}
	return &s, nil
}

func (r *RedisStore) Save(ctx context.Context, key string, s *models.Session) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", key, err)
	}
	_, err = r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, redisKey(key), data, r.ttl)
		p.SAdd(ctx, redisIndexKey, key)
		return nil
	})
	if err != nil {
		return fmt.Errorf("store session %s: %w", key, err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, key string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	_, err := r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, redisKey(key))
		p.SRem(ctx, redisIndexKey, key)
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete session %s: %w", key, err)
	}
	return nil
}

// List returns the indexed keys whose sessions have not expired, dropping
// expired ones from the index as it goes.
func (r *RedisStore) List(ctx context.Context) ([]string, error) {
	members, err := r.client.SMembers(ctx, redisIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	keys := make([]string, 0, len(members))
	var stale []any
	for _, k := range members {
		n, err := r.client.Exists(ctx, redisKey(k)).Result()
		if err != nil {
			return nil, fmt.Errorf("check session %s: %w", k, err)
		}
		if n == 0 {
			stale = append(stale, k)
			continue
		}
		keys = append(keys, k)
	}
	if len(stale) > 0 {
		if err := r.client.SRem(ctx, redisIndexKey, stale...).Err(); err != nil {
			return nil, fmt.Errorf("prune session index: %w", err)
		}
	}
	slices.Sort(keys)
	return keys, nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
