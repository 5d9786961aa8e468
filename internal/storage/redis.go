package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix = "locadora:"
	// redisLockTTL caps how long a crashed holder can block other replicas.
	redisLockTTL = 10 * time.Minute
)

// RedisStorage keeps the latest snapshot per source and job state in redis.
type RedisStorage struct {
	client *redis.Client
}

// OpenRedis connects using dsn (a redis:// URL) or, when empty, addr.
func OpenRedis(ctx context.Context, dsn, addr string) (*RedisStorage, error) {
	var opts *redis.Options
	if dsn != "" {
		parsed, err := redis.ParseURL(dsn)
		if err != nil {
			return nil, fmt.Errorf("storage: redis url: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: addr}
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("storage: redis ping: %w", err)
	}
	return NewRedis(client), nil
}

// NewRedis wraps an existing client.
func NewRedis(client *redis.Client) *RedisStorage {
	return &RedisStorage{client: client}
}

func snapshotKey(source string) string { return redisKeyPrefix + "snapshot:" + source }
func jobKey(name string) string         { return redisKeyPrefix + "job:" + name }
func lockKey(key int64) string          { return redisKeyPrefix + "lock:" + strconv.FormatInt(key, 10) }

func (s *RedisStorage) Close() error { return s.client.Close() }

func (s *RedisStorage) Ping(ctx context.Context) error { return s.client.Ping(ctx).Err() }

func (s *RedisStorage) GetListingSnapshot(ctx context.Context, source string) (*ListingSnapshot, error) {
	raw, err := s.client.Get(ctx, snapshotKey(source)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var snap ListingSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("storage: decode snapshot: %w", err)
	}
	return &snap, nil
}

func (s *RedisStorage) SaveListingSnapshot(ctx context.Context, snap ListingSnapshot) error {
	if snap.FetchedAt.IsZero() {
		snap.FetchedAt = time.Now()
	}
	raw, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, snapshotKey(snap.Source), raw, 0).Err()
}

func (s *RedisStorage) AcquireAdvisoryLock(ctx context.Context, key int64) (bool, error) {
	return s.client.SetNX(ctx, lockKey(key), time.Now().UTC().Format(time.RFC3339), redisLockTTL).Result()
}

func (s *RedisStorage) ReleaseAdvisoryLock(ctx context.Context, key int64) (bool, error) {
	n, err := s.client.Del(ctx, lockKey(key)).Result()
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, ErrLockNotHeld
	}
	return true, nil
}

func (s *RedisStorage) UpdateScheduledJob(ctx context.Context, name string, started time.Time, dur time.Duration, success bool, errMsg string) error {
	raw, err := json.Marshal(newScheduledJob(name, started, dur, success, errMsg))
	if err != nil {
		return err
	}
	return s.client.Set(ctx, jobKey(name), raw, 0).Err()
}

func (s *RedisStorage) GetScheduledJob(ctx context.Context, name string) (*ScheduledJob, error) {
	raw, err := s.client.Get(ctx, jobKey(name)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var job ScheduledJob
	if err := json.Unmarshal(raw, &job); err != nil {
		return nil, fmt.Errorf("storage: decode job: %w", err)
	}
	return &job, nil
}
