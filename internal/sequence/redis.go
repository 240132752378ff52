package sequence

import (
	"context"
	"errors"

	redis "github.com/redis/go-redis/v9"
)

// Returns 1 when KEYS[1] exists and equals ARGV[1] (after setting it to ARGV[2]), else 0.
const compareAndSetScript = `
local current = redis.call("GET", KEYS[1])
if current == false then
  return 0
end
if tonumber(current) == tonumber(ARGV[1]) then
  redis.call("SET", KEYS[1], ARGV[2])
  return 1
end
return 0
`

const defaultRedisPrefix = "seq:"

// RedisStore keeps each counter in a plain string key incremented with INCR.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	cas    *redis.Script
}

// NewRedisStore wraps client. Keys are "<prefix><name>"; an empty prefix means "seq:".
func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &RedisStore{
		client: client,
		prefix: prefix,
		cas:    redis.NewScript(compareAndSetScript),
	}
}

func (s *RedisStore) key(name string) string {
	return s.prefix + name
}

func (s *RedisStore) Increment(ctx context.Context, name string) (int64, error) {
	return s.client.Incr(ctx, s.key(name)).Result()
}

func (s *RedisStore) CompareAndSet(ctx context.Context, name string, oldValue, newValue int64) (bool, error) {
	n, err := s.cas.Run(ctx, s.client, []string{s.key(name)}, oldValue, newValue).Int64()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (s *RedisStore) Ensure(ctx context.Context, name string) (bool, error) {
	return s.client.SetNX(ctx, s.key(name), 0, 0).Result()
}

func (s *RedisStore) Current(ctx context.Context, name string) (int64, bool, error) {
	v, err := s.client.Get(ctx, s.key(name)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return v, true, nil
}

// Close closes the redis client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
