package relationship

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// Redis has no empty set, every stored set carries this member so that a
// cached empty set is distinguishable from a missing key.
const presenceMember = "\x00"

type RedisSetCache struct {
	inner *redis.Client
}

func NewRedisSetCache(client *redis.Client) *RedisSetCache {
	return &RedisSetCache{inner: client}
}

func (r *RedisSetCache) GetSet(ctx context.Context, key string) (map[string]bool, bool, error) {
	res, err := r.inner.SMembers(ctx, key).Result()
	if err != nil {
		return nil, false, err
	}
	if len(res) == 0 {
		return nil, false, nil
	}
	members := make(map[string]bool, len(res))
	for _, m := range res {
		if m == presenceMember {
			continue
		}
		members[m] = true
	}
	return members, true, nil
}

func (r *RedisSetCache) PutSet(ctx context.Context, key string, members map[string]bool, ttl time.Duration) error {
	values := []interface{}{presenceMember}
	for m := range members {
		values = append(values, m)
	}
	_, err := r.inner.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.SAdd(ctx, key, values...)
		pipe.Expire(ctx, key, ttl)
		return nil
	})
	return err
}

func (r *RedisSetCache) Delete(ctx context.Context, keys ...string) error {
	return r.inner.Del(ctx, keys...).Err()
}
