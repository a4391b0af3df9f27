package relationship

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingProvider struct {
	friends map[string]bool
	calls   int
	err     error
}

func (p *countingProvider) FriendIdsOf(ctx context.Context, userId string) (map[string]bool, error) {
	p.calls++
	return p.friends, p.err
}

func (p *countingProvider) AttendingEventIdsOf(ctx context.Context, userId string) (map[string]bool, error) {
	p.calls++
	return map[string]bool{}, p.err
}

func (p *countingProvider) InvitedEventIdsOf(ctx context.Context, userId string) (map[string]bool, error) {
	p.calls++
	return map[string]bool{}, p.err
}

func (p *countingProvider) IsInvited(ctx context.Context, eventId string, userId string) (bool, error) {
	p.calls++
	return false, p.err
}

func (p *countingProvider) IsAttending(ctx context.Context, eventId string, userId string) (bool, error) {
	p.calls++
	return false, p.err
}

func (p *countingProvider) AreFriends(ctx context.Context, a string, b string) (bool, error) {
	p.calls++
	return false, p.err
}

type memorySetCache struct {
	sets    map[string]map[string]bool
	failGet bool
}

func newMemorySetCache() *memorySetCache {
	return &memorySetCache{sets: map[string]map[string]bool{}}
}

func (m *memorySetCache) GetSet(ctx context.Context, key string) (map[string]bool, bool, error) {
	if m.failGet {
		return nil, false, errors.New("connection refused")
	}
	set, ok := m.sets[key]
	if !ok {
		return nil, false, nil
	}
	out := map[string]bool{}
	for k := range set {
		out[k] = true
	}
	return out, true, nil
}

func (m *memorySetCache) PutSet(ctx context.Context, key string, members map[string]bool, ttl time.Duration) error {
	m.sets[key] = members
	return nil
}

func (m *memorySetCache) Delete(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.sets, k)
	}
	return nil
}

func TestCacheKey(t *testing.T) {
	key, ok := CacheKey(friendsKeyPrefix, "u1")
	assert.True(t, ok)
	assert.Equal(t, "friends__u1", key)

	_, ok = CacheKey(friendsKeyPrefix, "bad__id")
	assert.False(t, ok)
	_, ok = CacheKey(friendsKeyPrefix, "")
	assert.False(t, ok)
}

func TestCachedProviderServesFromCache(t *testing.T) {
	inner := &countingProvider{friends: map[string]bool{"u2": true}}
	cache := newMemorySetCache()
	p := NewCachedProvider(inner, cache, time.Minute)
	ctx := context.Background()

	friends, err := p.FriendIdsOf(ctx, "u1")
	require.Nil(t, err)
	assert.Equal(t, map[string]bool{"u2": true}, friends)
	assert.Equal(t, 1, inner.calls)

	friends, err = p.FriendIdsOf(ctx, "u1")
	require.Nil(t, err)
	assert.Equal(t, map[string]bool{"u2": true}, friends)
	assert.Equal(t, 1, inner.calls)

	// empty sets are cached too
	_, err = p.AttendingEventIdsOf(ctx, "u1")
	require.Nil(t, err)
	_, err = p.AttendingEventIdsOf(ctx, "u1")
	require.Nil(t, err)
	assert.Equal(t, 2, inner.calls)

	p.Forget(ctx, "u1")
	_, err = p.FriendIdsOf(ctx, "u1")
	require.Nil(t, err)
	assert.Equal(t, 3, inner.calls)
}

func TestCachedProviderFallsBack(t *testing.T) {
	inner := &countingProvider{friends: map[string]bool{"u2": true}}
	cache := newMemorySetCache()
	cache.failGet = true
	p := NewCachedProvider(inner, cache, 0)
	ctx := context.Background()
	assert.Equal(t, DefaultCacheTTL, p.TTL)

	friends, err := p.FriendIdsOf(ctx, "u1")
	require.Nil(t, err)
	assert.Equal(t, map[string]bool{"u2": true}, friends)

	// uncacheable ids go straight to the inner provider
	_, err = p.FriendIdsOf(ctx, "bad__id")
	require.Nil(t, err)
	assert.Equal(t, 2, inner.calls)
	_, ok := cache.sets["friends__bad__id"]
	assert.False(t, ok)
}

func TestCachedProviderDoesNotCacheErrors(t *testing.T) {
	inner := &countingProvider{err: errors.New("db down")}
	cache := newMemorySetCache()
	p := NewCachedProvider(inner, cache, time.Minute)

	_, err := p.FriendIdsOf(context.Background(), "u1")
	assert.NotNil(t, err)
	assert.Empty(t, cache.sets)

	_, err = p.IsInvited(context.Background(), "e1", "u1")
	assert.NotNil(t, err)
}
