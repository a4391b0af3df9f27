package relationship

import (
	"context"
	"fmt"
	"strings"
	"time"

	. "github.com/Luismorlan/eventmux/utils/log"
)

const (
	keyDelimiter = "__"

	friendsKeyPrefix   = "friends"
	attendingKeyPrefix = "attending"
	invitedKeyPrefix   = "invited"

	DefaultCacheTTL = 30 * time.Second
)

// SetCache stores string sets with an expiry. found is false when the key is
// absent or expired, which is different from a cached empty set.
type SetCache interface {
	GetSet(ctx context.Context, key string) (members map[string]bool, found bool, err error)
	PutSet(ctx context.Context, key string, members map[string]bool, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// CachedProvider caches the set lookups of an inner Provider. Single-fact
// lookups always go to the inner provider. Any cache failure falls back to
// the inner provider, so the cache can only make answers staler, never wrong
// for longer than TTL.
type CachedProvider struct {
	Inner Provider
	Cache SetCache
	TTL   time.Duration
}

func NewCachedProvider(inner Provider, cache SetCache, ttl time.Duration) *CachedProvider {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedProvider{Inner: inner, Cache: cache, TTL: ttl}
}

// CacheKey encodes a set key, returns false for ids that contain the delimiter
// and therefore cannot be cached unambiguously.
func CacheKey(prefix string, userId string) (string, bool) {
	if userId == "" || strings.Contains(userId, keyDelimiter) {
		return "", false
	}
	return fmt.Sprintf("%s%s%s", prefix, keyDelimiter, userId), true
}

func (c *CachedProvider) cachedSet(
	ctx context.Context,
	prefix string,
	userId string,
	load func(context.Context, string) (map[string]bool, error),
) (map[string]bool, error) {
	key, ok := CacheKey(prefix, userId)
	if !ok {
		return load(ctx, userId)
	}

	members, found, err := c.Cache.GetSet(ctx, key)
	if err != nil {
		Log.Warn("relationship cache read failed, key: ", key, " err: ", err)
	} else if found {
		return members, nil
	}

	members, err = load(ctx, userId)
	if err != nil {
		return nil, err
	}
	if err := c.Cache.PutSet(ctx, key, members, c.TTL); err != nil {
		Log.Warn("relationship cache write failed, key: ", key, " err: ", err)
	}
	return members, nil
}

func (c *CachedProvider) FriendIdsOf(ctx context.Context, userId string) (map[string]bool, error) {
	return c.cachedSet(ctx, friendsKeyPrefix, userId, c.Inner.FriendIdsOf)
}

func (c *CachedProvider) AttendingEventIdsOf(ctx context.Context, userId string) (map[string]bool, error) {
	return c.cachedSet(ctx, attendingKeyPrefix, userId, c.Inner.AttendingEventIdsOf)
}

func (c *CachedProvider) InvitedEventIdsOf(ctx context.Context, userId string) (map[string]bool, error) {
	return c.cachedSet(ctx, invitedKeyPrefix, userId, c.Inner.InvitedEventIdsOf)
}

func (c *CachedProvider) IsInvited(ctx context.Context, eventId string, userId string) (bool, error) {
	return c.Inner.IsInvited(ctx, eventId, userId)
}

func (c *CachedProvider) IsAttending(ctx context.Context, eventId string, userId string) (bool, error) {
	return c.Inner.IsAttending(ctx, eventId, userId)
}

func (c *CachedProvider) AreFriends(ctx context.Context, a string, b string) (bool, error) {
	return c.Inner.AreFriends(ctx, a, b)
}

// Forget drops every cached set of the given users. Called after writes that
// change friendships, attendances or invitations.
func (c *CachedProvider) Forget(ctx context.Context, userIds ...string) {
	keys := []string{}
	for _, userId := range userIds {
		for _, prefix := range []string{friendsKeyPrefix, attendingKeyPrefix, invitedKeyPrefix} {
			if key, ok := CacheKey(prefix, userId); ok {
				keys = append(keys, key)
			}
		}
	}
	if len(keys) == 0 {
		return
	}
	if err := c.Cache.Delete(ctx, keys...); err != nil {
		Log.Warn("relationship cache invalidation failed, keys: ", keys, " err: ", err)
	}
}
