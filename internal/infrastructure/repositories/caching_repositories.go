package repositories

import (
	"context"
	"encoding/json"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/pulsefit/platform/internal/core/domain/user"
	"github.com/pulsefit/platform/internal/core/ports"
)

var sf singleflight.Group

func cacheSetSilently(c ports.Cache, ctx context.Context, key string, v any, ttl time.Duration) {
	if c == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	_ = c.Set(ctx, key, b, ttl)
}

func cacheGet[T any](c ports.Cache, ctx context.Context, key string) (*T, bool) {
	if c == nil {
		return nil, false
	}
	b, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		return nil, false
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, false
	}
	return &v, true
}

// CachingUserRepository decorates a UserRepository with cache-aside reads.
// Lookups by email dominate the verification flows (every request, confirm
// and reset submission does one), so those are cached; the two mutations
// write through by dropping the cached entry.
type CachingUserRepository struct {
	inner ports.UserRepository
	cache ports.Cache
	ttl   time.Duration
}

func NewCachingUserRepository(inner ports.UserRepository, cache ports.Cache, ttl time.Duration) ports.UserRepository {
	return &CachingUserRepository{inner: inner, cache: cache, ttl: ttl}
}

func userEmailKey(email string) string {
	return "user:email:" + email
}

func (c *CachingUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	if v, ok := cacheGet[user.User](c.cache, ctx, userEmailKey(email)); ok {
		return v, nil
	}

	// Coalesce concurrent misses for the same email into one DB read
	res, err, _ := sf.Do("user:email:"+email, func() (any, error) {
		u, err := c.inner.GetByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		cacheSetSilently(c.cache, ctx, userEmailKey(email), u, c.ttl)
		return u, nil
	})
	if err != nil {
		return nil, err
	}
	return res.(*user.User), nil
}

func (c *CachingUserRepository) SetVerified(ctx context.Context, email string) error {
	if err := c.inner.SetVerified(ctx, email); err != nil {
		return err
	}
	if c.cache != nil {
		_ = c.cache.Delete(ctx, userEmailKey(email))
	}
	return nil
}

func (c *CachingUserRepository) SetPasswordHash(ctx context.Context, email, passwordHash string) error {
	if err := c.inner.SetPasswordHash(ctx, email, passwordHash); err != nil {
		return err
	}
	if c.cache != nil {
		_ = c.cache.Delete(ctx, userEmailKey(email))
	}
	return nil
}
