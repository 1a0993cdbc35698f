package repo

import (
	"context"
	"time"

	"go-auth-service/internal/core/cache"
	"go-auth-service/internal/domain"
)

const userCacheTTL = 30 * time.Second

// CachedUserRepo 只给 FindByID 加 redis 缓存（鉴权热路径），
// 其余方法直通底层；Update 同步踢掉旧缓存。
type CachedUserRepo struct {
	domain.UserRepository
	c *cache.Cache
}

func NewCachedUserRepo(inner domain.UserRepository, c *cache.Cache) *CachedUserRepo {
	return &CachedUserRepo{UserRepository: inner, c: c}
}

func userKey(id string) string { return "user:id:" + id }

func (r *CachedUserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return cache.GetOrLoadJSON[domain.User](r.c, ctx, userKey(id), userCacheTTL,
		func(ctx context.Context) (*domain.User, error) {
			return r.UserRepository.FindByID(ctx, id)
		})
}

func (r *CachedUserRepo) Update(ctx context.Context, u *domain.User) error {
	if err := r.UserRepository.Update(ctx, u); err != nil {
		return err
	}
	r.c.Del(ctx, userKey(u.ID))
	return nil
}
