package usecase

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"bazaarbondhu/internal/domain/entity"
	"bazaarbondhu/internal/domain/repository"
	"bazaarbondhu/pkg/errors"
	"bazaarbondhu/pkg/logger"
)

// RoleResolver turns an email into exactly one role or an error. A missing
// record, an unreadable role and a failed lookup are all errors; there is no
// fallback role.
type RoleResolver struct {
	userRepo repository.UserRepository
	cache    repository.RoleCache
	ttl      time.Duration
	group    singleflight.Group

	// gens counts invalidations per email so a lookup that read the old
	// record does not cache it after the invalidate.
	mu   sync.Mutex
	gens map[string]uint64
}

func NewRoleResolver(userRepo repository.UserRepository, cache repository.RoleCache, ttl time.Duration) *RoleResolver {
	return &RoleResolver{
		userRepo: userRepo,
		cache:    cache,
		ttl:      ttl,
		gens:     make(map[string]uint64),
	}
}

func (r *RoleResolver) Resolve(ctx context.Context, email string) (entity.Role, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", errors.Unauthorized("Authentication required", nil)
	}

	if r.cache != nil {
		role, err := r.cache.Get(ctx, email)
		if err == nil {
			return role, nil
		}
		if err != repository.ErrCacheMiss {
			logger.FromContext(ctx).Warn().Err(err).Msg("role cache read failed")
		}
	}

	v, err, _ := r.group.Do(email, func() (interface{}, error) {
		return r.lookup(ctx, email)
	})
	if err != nil {
		return "", err
	}
	return v.(entity.Role), nil
}

func (r *RoleResolver) generation(email string) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.gens[email]
}

func (r *RoleResolver) lookup(ctx context.Context, email string) (entity.Role, error) {
	gen := r.generation(email)
	user, err := r.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.IsNotFound(err) {
			return "", errors.RoleNotFound(email)
		}
		return "", errors.RoleResolution("Could not resolve role", err)
	}

	role, err := entity.ParseRole(string(user.Role))
	if err != nil {
		return "", errors.RoleResolution("Stored role is not recognised", err)
	}

	if r.cache != nil && r.generation(email) == gen {
		if err := r.cache.Set(ctx, email, role, r.ttl); err != nil {
			logger.FromContext(ctx).Warn().Err(err).Msg("role cache write failed")
		}
	}
	return role, nil
}

// Invalidate drops the cached role for email and keeps lookups already in
// flight from caching what they read.
func (r *RoleResolver) Invalidate(ctx context.Context, email string) {
	email = strings.ToLower(strings.TrimSpace(email))
	r.mu.Lock()
	r.gens[email]++
	r.mu.Unlock()

	if r.cache == nil {
		return
	}
	if err := r.cache.Delete(ctx, email); err != nil {
		logger.FromContext(ctx).Warn().Err(err).Str("email", email).Msg("role cache invalidation failed")
	}
}
