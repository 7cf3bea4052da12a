package repository

import (
	"context"
	"errors"
	"time"

	"bazaarbondhu/internal/domain/entity"
)

var ErrCacheMiss = errors.New("cache miss")

// RoleCache remembers resolved roles by email. A miss is ErrCacheMiss.
type RoleCache interface {
	Get(ctx context.Context, email string) (entity.Role, error)
	Set(ctx context.Context, email string, role entity.Role, ttl time.Duration) error
	Delete(ctx context.Context, email string) error
}
