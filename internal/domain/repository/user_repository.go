package repository

import (
	"context"

	"bazaarbondhu/internal/domain/entity"
)

type UserQuery struct {
	Role   entity.Role
	Search string
	Limit  int
	Offset int
}

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	UpdateRole(ctx context.Context, id string, role entity.Role) error
	List(ctx context.Context, q UserQuery) ([]*entity.User, int64, error)
	CountByRole(ctx context.Context) (map[entity.Role]int64, error)
}
