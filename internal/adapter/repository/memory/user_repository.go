package memory

import (
	"context"
	"strings"
	"time"

	"bazaarbondhu/internal/domain/entity"
	"bazaarbondhu/internal/domain/repository"
	"bazaarbondhu/pkg/errors"
)

type userRepository struct {
	users *table[entity.User]
}

func NewUserRepository() repository.UserRepository {
	return &userRepository{users: newTable[entity.User]()}
}

func (r *userRepository) Create(_ context.Context, user *entity.User) error {
	if user.ID == "" {
		user.ID = newID()
	}
	user.Email = strings.ToLower(user.Email)
	for _, u := range r.users.all() {
		if u.Email == user.Email {
			return errors.Conflict("user already exists")
		}
	}
	if !r.users.put(user.ID, *user, true) {
		return errors.Conflict("user already exists")
	}
	return nil
}

func (r *userRepository) GetByID(_ context.Context, id string) (*entity.User, error) {
	u, ok := r.users.get(id)
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	return &u, nil
}

func (r *userRepository) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	email = strings.ToLower(email)
	for _, u := range r.users.all() {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, errors.NotFound("User", nil)
}

func (r *userRepository) Update(_ context.Context, user *entity.User) error {
	existing, ok := r.users.get(user.ID)
	if !ok {
		return errors.NotFound("User", nil)
	}
	if user.DisplayName != "" {
		existing.DisplayName = user.DisplayName
	}
	if user.PhotoURL != "" {
		existing.PhotoURL = user.PhotoURL
	}
	if !user.LastLoginAt.IsZero() {
		existing.LastLoginAt = user.LastLoginAt
	}
	existing.UpdatedAt = time.Now()
	r.users.put(existing.ID, existing, false)
	return nil
}

func (r *userRepository) UpdateRole(_ context.Context, id string, role entity.Role) error {
	existing, ok := r.users.get(id)
	if !ok {
		return errors.NotFound("User", nil)
	}
	existing.Role = role
	existing.UpdatedAt = time.Now()
	r.users.put(id, existing, false)
	return nil
}

func (r *userRepository) List(_ context.Context, q repository.UserQuery) ([]*entity.User, int64, error) {
	page, total := repository.FilterUsers(ptrs(r.users.all()), q)
	return page, total, nil
}

func (r *userRepository) CountByRole(_ context.Context) (map[entity.Role]int64, error) {
	counts := make(map[entity.Role]int64, len(entity.AllRoles))
	for _, role := range entity.AllRoles {
		counts[role] = 0
	}
	for _, u := range r.users.all() {
		counts[u.Role]++
	}
	return counts, nil
}
