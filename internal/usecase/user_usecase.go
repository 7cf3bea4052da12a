package usecase

import (
	"context"
	"strings"
	"time"

	"bazaarbondhu/internal/domain/access"
	"bazaarbondhu/internal/domain/entity"
	"bazaarbondhu/internal/domain/repository"
	"bazaarbondhu/internal/domain/service"
	"bazaarbondhu/pkg/errors"
	"bazaarbondhu/pkg/logger"
	"bazaarbondhu/pkg/utils"
)

type UserUseCase struct {
	userRepo repository.UserRepository
	roles    *RoleResolver
	notifier service.Notifier
}

func NewUserUseCase(userRepo repository.UserRepository, roles *RoleResolver, notifier service.Notifier) *UserUseCase {
	if notifier == nil {
		notifier = service.NopNotifier{}
	}
	return &UserUseCase{
		userRepo: userRepo,
		roles:    roles,
		notifier: notifier,
	}
}

// SyncUser records the caller after sign-in. New accounts get the user role;
// existing accounts only have their profile and last login refreshed.
func (uc *UserUseCase) SyncUser(ctx context.Context, id access.Identity) (*entity.User, bool, error) {
	if !id.Present() {
		return nil, false, errors.Unauthorized("Authentication required", nil)
	}

	now := time.Now()
	existing, err := uc.userRepo.GetByEmail(ctx, id.Email)
	if err == nil {
		existing.DisplayName = id.DisplayName
		existing.PhotoURL = id.PhotoURL
		existing.LastLoginAt = now
		if err := uc.userRepo.Update(ctx, existing); err != nil {
			return nil, false, err
		}
		return existing, false, nil
	}
	if !errors.IsNotFound(err) {
		return nil, false, err
	}

	user := &entity.User{
		ID:          id.UID,
		Email:       strings.ToLower(id.Email),
		DisplayName: id.DisplayName,
		PhotoURL:    id.PhotoURL,
		Role:        entity.RoleUser,
		LastLoginAt: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, errors.CodeConflict) {
			// lost a race with a concurrent first sign-in
			existing, getErr := uc.userRepo.GetByEmail(ctx, id.Email)
			if getErr != nil {
				return nil, false, getErr
			}
			return existing, false, nil
		}
		return nil, false, err
	}

	logger.FromContext(ctx).Info().Str("email", user.Email).Msg("registered new user")
	return user, true, nil
}

// RoleOf resolves the role of email. Non-admins may only ask about themselves.
func (uc *UserUseCase) RoleOf(ctx context.Context, caller Caller, email string) (entity.Role, error) {
	if email == "" {
		email = caller.Email()
	}
	if !strings.EqualFold(email, caller.Email()) && !caller.Is(entity.RoleAdmin) {
		return "", errors.Forbidden("You may only look up your own role", nil)
	}
	return uc.roles.Resolve(ctx, email)
}

func (uc *UserUseCase) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return uc.userRepo.GetByEmail(ctx, email)
}

func (uc *UserUseCase) ListUsers(ctx context.Context, role, search string, page, limit int) ([]*entity.User, int64, error) {
	q := repository.UserQuery{Search: strings.TrimSpace(search)}
	if role != "" {
		r, err := entity.ParseRole(role)
		if err != nil {
			return nil, 0, errors.Validation("role", "role must be one of: user vendor admin")
		}
		q.Role = r
	}

	p := utils.NewPaginationParams(page, limit)
	q.Limit = p.PageSize
	q.Offset = p.Offset
	return uc.userRepo.List(ctx, q)
}

// SearchByEmail backs the make-admin lookup; fragment matches are allowed.
func (uc *UserUseCase) SearchByEmail(ctx context.Context, fragment string) ([]*entity.User, error) {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return nil, errors.Validation("email", "email is required")
	}
	users, _, err := uc.userRepo.List(ctx, repository.UserQuery{Search: fragment, Limit: 10})
	return users, err
}

func (uc *UserUseCase) ChangeRole(ctx context.Context, admin Caller, userID string, role string) (*entity.User, error) {
	if !admin.Is(entity.RoleAdmin) {
		return nil, errors.Forbidden("Only admins can change roles", nil)
	}
	newRole, err := entity.ParseRole(role)
	if err != nil {
		return nil, errors.Validation("role", "role must be one of: user vendor admin")
	}

	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(user.Email, admin.Email()) && newRole != entity.RoleAdmin {
		return nil, errors.BadRequest("Admins cannot demote themselves", nil)
	}
	if user.Role == newRole {
		return user, nil
	}

	if err := uc.userRepo.UpdateRole(ctx, user.ID, newRole); err != nil {
		return nil, err
	}
	uc.roles.Invalidate(ctx, user.Email)

	user.Role = newRole
	logger.FromContext(ctx).Info().
		Str("admin", admin.Email()).
		Str("user", user.Email).
		Str("role", string(newRole)).
		Msg("role changed")

	uc.notifier.Notify(user.Email, service.Notification{
		Type:    service.NotifyRoleChanged,
		Message: "Your role is now " + string(newRole),
		Data:    map[string]string{"role": string(newRole)},
	})
	return user, nil
}
