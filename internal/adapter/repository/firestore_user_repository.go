package repository

import (
	"context"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"bazaarbondhu/internal/domain/entity"
	"bazaarbondhu/internal/domain/repository"
	"bazaarbondhu/pkg/errors"
)

type firestoreUserRepository struct {
	client *firestore.Client
}

func NewFirestoreUserRepository(client *firestore.Client) repository.UserRepository {
	return &firestoreUserRepository{
		client: client,
	}
}

func (r *firestoreUserRepository) Create(ctx context.Context, user *entity.User) error {
	if user.ID == "" {
		user.ID = r.client.Collection(usersCollection).NewDoc().ID
	}
	user.Email = strings.ToLower(user.Email)

	_, err := r.client.Collection(usersCollection).Doc(user.ID).Create(ctx, user)
	if err != nil {
		if isAlreadyExists(err) {
			return errors.Conflict("user already exists")
		}
		return errors.Internal("Failed to create user", err)
	}
	return nil
}

func (r *firestoreUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return getOne[entity.User](ctx, r.client.Collection(usersCollection).Doc(id), "User")
}

func (r *firestoreUserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := r.client.Collection(usersCollection).Where("email", "==", strings.ToLower(email)).Limit(1)
	iter := query.Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err != nil {
		if err == iterator.Done {
			return nil, errors.NotFound("User", nil)
		}
		return nil, errors.Internal("Failed to query user", err)
	}

	var user entity.User
	if err := doc.DataTo(&user); err != nil {
		return nil, errors.Internal("Failed to parse user data", err)
	}
	return &user, nil
}

// Update refreshes profile fields only; the role is written by UpdateRole.
func (r *firestoreUserRepository) Update(ctx context.Context, user *entity.User) error {
	updateData := map[string]interface{}{
		"displayName": user.DisplayName,
		"photoURL":    user.PhotoURL,
		"lastLoginAt": user.LastLoginAt,
		"updatedAt":   time.Now(),
	}

	cleanUpdateData := make(map[string]interface{})
	for key, value := range updateData {
		if strVal, ok := value.(string); ok && strVal == "" {
			continue
		}
		if timeVal, ok := value.(time.Time); ok && timeVal.IsZero() {
			continue
		}
		cleanUpdateData[key] = value
	}

	_, err := r.client.Collection(usersCollection).Doc(user.ID).Set(ctx, cleanUpdateData, firestore.MergeAll)
	if err != nil {
		return errors.Internal("Failed to update user", err)
	}
	return nil
}

func (r *firestoreUserRepository) UpdateRole(ctx context.Context, id string, role entity.Role) error {
	_, err := r.client.Collection(usersCollection).Doc(id).Update(ctx, []firestore.Update{
		{Path: "role", Value: string(role)},
		{Path: "updatedAt", Value: time.Now()},
	})
	if err != nil {
		if IsNotFound(err) {
			return errors.NotFound("User", err)
		}
		return errors.Internal("Failed to update user role", err)
	}
	return nil
}

func (r *firestoreUserRepository) List(ctx context.Context, q repository.UserQuery) ([]*entity.User, int64, error) {
	query := r.client.Collection(usersCollection).Query
	if q.Role != "" {
		query = query.Where("role", "==", string(q.Role))
	}

	users, err := getAll[entity.User](ctx, query, "users")
	if err != nil {
		return nil, 0, err
	}

	// search is a substring match, which Firestore cannot express
	page, total := repository.FilterUsers(users, repository.UserQuery{Search: q.Search, Limit: q.Limit, Offset: q.Offset})
	return page, total, nil
}

func (r *firestoreUserRepository) CountByRole(ctx context.Context) (map[entity.Role]int64, error) {
	counts := make(map[entity.Role]int64, len(entity.AllRoles))
	for _, role := range entity.AllRoles {
		docs, err := r.client.Collection(usersCollection).Where("role", "==", string(role)).Documents(ctx).GetAll()
		if err != nil {
			return nil, errors.Internal("Failed to count users", err)
		}
		counts[role] = int64(len(docs))
	}
	return counts, nil
}
