package repository

import (
	"context"

	"bazaarbondhu/internal/domain/entity"
)

type WatchlistRepository interface {
	Add(ctx context.Context, item *entity.WatchlistItem) error
	GetByID(ctx context.Context, id string) (*entity.WatchlistItem, error)
	Exists(ctx context.Context, email, productID string) (bool, error)
	ListByUser(ctx context.Context, email string, limit, offset int) ([]*entity.WatchlistItem, int64, error)
	Delete(ctx context.Context, id string) error
}

// WatchlistID is the document id for a (user, product) pair.
func WatchlistID(email, productID string) string {
	return email + "_" + productID
}
