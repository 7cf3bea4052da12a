package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"

	"bazaarbondhu/internal/domain/entity"
	"bazaarbondhu/internal/domain/repository"
	"bazaarbondhu/pkg/errors"
)

type firestoreWatchlistRepository struct {
	client *firestore.Client
}

func NewFirestoreWatchlistRepository(client *firestore.Client) repository.WatchlistRepository {
	return &firestoreWatchlistRepository{client: client}
}

func (r *firestoreWatchlistRepository) Add(ctx context.Context, item *entity.WatchlistItem) error {
	item.ID = repository.WatchlistID(item.UserEmail, item.ProductID)
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}

	_, err := r.client.Collection(watchlistCollection).Doc(item.ID).Create(ctx, item)
	if err != nil {
		if isAlreadyExists(err) {
			return errors.Conflict("Product already in watchlist")
		}
		return errors.Internal("Failed to add to watchlist", err)
	}
	return nil
}

func (r *firestoreWatchlistRepository) GetByID(ctx context.Context, id string) (*entity.WatchlistItem, error) {
	return getOne[entity.WatchlistItem](ctx, r.client.Collection(watchlistCollection).Doc(id), "Watchlist item")
}

func (r *firestoreWatchlistRepository) Exists(ctx context.Context, email, productID string) (bool, error) {
	doc, err := r.client.Collection(watchlistCollection).Doc(repository.WatchlistID(email, productID)).Get(ctx)
	if err != nil {
		if IsNotFound(err) {
			return false, nil
		}
		return false, errors.Internal("Failed to check watchlist", err)
	}
	return doc.Exists(), nil
}

func (r *firestoreWatchlistRepository) ListByUser(ctx context.Context, email string, limit, offset int) ([]*entity.WatchlistItem, int64, error) {
	query := r.client.Collection(watchlistCollection).
		Where("userEmail", "==", email).
		OrderBy("createdAt", firestore.Desc)

	items, err := getAll[entity.WatchlistItem](ctx, query, "watchlist")
	if err != nil {
		return nil, 0, err
	}

	total := int64(len(items))
	if offset >= len(items) {
		return []*entity.WatchlistItem{}, total, nil
	}
	items = items[offset:]
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, total, nil
}

func (r *firestoreWatchlistRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.client.Collection(watchlistCollection).Doc(id).Delete(ctx); err != nil {
		return errors.Internal("Failed to remove from watchlist", err)
	}
	return nil
}
