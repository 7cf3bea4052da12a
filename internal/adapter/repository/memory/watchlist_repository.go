package memory

import (
	"context"
	"sort"
	"time"

	"bazaarbondhu/internal/domain/entity"
	"bazaarbondhu/internal/domain/repository"
	"bazaarbondhu/pkg/errors"
)

type watchlistRepository struct {
	items *table[entity.WatchlistItem]
}

func NewWatchlistRepository() repository.WatchlistRepository {
	return &watchlistRepository{items: newTable[entity.WatchlistItem]()}
}

func (r *watchlistRepository) Add(_ context.Context, item *entity.WatchlistItem) error {
	item.ID = repository.WatchlistID(item.UserEmail, item.ProductID)
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}
	if !r.items.put(item.ID, *item, true) {
		return errors.Conflict("Product already in watchlist")
	}
	return nil
}

func (r *watchlistRepository) GetByID(_ context.Context, id string) (*entity.WatchlistItem, error) {
	item, ok := r.items.get(id)
	if !ok {
		return nil, errors.NotFound("Watchlist item", nil)
	}
	return &item, nil
}

func (r *watchlistRepository) Exists(_ context.Context, email, productID string) (bool, error) {
	_, ok := r.items.get(repository.WatchlistID(email, productID))
	return ok, nil
}

func (r *watchlistRepository) ListByUser(_ context.Context, email string, limit, offset int) ([]*entity.WatchlistItem, int64, error) {
	out := []*entity.WatchlistItem{}
	for _, item := range ptrs(r.items.all()) {
		if item.UserEmail == email {
			out = append(out, item)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	total := int64(len(out))
	if offset >= len(out) {
		return []*entity.WatchlistItem{}, total, nil
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, total, nil
}

func (r *watchlistRepository) Delete(_ context.Context, id string) error {
	if !r.items.delete(id) {
		return errors.NotFound("Watchlist item", nil)
	}
	return nil
}
