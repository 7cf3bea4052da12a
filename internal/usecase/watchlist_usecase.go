package usecase

import (
	"context"
	"strings"

	"bazaarbondhu/internal/domain/entity"
	"bazaarbondhu/internal/domain/repository"
	"bazaarbondhu/pkg/errors"
	"bazaarbondhu/pkg/logger"
	"bazaarbondhu/pkg/utils"
)

type WatchlistUseCase struct {
	watchlistRepo repository.WatchlistRepository
	productRepo   repository.ProductRepository
}

func NewWatchlistUseCase(watchlistRepo repository.WatchlistRepository, productRepo repository.ProductRepository) *WatchlistUseCase {
	return &WatchlistUseCase{
		watchlistRepo: watchlistRepo,
		productRepo:   productRepo,
	}
}

// AddToWatchlist is reserved for the user role; vendors and admins are refused.
func (uc *WatchlistUseCase) AddToWatchlist(ctx context.Context, caller Caller, productID string) (*entity.WatchlistItem, error) {
	if !caller.Is(entity.RoleUser) {
		return nil, errors.Forbidden("Only users can keep a watchlist", nil)
	}

	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.Status != entity.StatusApproved {
		return nil, errors.BadRequest("Cannot watch a product that is not approved", nil)
	}

	item := &entity.WatchlistItem{
		ProductID: productID,
		UserEmail: caller.Email(),
	}
	if err := uc.watchlistRepo.Add(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// GetWatchlist joins each item with its product; items whose product is
// gone are skipped.
func (uc *WatchlistUseCase) GetWatchlist(ctx context.Context, caller Caller, page, limit int) ([]entity.WatchlistItemWithProduct, int64, error) {
	p := utils.NewPaginationParams(page, limit)
	items, total, err := uc.watchlistRepo.ListByUser(ctx, caller.Email(), p.PageSize, p.Offset)
	if err != nil {
		return nil, 0, err
	}

	out := make([]entity.WatchlistItemWithProduct, 0, len(items))
	for _, item := range items {
		product, err := uc.productRepo.GetByID(ctx, item.ProductID)
		if err != nil {
			if errors.IsNotFound(err) {
				logger.FromContext(ctx).Debug().Str("product_id", item.ProductID).Msg("watched product no longer exists")
				continue
			}
			return nil, 0, err
		}
		out = append(out, entity.WatchlistItemWithProduct{WatchlistItem: *item, Product: product})
	}
	return out, total, nil
}

func (uc *WatchlistUseCase) RemoveFromWatchlist(ctx context.Context, caller Caller, id string) error {
	item, err := uc.watchlistRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !strings.EqualFold(item.UserEmail, caller.Email()) {
		return errors.NotFound("Watchlist item", nil)
	}
	return uc.watchlistRepo.Delete(ctx, id)
}
