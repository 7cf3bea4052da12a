package usecase

import (
	"context"

	"golang.org/x/sync/errgroup"

	"bazaarbondhu/internal/domain/entity"
	"bazaarbondhu/internal/domain/repository"
	"bazaarbondhu/pkg/errors"
)

type StatsUseCase struct {
	userRepo      repository.UserRepository
	productRepo   repository.ProductRepository
	adRepo        repository.AdvertisementRepository
	orderRepo     repository.OrderRepository
	reviewRepo    repository.ReviewRepository
	watchlistRepo repository.WatchlistRepository
}

func NewStatsUseCase(
	userRepo repository.UserRepository,
	productRepo repository.ProductRepository,
	adRepo repository.AdvertisementRepository,
	orderRepo repository.OrderRepository,
	reviewRepo repository.ReviewRepository,
	watchlistRepo repository.WatchlistRepository,
) *StatsUseCase {
	return &StatsUseCase{
		userRepo:      userRepo,
		productRepo:   productRepo,
		adRepo:        adRepo,
		orderRepo:     orderRepo,
		reviewRepo:    reviewRepo,
		watchlistRepo: watchlistRepo,
	}
}

type AdminStats struct {
	Users    map[entity.Role]int64             `json:"users"`
	Products map[entity.ModerationStatus]int64 `json:"products"`
	Orders   repository.OrderTotals            `json:"orders"`
}

type VendorStats struct {
	ProductsAdded         int64                             `json:"productsAdded"`
	ProductsByStatus      map[entity.ModerationStatus]int64 `json:"productsByStatus"`
	AdvertisementsCreated int64                             `json:"advertisementsCreated"`
}

type UserStats struct {
	Watchlist      int64                  `json:"watchlist"`
	ReviewsWritten int64                  `json:"reviewsWritten"`
	Orders         repository.OrderTotals `json:"orders"`
}

func (uc *StatsUseCase) AdminStats(ctx context.Context) (*AdminStats, error) {
	stats := &AdminStats{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		users, err := uc.userRepo.CountByRole(ctx)
		stats.Users = users
		return err
	})
	g.Go(func() error {
		products, err := uc.productRepo.CountByStatus(ctx, "")
		stats.Products = products
		return err
	})
	g.Go(func() error {
		orders, err := uc.orderRepo.Totals(ctx, "")
		stats.Orders = orders
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, errors.Internal("Failed to compute statistics", err)
	}
	return stats, nil
}

func (uc *StatsUseCase) VendorStats(ctx context.Context, vendor Caller) (*VendorStats, error) {
	stats := &VendorStats{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		byStatus, err := uc.productRepo.CountByStatus(ctx, vendor.Email())
		if err != nil {
			return err
		}
		stats.ProductsByStatus = byStatus
		for _, n := range byStatus {
			stats.ProductsAdded += n
		}
		return nil
	})
	g.Go(func() error {
		n, err := uc.adRepo.CountByVendor(ctx, vendor.Email())
		stats.AdvertisementsCreated = n
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, errors.Internal("Failed to compute statistics", err)
	}
	return stats, nil
}

func (uc *StatsUseCase) UserStats(ctx context.Context, user Caller) (*UserStats, error) {
	stats := &UserStats{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		_, total, err := uc.watchlistRepo.ListByUser(ctx, user.Email(), 1, 0)
		stats.Watchlist = total
		return err
	})
	g.Go(func() error {
		n, err := uc.reviewRepo.CountByUser(ctx, user.Email())
		stats.ReviewsWritten = n
		return err
	})
	g.Go(func() error {
		orders, err := uc.orderRepo.Totals(ctx, user.Email())
		stats.Orders = orders
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, errors.Internal("Failed to compute statistics", err)
	}
	return stats, nil
}

// ForCaller picks the summary matching the caller's role.
func (uc *StatsUseCase) ForCaller(ctx context.Context, caller Caller) (interface{}, error) {
	switch caller.Role {
	case entity.RoleAdmin:
		return uc.AdminStats(ctx)
	case entity.RoleVendor:
		return uc.VendorStats(ctx, caller)
	case entity.RoleUser:
		return uc.UserStats(ctx, caller)
	default:
		return nil, errors.Forbidden("Role not resolved", nil)
	}
}
