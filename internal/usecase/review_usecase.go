package usecase

import (
	"context"
	"strings"
	"time"

	"bazaarbondhu/internal/domain/entity"
	"bazaarbondhu/internal/domain/repository"
	"bazaarbondhu/pkg/errors"
)

type ReviewUseCase struct {
	reviewRepo  repository.ReviewRepository
	productRepo repository.ProductRepository
}

func NewReviewUseCase(reviewRepo repository.ReviewRepository, productRepo repository.ProductRepository) *ReviewUseCase {
	return &ReviewUseCase{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
	}
}

type CreateReviewInput struct {
	Rating  int
	Comment string
}

func (uc *ReviewUseCase) CreateReview(ctx context.Context, caller Caller, productID string, input CreateReviewInput) (*entity.Review, error) {
	if !caller.Authenticated() {
		return nil, errors.Unauthorized("Authentication required", nil)
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, errors.Validation("rating", "rating must be between 1 and 5")
	}

	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.Status != entity.StatusApproved {
		return nil, errors.NotFound("Product", nil)
	}
	if strings.EqualFold(product.VendorEmail, caller.Email()) {
		return nil, errors.Forbidden("Vendors cannot review their own products", nil)
	}

	review := &entity.Review{
		ProductID: productID,
		UserEmail: caller.Email(),
		UserName:  caller.Identity.DisplayName,
		Rating:    input.Rating,
		Comment:   strings.TrimSpace(input.Comment),
		Date:      time.Now(),
	}
	if err := uc.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

func (uc *ReviewUseCase) ListReviews(ctx context.Context, productID string) ([]*entity.Review, error) {
	return uc.reviewRepo.ListByProduct(ctx, productID)
}
