package repository

import (
	"context"

	"bazaarbondhu/internal/domain/entity"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *entity.Review) error
	ListByProduct(ctx context.Context, productID string) ([]*entity.Review, error)
	CountByUser(ctx context.Context, email string) (int64, error)
}
