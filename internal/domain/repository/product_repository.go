package repository

import (
	"context"

	"bazaarbondhu/internal/domain/access"
	"bazaarbondhu/internal/domain/entity"
)

type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id string) error
	// List applies params as already scoped by access.BuildListParams.
	List(ctx context.Context, params access.ListParams) ([]*entity.Product, int64, error)
	Latest(ctx context.Context, limit int) ([]*entity.Product, error)
	CountByStatus(ctx context.Context, vendorEmail string) (map[entity.ModerationStatus]int64, error)
}
