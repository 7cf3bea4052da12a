package repository

import (
	"context"

	"bazaarbondhu/internal/domain/access"
	"bazaarbondhu/internal/domain/entity"
)

type AdvertisementRepository interface {
	Create(ctx context.Context, ad *entity.Advertisement) error
	GetByID(ctx context.Context, id string) (*entity.Advertisement, error)
	Update(ctx context.Context, ad *entity.Advertisement) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, params access.ListParams) ([]*entity.Advertisement, int64, error)
	CountByVendor(ctx context.Context, vendorEmail string) (int64, error)
}
