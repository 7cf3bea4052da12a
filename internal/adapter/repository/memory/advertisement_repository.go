package memory

import (
	"context"
	"time"

	"bazaarbondhu/internal/domain/access"
	"bazaarbondhu/internal/domain/entity"
	"bazaarbondhu/internal/domain/repository"
	"bazaarbondhu/pkg/errors"
)

type advertisementRepository struct {
	ads *table[entity.Advertisement]
}

func NewAdvertisementRepository() repository.AdvertisementRepository {
	return &advertisementRepository{ads: newTable[entity.Advertisement]()}
}

func (r *advertisementRepository) Create(_ context.Context, ad *entity.Advertisement) error {
	if ad.ID == "" {
		ad.ID = newID()
	}
	now := time.Now()
	if ad.CreatedAt.IsZero() {
		ad.CreatedAt = now
	}
	ad.UpdatedAt = now
	r.ads.put(ad.ID, *ad, false)
	return nil
}

func (r *advertisementRepository) GetByID(_ context.Context, id string) (*entity.Advertisement, error) {
	ad, ok := r.ads.get(id)
	if !ok {
		return nil, errors.NotFound("Advertisement", nil)
	}
	return &ad, nil
}

func (r *advertisementRepository) Update(_ context.Context, ad *entity.Advertisement) error {
	if _, ok := r.ads.get(ad.ID); !ok {
		return errors.NotFound("Advertisement", nil)
	}
	ad.UpdatedAt = time.Now()
	r.ads.put(ad.ID, *ad, false)
	return nil
}

func (r *advertisementRepository) Delete(_ context.Context, id string) error {
	if !r.ads.delete(id) {
		return errors.NotFound("Advertisement", nil)
	}
	return nil
}

func (r *advertisementRepository) List(_ context.Context, params access.ListParams) ([]*entity.Advertisement, int64, error) {
	page, total := repository.FilterAdvertisements(ptrs(r.ads.all()), params)
	return page, total, nil
}

func (r *advertisementRepository) CountByVendor(_ context.Context, vendorEmail string) (int64, error) {
	var n int64
	for _, ad := range r.ads.all() {
		if ad.VendorEmail == vendorEmail {
			n++
		}
	}
	return n, nil
}
