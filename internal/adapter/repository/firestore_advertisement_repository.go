package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"

	"bazaarbondhu/internal/domain/access"
	"bazaarbondhu/internal/domain/entity"
	"bazaarbondhu/internal/domain/repository"
	"bazaarbondhu/pkg/errors"
)

type firestoreAdvertisementRepository struct {
	client *firestore.Client
}

func NewFirestoreAdvertisementRepository(client *firestore.Client) repository.AdvertisementRepository {
	return &firestoreAdvertisementRepository{client: client}
}

func (r *firestoreAdvertisementRepository) Create(ctx context.Context, ad *entity.Advertisement) error {
	if ad.ID == "" {
		ad.ID = r.client.Collection(advertisementsCollection).NewDoc().ID
	}
	now := time.Now()
	if ad.CreatedAt.IsZero() {
		ad.CreatedAt = now
	}
	ad.UpdatedAt = now

	if _, err := r.client.Collection(advertisementsCollection).Doc(ad.ID).Set(ctx, ad); err != nil {
		return errors.Internal("Failed to create advertisement", err)
	}
	return nil
}

func (r *firestoreAdvertisementRepository) GetByID(ctx context.Context, id string) (*entity.Advertisement, error) {
	return getOne[entity.Advertisement](ctx, r.client.Collection(advertisementsCollection).Doc(id), "Advertisement")
}

func (r *firestoreAdvertisementRepository) Update(ctx context.Context, ad *entity.Advertisement) error {
	ad.UpdatedAt = time.Now()
	if _, err := r.client.Collection(advertisementsCollection).Doc(ad.ID).Set(ctx, ad); err != nil {
		return errors.Internal("Failed to update advertisement", err)
	}
	return nil
}

func (r *firestoreAdvertisementRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.client.Collection(advertisementsCollection).Doc(id).Delete(ctx); err != nil {
		return errors.Internal("Failed to delete advertisement", err)
	}
	return nil
}

func (r *firestoreAdvertisementRepository) List(ctx context.Context, params access.ListParams) ([]*entity.Advertisement, int64, error) {
	query := r.client.Collection(advertisementsCollection).Query
	if params.VendorEmail != "" {
		query = query.Where("vendorEmail", "==", params.VendorEmail)
	}
	if params.Status != "" {
		query = query.Where("status", "==", string(params.Status))
	}

	ads, err := getAll[entity.Advertisement](ctx, query, "advertisements")
	if err != nil {
		return nil, 0, err
	}

	page, total := repository.FilterAdvertisements(ads, params)
	return page, total, nil
}

func (r *firestoreAdvertisementRepository) CountByVendor(ctx context.Context, vendorEmail string) (int64, error) {
	docs, err := r.client.Collection(advertisementsCollection).
		Where("vendorEmail", "==", vendorEmail).
		Documents(ctx).GetAll()
	if err != nil {
		return 0, errors.Internal("Failed to count advertisements", err)
	}
	return int64(len(docs)), nil
}
