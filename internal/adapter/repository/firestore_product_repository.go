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

type firestoreProductRepository struct {
	client *firestore.Client
}

func NewFirestoreProductRepository(client *firestore.Client) repository.ProductRepository {
	return &firestoreProductRepository{
		client: client,
	}
}

func (r *firestoreProductRepository) Create(ctx context.Context, product *entity.Product) error {
	if product.ID == "" {
		doc := r.client.Collection(productsCollection).NewDoc()
		product.ID = doc.ID
	}

	now := time.Now()
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	product.UpdatedAt = now

	_, err := r.client.Collection(productsCollection).Doc(product.ID).Set(ctx, product)
	if err != nil {
		return errors.Internal("Failed to create product", err)
	}

	return nil
}

func (r *firestoreProductRepository) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return getOne[entity.Product](ctx, r.client.Collection(productsCollection).Doc(id), "Product")
}

func (r *firestoreProductRepository) Update(ctx context.Context, product *entity.Product) error {
	product.UpdatedAt = time.Now()

	_, err := r.client.Collection(productsCollection).Doc(product.ID).Set(ctx, product)
	if err != nil {
		return errors.Internal("Failed to update product", err)
	}

	return nil
}

func (r *firestoreProductRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection(productsCollection).Doc(id).Delete(ctx)
	if err != nil {
		return errors.Internal("Failed to delete product", err)
	}

	return nil
}

// List pushes the equality filters down to Firestore; date range, search,
// sort and paging run over the matched set.
func (r *firestoreProductRepository) List(ctx context.Context, params access.ListParams) ([]*entity.Product, int64, error) {
	query := r.client.Collection(productsCollection).Query
	if params.VendorEmail != "" {
		query = query.Where("vendorEmail", "==", params.VendorEmail)
	}
	if params.Status != "" {
		query = query.Where("status", "==", string(params.Status))
	}

	products, err := getAll[entity.Product](ctx, query, "products")
	if err != nil {
		return nil, 0, err
	}

	page, total := repository.FilterProducts(products, params)
	return page, total, nil
}

func (r *firestoreProductRepository) Latest(ctx context.Context, limit int) ([]*entity.Product, error) {
	query := r.client.Collection(productsCollection).
		Where("status", "==", string(entity.StatusApproved)).
		OrderBy("createdAt", firestore.Desc).
		Limit(limit)

	return getAll[entity.Product](ctx, query, "products")
}

func (r *firestoreProductRepository) CountByStatus(ctx context.Context, vendorEmail string) (map[entity.ModerationStatus]int64, error) {
	query := r.client.Collection(productsCollection).Query
	if vendorEmail != "" {
		query = query.Where("vendorEmail", "==", vendorEmail)
	}

	products, err := getAll[entity.Product](ctx, query.Select("status"), "products")
	if err != nil {
		return nil, err
	}

	counts := map[entity.ModerationStatus]int64{}
	for _, p := range products {
		counts[p.Status]++
	}
	return counts, nil
}
