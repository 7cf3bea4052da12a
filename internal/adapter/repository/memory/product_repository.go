package memory

import (
	"context"
	"time"

	"bazaarbondhu/internal/domain/access"
	"bazaarbondhu/internal/domain/entity"
	"bazaarbondhu/internal/domain/repository"
	"bazaarbondhu/pkg/errors"
)

type productRepository struct {
	products *table[entity.Product]
}

func NewProductRepository() repository.ProductRepository {
	return &productRepository{products: newTable[entity.Product]()}
}

func clonePrices(in []entity.PricePoint) []entity.PricePoint {
	return append([]entity.PricePoint(nil), in...)
}

func (r *productRepository) Create(_ context.Context, product *entity.Product) error {
	if product.ID == "" {
		product.ID = newID()
	}
	now := time.Now()
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	product.UpdatedAt = now

	row := *product
	row.PriceHistory = clonePrices(product.PriceHistory)
	r.products.put(row.ID, row, false)
	return nil
}

func (r *productRepository) GetByID(_ context.Context, id string) (*entity.Product, error) {
	p, ok := r.products.get(id)
	if !ok {
		return nil, errors.NotFound("Product", nil)
	}
	p.PriceHistory = clonePrices(p.PriceHistory)
	return &p, nil
}

func (r *productRepository) Update(_ context.Context, product *entity.Product) error {
	if _, ok := r.products.get(product.ID); !ok {
		return errors.NotFound("Product", nil)
	}
	product.UpdatedAt = time.Now()
	row := *product
	row.PriceHistory = clonePrices(product.PriceHistory)
	r.products.put(row.ID, row, false)
	return nil
}

func (r *productRepository) Delete(_ context.Context, id string) error {
	if !r.products.delete(id) {
		return errors.NotFound("Product", nil)
	}
	return nil
}

func (r *productRepository) List(_ context.Context, params access.ListParams) ([]*entity.Product, int64, error) {
	page, total := repository.FilterProducts(ptrs(r.products.all()), params)
	return page, total, nil
}

func (r *productRepository) Latest(_ context.Context, limit int) ([]*entity.Product, error) {
	page, _ := repository.FilterProducts(ptrs(r.products.all()), access.ListParams{
		Status: entity.StatusApproved,
		Page:   1,
		Limit:  limit,
	})
	return page, nil
}

func (r *productRepository) CountByStatus(_ context.Context, vendorEmail string) (map[entity.ModerationStatus]int64, error) {
	counts := map[entity.ModerationStatus]int64{}
	for _, p := range r.products.all() {
		if vendorEmail != "" && p.VendorEmail != vendorEmail {
			continue
		}
		counts[p.Status]++
	}
	return counts, nil
}
