package repository

import (
	"context"

	"bazaarbondhu/internal/domain/access"
	"bazaarbondhu/internal/domain/entity"
)

type OrderTotals struct {
	Count   int64   `json:"count"`
	Revenue float64 `json:"revenue"`
}

type OrderRepository interface {
	// Create fails with a conflict when an order with the same id exists.
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	List(ctx context.Context, params access.ListParams) ([]*entity.Order, int64, error)
	Totals(ctx context.Context, email string) (OrderTotals, error)
}
