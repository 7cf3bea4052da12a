package memory

import (
	"context"

	"bazaarbondhu/internal/domain/access"
	"bazaarbondhu/internal/domain/entity"
	"bazaarbondhu/internal/domain/repository"
	"bazaarbondhu/pkg/errors"
)

type orderRepository struct {
	orders *table[entity.Order]
}

func NewOrderRepository() repository.OrderRepository {
	return &orderRepository{orders: newTable[entity.Order]()}
}

func (r *orderRepository) Create(_ context.Context, order *entity.Order) error {
	order.ID = order.TransactionID
	row := *order
	row.PaymentMethod = append([]string(nil), order.PaymentMethod...)
	if !r.orders.put(row.ID, row, true) {
		return errors.Conflict("Payment already recorded")
	}
	return nil
}

func (r *orderRepository) GetByID(_ context.Context, id string) (*entity.Order, error) {
	o, ok := r.orders.get(id)
	if !ok {
		return nil, errors.NotFound("Order", nil)
	}
	return &o, nil
}

func (r *orderRepository) List(_ context.Context, params access.ListParams) ([]*entity.Order, int64, error) {
	page, total := repository.FilterOrders(ptrs(r.orders.all()), params)
	return page, total, nil
}

func (r *orderRepository) Totals(_ context.Context, email string) (repository.OrderTotals, error) {
	var totals repository.OrderTotals
	for _, o := range r.orders.all() {
		if email != "" && o.Email != email {
			continue
		}
		totals.Count++
		totals.Revenue += o.Amount
	}
	return totals, nil
}
