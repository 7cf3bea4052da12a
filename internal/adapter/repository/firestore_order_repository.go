package repository

import (
	"context"

	"cloud.google.com/go/firestore"

	"bazaarbondhu/internal/domain/access"
	"bazaarbondhu/internal/domain/entity"
	"bazaarbondhu/internal/domain/repository"
	"bazaarbondhu/pkg/errors"
)

type firestoreOrderRepository struct {
	client *firestore.Client
}

func NewFirestoreOrderRepository(client *firestore.Client) repository.OrderRepository {
	return &firestoreOrderRepository{client: client}
}

func (r *firestoreOrderRepository) Create(ctx context.Context, order *entity.Order) error {
	order.ID = order.TransactionID

	_, err := r.client.Collection(ordersCollection).Doc(order.ID).Create(ctx, order)
	if err != nil {
		if isAlreadyExists(err) {
			return errors.Conflict("Payment already recorded")
		}
		return errors.Internal("Failed to record order", err)
	}
	return nil
}

func (r *firestoreOrderRepository) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	return getOne[entity.Order](ctx, r.client.Collection(ordersCollection).Doc(id), "Order")
}

func (r *firestoreOrderRepository) List(ctx context.Context, params access.ListParams) ([]*entity.Order, int64, error) {
	query := r.client.Collection(ordersCollection).Query
	if params.Email != "" {
		query = query.Where("email", "==", params.Email)
	}
	if params.VendorEmail != "" {
		query = query.Where("vendorEmail", "==", params.VendorEmail)
	}

	orders, err := getAll[entity.Order](ctx, query, "orders")
	if err != nil {
		return nil, 0, err
	}

	page, total := repository.FilterOrders(orders, params)
	return page, total, nil
}

func (r *firestoreOrderRepository) Totals(ctx context.Context, email string) (repository.OrderTotals, error) {
	query := r.client.Collection(ordersCollection).Query
	if email != "" {
		query = query.Where("email", "==", email)
	}

	orders, err := getAll[entity.Order](ctx, query.Select("amount"), "orders")
	if err != nil {
		return repository.OrderTotals{}, err
	}

	var totals repository.OrderTotals
	for _, o := range orders {
		totals.Count++
		totals.Revenue += o.Amount
	}
	return totals, nil
}
