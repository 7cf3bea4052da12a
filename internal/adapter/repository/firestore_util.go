package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"bazaarbondhu/pkg/errors"
)

const (
	usersCollection          = "users"
	productsCollection       = "products"
	advertisementsCollection = "advertisements"
	reviewsCollection        = "reviews"
	watchlistCollection      = "watchlist"
	ordersCollection         = "orders"
)

func IsNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

func isAlreadyExists(err error) bool {
	return status.Code(err) == codes.AlreadyExists
}

// getAll decodes every document matched by query into T.
func getAll[T any](ctx context.Context, query firestore.Query, what string) ([]*T, error) {
	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, errors.Internal("Failed to query "+what, err)
	}

	items := make([]*T, 0, len(docs))
	for _, doc := range docs {
		var item T
		if err := doc.DataTo(&item); err != nil {
			return nil, errors.Internal("Failed to parse "+what+" data", err)
		}
		items = append(items, &item)
	}
	return items, nil
}

func getOne[T any](ctx context.Context, ref *firestore.DocumentRef, what string) (*T, error) {
	doc, err := ref.Get(ctx)
	if err != nil {
		if IsNotFound(err) {
			return nil, errors.NotFound(what, err)
		}
		return nil, errors.Internal("Failed to get "+what, err)
	}

	var item T
	if err := doc.DataTo(&item); err != nil {
		return nil, errors.Internal("Failed to parse "+what+" data", err)
	}
	return &item, nil
}
