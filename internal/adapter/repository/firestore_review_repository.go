package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"

	"bazaarbondhu/internal/domain/entity"
	"bazaarbondhu/internal/domain/repository"
	"bazaarbondhu/pkg/errors"
)

type firestoreReviewRepository struct {
	client *firestore.Client
}

func NewFirestoreReviewRepository(client *firestore.Client) repository.ReviewRepository {
	return &firestoreReviewRepository{
		client: client,
	}
}

func (r *firestoreReviewRepository) Create(ctx context.Context, review *entity.Review) error {
	if review.ID == "" {
		review.ID = uuid.New().String()
	}
	if review.Date.IsZero() {
		review.Date = time.Now()
	}

	_, err := r.client.Collection(reviewsCollection).Doc(review.ID).Set(ctx, review)
	if err != nil {
		return errors.Internal("Failed to create review", err)
	}

	return nil
}

func (r *firestoreReviewRepository) ListByProduct(ctx context.Context, productID string) ([]*entity.Review, error) {
	query := r.client.Collection(reviewsCollection).
		Where("productId", "==", productID).
		OrderBy("date", firestore.Desc)

	return getAll[entity.Review](ctx, query, "reviews")
}

func (r *firestoreReviewRepository) CountByUser(ctx context.Context, email string) (int64, error) {
	docs, err := r.client.Collection(reviewsCollection).Where("userEmail", "==", email).Documents(ctx).GetAll()
	if err != nil {
		return 0, errors.Internal("Failed to count reviews", err)
	}
	return int64(len(docs)), nil
}
