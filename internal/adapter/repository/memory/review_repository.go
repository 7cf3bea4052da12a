package memory

import (
	"context"
	"sort"
	"time"

	"bazaarbondhu/internal/domain/entity"
	"bazaarbondhu/internal/domain/repository"
)

type reviewRepository struct {
	reviews *table[entity.Review]
}

func NewReviewRepository() repository.ReviewRepository {
	return &reviewRepository{reviews: newTable[entity.Review]()}
}

func (r *reviewRepository) Create(_ context.Context, review *entity.Review) error {
	if review.ID == "" {
		review.ID = newID()
	}
	if review.Date.IsZero() {
		review.Date = time.Now()
	}
	r.reviews.put(review.ID, *review, true)
	return nil
}

func (r *reviewRepository) ListByProduct(_ context.Context, productID string) ([]*entity.Review, error) {
	var out []*entity.Review
	for _, rv := range ptrs(r.reviews.all()) {
		if rv.ProductID == productID {
			out = append(out, rv)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if out == nil {
		out = []*entity.Review{}
	}
	return out, nil
}

func (r *reviewRepository) CountByUser(_ context.Context, email string) (int64, error) {
	var n int64
	for _, rv := range r.reviews.all() {
		if rv.UserEmail == email {
			n++
		}
	}
	return n, nil
}
