package repositories

import (
	"context"

	"brightnest/internal/database"
	"brightnest/internal/logger"
	. "brightnest/internal/models"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *Review) error
	ListByCleaner(ctx context.Context, cleanerID int) ([]Review, error)
}

type reviewRepository struct {
	db  database.DB
	log logger.Logger
}

func NewReviewRepository(db database.DB) ReviewRepository {
	return &reviewRepository{
		db:  db,
		log: logger.New("reviewRepository"),
	}
}

func (r *reviewRepository) Create(ctx context.Context, review *Review) error {
	log := r.log.Function("Create")

	if err := r.db.SQLWithContext(ctx).Create(review).Error; err != nil {
		return log.Err("failed to create review", err,
			"reviewerID", review.ReviewerID, "cleanerID", review.CleanerID)
	}

	return nil
}

func (r *reviewRepository) ListByCleaner(ctx context.Context, cleanerID int) ([]Review, error) {
	log := r.log.Function("ListByCleaner")

	var reviews []Review
	err := r.db.SQLWithContext(ctx).
		Where("cleaner_id = ?", cleanerID).
		Order("created_at desc").
		Find(&reviews).Error
	if err != nil {
		return nil, log.Err("failed to list reviews", err, "cleanerID", cleanerID)
	}

	return reviews, nil
}
