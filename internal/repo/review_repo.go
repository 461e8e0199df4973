// Package repo implements the SQLite persistence layer. This file provides
// repository functions for the Review model.
//
// Reviews are append-only: there is no update or delete path. Reads are
// always newest first.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cdforge/forge-site/internal/domain"
)

// CreateReview inserts r with a fresh UUID and a store-assigned CreatedAt.
// Any ID or CreatedAt already on r is overwritten.
func CreateReview(ctx context.Context, db *gorm.DB, r *domain.Review) (*domain.Review, error) {
	now := time.Now().UTC()
	row := *r
	row.ID = uuid.NewString()
	row.CreatedAt = &now
	if err := db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// ListReviews returns at most limit reviews ordered by creation time
// descending. A limit <= 0 returns every review.
func ListReviews(ctx context.Context, db *gorm.DB, limit int) ([]domain.Review, error) {
	q := db.WithContext(ctx).Order("created_at desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	out := []domain.Review{}
	err := q.Find(&out).Error
	return out, err
}
