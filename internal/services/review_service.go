// Package services – ReviewService
//
// ReviewService validates review submissions and reads the public review
// feed. Validation runs before any store call, so a rejected review never
// reaches the store.
package services

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/cdforge/forge-site/internal/auth"
	"github.com/cdforge/forge-site/internal/domain"
)

// ReviewStore is the persistence contract for reviews. The store assigns
// the id and creation time; AddReview reports the time it assigned by
// setting r.CreatedAt.
type ReviewStore interface {
	AddReview(ctx context.Context, r *domain.Review) (string, error)
	ListReviews(ctx context.Context, limit int) ([]domain.Review, error)
	ReviewStats(ctx context.Context) (count int64, latest *time.Time, err error)
}

// ReviewInput is a review as typed into the form.
type ReviewInput struct {
	Service string
	Rating  int
	Message string
}

// ReviewService coordinates review submission and listing.
type ReviewService struct {
	Store ReviewStore

	// DefaultLimit applies when List is called with limit <= 0.
	DefaultLimit int
	// MaxLimit caps the page size.
	MaxLimit int

	now func() time.Time
}

// NewReviewService constructs a ReviewService with a 20 item default page
// capped at 100.
func NewReviewService(store ReviewStore) *ReviewService {
	return &ReviewService{Store: store, DefaultLimit: 20, MaxLimit: 100, now: time.Now}
}

// Submit validates in and stores it as a review by user.
func (s *ReviewService) Submit(ctx context.Context, user *auth.User, in ReviewInput) (*domain.Review, error) {
	ctx, span := otel.Tracer("services/ReviewService").Start(ctx, "Submit",
		trace.WithAttributes(attribute.Int("review.rating", in.Rating)))
	defer span.End()

	service := strings.TrimSpace(in.Service)
	message := strings.TrimSpace(in.Message)
	switch {
	case service == "":
		return nil, ErrServiceRequired
	case in.Rating < 1 || in.Rating > 5:
		return nil, ErrRatingRequired
	case message == "":
		return nil, ErrMessageRequired
	case user == nil || user.UID == "":
		return nil, ErrSignInRequired
	}

	r := &domain.Review{
		Service: service,
		Rating:  in.Rating,
		Message: message,
		User: domain.ReviewUser{
			UID:      user.UID,
			Name:     DisplayName(user),
			Email:    user.Email,
			PhotoURL: user.PhotoURL,
		},
	}
	id, err := s.Store.AddReview(ctx, r)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	r.ID = id
	if r.CreatedAt == nil {
		now := s.clock().UTC()
		r.CreatedAt = &now
	}
	span.SetAttributes(attribute.String("review.id", id))
	return r, nil
}

// List returns the newest reviews. limit <= 0 means DefaultLimit; values
// above MaxLimit are clamped.
func (s *ReviewService) List(ctx context.Context, limit int) ([]domain.Review, error) {
	ctx, span := otel.Tracer("services/ReviewService").Start(ctx, "List")
	defer span.End()

	if limit <= 0 {
		limit = s.DefaultLimit
	}
	if s.MaxLimit > 0 && limit > s.MaxLimit {
		limit = s.MaxLimit
	}
	span.SetAttributes(attribute.Int("page.limit", limit))
	return s.Store.ListReviews(ctx, limit)
}

// Stats reports the review count and the newest creation time.
func (s *ReviewService) Stats(ctx context.Context) (int64, *time.Time, error) {
	return s.Store.ReviewStats(ctx)
}

func (s *ReviewService) clock() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}

// DisplayName is the name shown on a review: the profile name, else the
// local part of the email, else "Usuário".
func DisplayName(u *auth.User) string {
	if u == nil {
		return "Usuário"
	}
	if n := strings.TrimSpace(u.Name); n != "" {
		return n
	}
	if at := strings.IndexByte(u.Email, '@'); at > 0 {
		return u.Email[:at]
	}
	return "Usuário"
}
