package httpapi

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/cdforge/forge-site/internal/auth"
	"github.com/cdforge/forge-site/internal/domain"
	"github.com/cdforge/forge-site/internal/fsstore"
	"github.com/cdforge/forge-site/internal/receipt"
	"github.com/cdforge/forge-site/internal/repo"
	"github.com/cdforge/forge-site/internal/services"
)

// Stores selects the backend for reviews and orders.
type Stores struct {
	Reviews services.ReviewStore
	Orders  services.OrderStore
}

// SQLiteStores keeps reviews and orders in the application database.
func SQLiteStores(db *gorm.DB) Stores {
	return Stores{Reviews: reviewRepoShim{db: db}, Orders: orderRepoShim{db: db}}
}

// FirestoreStores keeps reviews and orders in Cloud Firestore.
func FirestoreStores(fs *fsstore.Store) Stores {
	return Stores{Reviews: fs, Orders: firestoreOrders{fs}}
}

// reviewRepoShim adapts the repo free functions to services.ReviewStore.
type reviewRepoShim struct{ db *gorm.DB }

func (s reviewRepoShim) AddReview(ctx context.Context, r *domain.Review) (string, error) {
	saved, err := repo.CreateReview(ctx, s.db, r)
	if err != nil {
		return "", err
	}
	r.CreatedAt = saved.CreatedAt
	return saved.ID, nil
}

func (s reviewRepoShim) ListReviews(ctx context.Context, limit int) ([]domain.Review, error) {
	return repo.ListReviews(ctx, s.db, limit)
}

func (s reviewRepoShim) ReviewStats(ctx context.Context) (int64, *time.Time, error) {
	return repo.ReviewsStats(ctx, s.db)
}

// orderRepoShim adapts the repo free functions to services.OrderStore and
// services.OrderStatser.
type orderRepoShim struct{ db *gorm.DB }

func (s orderRepoShim) AddOrder(ctx context.Context, doc map[string]any) (string, error) {
	o, err := repo.CreateOrder(ctx, s.db, doc)
	if err != nil {
		return "", err
	}
	return o.ID, nil
}

func (s orderRepoShim) ListOrders(ctx context.Context, limit int) ([]receipt.Raw, error) {
	rows, err := repo.ListOrders(ctx, s.db, limit)
	if err != nil {
		return nil, err
	}
	out := make([]receipt.Raw, len(rows))
	for i := range rows {
		out[i] = repo.OrderRecord(&rows[i])
	}
	return out, nil
}

func (s orderRepoShim) GetOrder(ctx context.Context, id string) (receipt.Raw, error) {
	o, err := repo.GetOrder(ctx, s.db, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, services.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return repo.OrderRecord(o), nil
}

func (s orderRepoShim) OrderStats(ctx context.Context) (int64, *time.Time, error) {
	return repo.OrdersStats(ctx, s.db)
}

// firestoreOrders maps the Firestore miss onto the service sentinel.
type firestoreOrders struct{ *fsstore.Store }

func (s firestoreOrders) GetOrder(ctx context.Context, id string) (receipt.Raw, error) {
	raw, err := s.Store.GetOrder(ctx, id)
	if errors.Is(err, fsstore.ErrNotFound) {
		return nil, services.ErrOrderNotFound
	}
	return raw, err
}

// sessionStore persists signed-in sessions in SQLite for auth.Manager.
type sessionStore struct{ db *gorm.DB }

// NewSessionStore returns an auth.SessionStore backed by db.
func NewSessionStore(db *gorm.DB) auth.SessionStore { return sessionStore{db: db} }

func (s sessionStore) Save(ctx context.Context, id string, u auth.User, expiresAt time.Time) error {
	return repo.SaveSession(ctx, s.db, &domain.Session{
		ID:        id,
		UserUID:   u.UID,
		Name:      u.Name,
		Email:     u.Email,
		PhotoURL:  u.PhotoURL,
		ExpiresAt: expiresAt.UTC(),
	})
}

func (s sessionStore) Get(ctx context.Context, id string, now time.Time) (*auth.User, error) {
	sess, err := repo.GetSession(ctx, s.db, id, now.UTC())
	if errors.Is(err, repo.ErrNotFound) {
		return nil, auth.ErrNoSession
	}
	if err != nil {
		return nil, err
	}
	return &auth.User{UID: sess.UserUID, Name: sess.Name, Email: sess.Email, PhotoURL: sess.PhotoURL}, nil
}

func (s sessionStore) Delete(ctx context.Context, id string) error {
	return repo.DeleteSession(ctx, s.db, id)
}

// idempotencyStore implements services.IdempotencyStore on SQLite.
type idempotencyStore struct{ db *gorm.DB }

func (s idempotencyStore) Lookup(ctx context.Context, subject, scope, key string, now time.Time) (string, bool, error) {
	rec, err := repo.GetIdempotency(ctx, s.db, subject, scope, key, now)
	if errors.Is(err, repo.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return rec.ResourceID, true, nil
}

func (s idempotencyStore) Remember(ctx context.Context, subject, scope, key, resourceID string, status int, ttl time.Duration) error {
	_, err := repo.CreateIdempotency(ctx, s.db, subject, scope, key, resourceID, status, ttl)
	return err
}
