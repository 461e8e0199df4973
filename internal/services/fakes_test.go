package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cdforge/forge-site/internal/domain"
	"github.com/cdforge/forge-site/internal/receipt"
)

type fakeReviewStore struct {
	mu       sync.Mutex
	added    []domain.Review
	addErr   error
	lastList int
}

func (f *fakeReviewStore) AddReview(_ context.Context, r *domain.Review) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.addErr != nil {
		return "", f.addErr
	}
	id := fmt.Sprintf("r%d", len(f.added)+1)
	at := time.Date(2025, 6, 1, 12, 0, len(f.added), 0, time.UTC)
	r.CreatedAt = &at
	cp := *r
	cp.ID = id
	f.added = append(f.added, cp)
	return id, nil
}

func (f *fakeReviewStore) ListReviews(_ context.Context, limit int) ([]domain.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastList = limit
	out := make([]domain.Review, 0, len(f.added))
	for i := len(f.added) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, f.added[i])
	}
	return out, nil
}

func (f *fakeReviewStore) ReviewStats(context.Context) (int64, *time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.added)), nil, nil
}

type fakeOrderStore struct {
	mu     sync.Mutex
	docs   []receipt.Raw
	addErr error
}

func (f *fakeOrderStore) AddOrder(_ context.Context, doc map[string]any) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.addErr != nil {
		return "", f.addErr
	}
	id := fmt.Sprintf("o%d", len(f.docs)+1)
	raw := receipt.Raw{}
	for k, v := range doc {
		raw[k] = v
	}
	raw["id"] = id
	f.docs = append(f.docs, raw)
	return id, nil
}

func (f *fakeOrderStore) ListOrders(_ context.Context, limit int) ([]receipt.Raw, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []receipt.Raw{}
	for i := len(f.docs) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		out = append(out, f.docs[i])
	}
	return out, nil
}

func (f *fakeOrderStore) GetOrder(_ context.Context, id string) (receipt.Raw, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range f.docs {
		if d["id"] == id {
			return d, nil
		}
	}
	return nil, ErrOrderNotFound
}

type fakeIdem struct {
	mu   sync.Mutex
	recs map[string]string
}

func (f *fakeIdem) Lookup(_ context.Context, subject, scope, key string, _ time.Time) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.recs[subject+"|"+scope+"|"+key]
	return id, ok, nil
}

func (f *fakeIdem) Remember(_ context.Context, subject, scope, key, id string, _ int, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.recs == nil {
		f.recs = map[string]string{}
	}
	k := subject + "|" + scope + "|" + key
	if _, dup := f.recs[k]; dup {
		return errors.New("duplicate")
	}
	f.recs[k] = id
	return nil
}
