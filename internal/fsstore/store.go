// Package fsstore implements the review and order stores on Cloud Firestore.
//
// Documents live in the "reviews" and "orders" collections. Creation and
// update timestamps are always assigned by the server with
// firestore.ServerTimestamp, and every read path orders by createdAt
// descending.
package fsstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/firestore/apiv1/firestorepb"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/cdforge/forge-site/internal/domain"
	"github.com/cdforge/forge-site/internal/receipt"
)

// Collection names.
const (
	ReviewsCollection = "reviews"
	OrdersCollection  = "orders"
)

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("document not found")

// Store wraps a Firestore client.
type Store struct {
	client *firestore.Client
}

// Open dials Firestore for projectID. When credentialsFile is empty the
// client falls back to Application Default Credentials (or the emulator when
// FIRESTORE_EMULATOR_HOST is set).
func Open(ctx context.Context, projectID, credentialsFile string) (*Store, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	c, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("firestore client: %w", err)
	}
	return New(c), nil
}

// New wraps an existing client.
func New(c *firestore.Client) *Store {
	return &Store{client: c}
}

// Close releases the underlying client.
func (s *Store) Close() error { return s.client.Close() }

// AddReview writes r to the reviews collection and returns the new document
// id. Any id or createdAt already on r is ignored; on success r.CreatedAt is
// set to the commit time, which is the value the server timestamp resolves to.
func (s *Store) AddReview(ctx context.Context, r *domain.Review) (string, error) {
	ref := s.client.Collection(ReviewsCollection).NewDoc()
	user := map[string]any{
		"uid":   r.User.UID,
		"name":  r.User.Name,
		"email": r.User.Email,
	}
	if r.User.PhotoURL != "" {
		user["photoURL"] = r.User.PhotoURL
	}
	wr, err := ref.Create(ctx, map[string]any{
		"service":   r.Service,
		"rating":    r.Rating,
		"message":   r.Message,
		"user":      user,
		"createdAt": firestore.ServerTimestamp,
	})
	if err != nil {
		return "", err
	}
	at := wr.UpdateTime.UTC()
	r.CreatedAt = &at
	return ref.ID, nil
}

// ListReviews returns at most limit reviews, newest first. A limit <= 0
// returns every review.
func (s *Store) ListReviews(ctx context.Context, limit int) ([]domain.Review, error) {
	q := s.client.Collection(ReviewsCollection).OrderBy("createdAt", firestore.Desc)
	if limit > 0 {
		q = q.Limit(limit)
	}
	snaps, err := q.Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	out := make([]domain.Review, 0, len(snaps))
	for _, snap := range snaps {
		var r domain.Review
		if err := snap.DataTo(&r); err != nil {
			return nil, fmt.Errorf("decode review %s: %w", snap.Ref.ID, err)
		}
		r.ID = snap.Ref.ID
		out = append(out, r)
	}
	return out, nil
}

// ReviewStats returns the review count and the newest createdAt.
func (s *Store) ReviewStats(ctx context.Context) (int64, *time.Time, error) {
	coll := s.client.Collection(ReviewsCollection)

	res, err := coll.NewAggregationQuery().WithCount("all").Get(ctx)
	if err != nil {
		return 0, nil, err
	}
	v, ok := res["all"].(*firestorepb.Value)
	if !ok {
		return 0, nil, errors.New("unexpected aggregation result")
	}
	count := v.GetIntegerValue()
	if count == 0 {
		return 0, nil, nil
	}

	snaps, err := coll.OrderBy("createdAt", firestore.Desc).Limit(1).Documents(ctx).GetAll()
	if err != nil {
		return 0, nil, err
	}
	if len(snaps) == 0 {
		return count, nil, nil
	}
	at, ok := snaps[0].Data()["createdAt"].(time.Time)
	if !ok {
		return count, nil, nil
	}
	return count, &at, nil
}

// AddOrder writes doc to the orders collection. The store owns id,
// createdAt and updatedAt; those keys in doc are replaced.
func (s *Store) AddOrder(ctx context.Context, doc map[string]any) (string, error) {
	body := make(map[string]any, len(doc)+2)
	for k, v := range doc {
		if k == "id" {
			continue
		}
		body[k] = v
	}
	body["createdAt"] = firestore.ServerTimestamp
	body["updatedAt"] = firestore.ServerTimestamp

	ref := s.client.Collection(OrdersCollection).NewDoc()
	if _, err := ref.Create(ctx, body); err != nil {
		return "", err
	}
	return ref.ID, nil
}

// ListOrders returns at most limit raw order documents, newest first. Each
// record carries its document id under "id".
func (s *Store) ListOrders(ctx context.Context, limit int) ([]receipt.Raw, error) {
	q := s.client.Collection(OrdersCollection).OrderBy("createdAt", firestore.Desc)
	if limit > 0 {
		q = q.Limit(limit)
	}
	snaps, err := q.Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	out := make([]receipt.Raw, 0, len(snaps))
	for _, snap := range snaps {
		out = append(out, record(snap))
	}
	return out, nil
}

// GetOrder fetches one raw order document, or ErrNotFound.
func (s *Store) GetOrder(ctx context.Context, id string) (receipt.Raw, error) {
	if id == "" {
		return nil, ErrNotFound
	}
	snap, err := s.client.Collection(OrdersCollection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return record(snap), nil
}

func record(snap *firestore.DocumentSnapshot) receipt.Raw {
	raw := receipt.Raw(snap.Data())
	if raw == nil {
		raw = receipt.Raw{}
	}
	raw["id"] = snap.Ref.ID
	return raw
}
