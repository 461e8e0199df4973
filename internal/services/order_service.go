// Package services – OrderService
//
// OrderService turns service-request form values into order documents and
// persists them through an OrderStore. Submissions may carry an idempotency
// key; a retried submission with the same key returns the original order id
// without writing again.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/cdforge/forge-site/internal/content"
	"github.com/cdforge/forge-site/internal/receipt"
)

// Document values written by the intake form.
const (
	OrderSourceServiceRequest = "service_request"
	OrderScope                = "orders"
)

// OrderStore is the persistence contract for orders. The store assigns the
// id, createdAt and updatedAt.
type OrderStore interface {
	AddOrder(ctx context.Context, doc map[string]any) (string, error)
	ListOrders(ctx context.Context, limit int) ([]receipt.Raw, error)
	// GetOrder returns ErrOrderNotFound when id does not exist.
	GetOrder(ctx context.Context, id string) (receipt.Raw, error)
}

// IdempotencyStore remembers which order a (subject, key) pair produced.
type IdempotencyStore interface {
	Lookup(ctx context.Context, subject, scope, key string, now time.Time) (resourceID string, found bool, err error)
	Remember(ctx context.Context, subject, scope, key, resourceID string, status int, ttl time.Duration) error
}

// OrderInput is the service-request form.
type OrderInput struct {
	Name          string   `json:"name"`
	Email         string   `json:"email"`
	Phone         string   `json:"phone"`
	Service       string   `json:"service"`
	Category      string   `json:"category"`
	Description   string   `json:"description"`
	Budget        string   `json:"budget"`
	Deadline      string   `json:"deadline"`
	Requirements  []string `json:"requirements"`
	Platform      string   `json:"platform"`
	ContactMethod string   `json:"contactMethod"`
}

// OrderService validates and stores service requests.
type OrderService struct {
	Store       OrderStore
	Idempotency IdempotencyStore
	// IdempotencyTTL bounds how long a key replays its order.
	IdempotencyTTL time.Duration
}

// NewOrderService constructs an OrderService. idem may be nil to disable
// replay detection.
func NewOrderService(store OrderStore, idem IdempotencyStore, ttl time.Duration) *OrderService {
	return &OrderService{Store: store, Idempotency: idem, IdempotencyTTL: ttl}
}

// Submission is the outcome of Submit.
type Submission struct {
	ID       string
	Replayed bool
}

// Submit validates in and stores it as a pending order. When key is set and
// subject already submitted with it, the earlier order id is returned with
// Replayed set and nothing is written.
func (s *OrderService) Submit(ctx context.Context, subject, key string, in OrderInput) (Submission, error) {
	ctx, span := otel.Tracer("services/OrderService").Start(ctx, "Submit",
		trace.WithAttributes(attribute.String("order.category", in.Category)))
	defer span.End()

	if key != "" && s.Idempotency != nil {
		if id, found, err := s.Idempotency.Lookup(ctx, subject, OrderScope, key, time.Now().UTC()); err == nil && found {
			span.SetAttributes(attribute.Bool("order.replayed", true))
			return Submission{ID: id, Replayed: true}, nil
		}
	}

	doc, err := BuildOrderDocument(in)
	if err != nil {
		return Submission{}, err
	}
	id, err := s.Store.AddOrder(ctx, doc)
	if err != nil {
		span.RecordError(err)
		return Submission{}, err
	}
	span.SetAttributes(attribute.String("order.id", id))

	// Best effort: a lost record only means a retry may write twice.
	if key != "" && s.Idempotency != nil {
		_ = s.Idempotency.Remember(ctx, subject, OrderScope, key, id, 201, s.IdempotencyTTL)
	}
	return Submission{ID: id}, nil
}

// Import stores doc verbatim as an order. It exists for legacy documents
// that predate the intake form.
func (s *OrderService) Import(ctx context.Context, doc map[string]any) (string, error) {
	ctx, span := otel.Tracer("services/OrderService").Start(ctx, "Import")
	defer span.End()

	if len(doc) == 0 {
		return "", ErrEmptyDocument
	}
	if _, err := json.Marshal(doc); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return s.Store.AddOrder(ctx, doc)
}

// BuildOrderDocument validates in and assembles the stored document:
// status, source, customer, summary, requirements and the untouched form
// values under rawPayload.
func BuildOrderDocument(in OrderInput) (map[string]any, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)
	title := strings.TrimSpace(in.Service)
	description := strings.TrimSpace(in.Description)
	category := strings.TrimSpace(in.Category)

	switch {
	case name == "":
		return nil, ErrNameRequired
	case !validEmail(email):
		return nil, ErrInvalidEmail
	case title == "":
		return nil, ErrServiceRequired
	case !content.IsCategory(category):
		return nil, ErrInvalidCategory
	case description == "":
		return nil, ErrDescriptionRequired
	}

	contact := strings.TrimSpace(in.ContactMethod)
	switch receipt.ContactMethod(contact) {
	case "", receipt.ContactEmail, receipt.ContactWhatsApp:
	default:
		return nil, ErrInvalidContact
	}

	summary := map[string]any{
		"title":       title,
		"description": description,
		"category":    category,
		"deadline":    strings.TrimSpace(in.Deadline),
	}
	if b := strings.TrimSpace(in.Budget); b != "" {
		f, err := strconv.ParseFloat(strings.Replace(b, ",", ".", 1), 64)
		if err != nil || f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, ErrInvalidBudget
		}
		summary["budget"] = f
	}

	reqs := make([]any, 0, len(in.Requirements))
	rawReqs := make([]any, 0, len(in.Requirements))
	for _, r := range in.Requirements {
		rawReqs = append(rawReqs, r)
		if r = strings.TrimSpace(r); r != "" {
			reqs = append(reqs, r)
		}
	}

	raw := map[string]any{
		"name":         in.Name,
		"email":        in.Email,
		"phone":        in.Phone,
		"service":      in.Service,
		"category":     in.Category,
		"description":  in.Description,
		"budget":       in.Budget,
		"deadline":     in.Deadline,
		"requirements": rawReqs,
	}

	doc := map[string]any{
		"status": string(receipt.StatusPending),
		"source": OrderSourceServiceRequest,
		"customer": map[string]any{
			"name":  name,
			"email": email,
			"phone": strings.TrimSpace(in.Phone),
		},
		"summary":      summary,
		"requirements": reqs,
		"rawPayload":   raw,
	}
	if p := strings.TrimSpace(in.Platform); p != "" {
		doc["platform"] = p
		raw["platform"] = in.Platform
	}
	if contact != "" {
		doc["contactMethod"] = contact
		raw["contactMethod"] = in.ContactMethod
	}
	return doc, nil
}

func validEmail(s string) bool {
	if s == "" {
		return false
	}
	a, err := mail.ParseAddress(s)
	return err == nil && a.Address == s
}
