// Package services – DashboardService
//
// DashboardService reads stored orders and normalizes each one into a
// canonical receipt. It never mutates stored documents.
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/cdforge/forge-site/internal/content"
	"github.com/cdforge/forge-site/internal/receipt"
	"github.com/cdforge/forge-site/internal/search"
)

// DashboardService renders stored orders as receipts.
type DashboardService struct {
	Orders OrderStore

	// DefaultLimit applies when Receipts is called with limit <= 0.
	DefaultLimit int
	// SearchWindow is how many recent orders Search ranks.
	SearchWindow int

	// Observe, when set, is called with the shape of every record read.
	Observe func(receipt.Shape)
}

// NewDashboardService constructs a DashboardService showing the latest 100
// orders and searching the latest 500.
func NewDashboardService(orders OrderStore) *DashboardService {
	return &DashboardService{Orders: orders, DefaultLimit: 100, SearchWindow: 500}
}

// Receipts returns the newest orders as receipts. Records that cannot be
// rendered are skipped and logged.
func (s *DashboardService) Receipts(ctx context.Context, limit int) ([]receipt.Model, error) {
	ctx, span := otel.Tracer("services/DashboardService").Start(ctx, "Receipts")
	defer span.End()

	if limit <= 0 {
		limit = s.DefaultLimit
	}
	raws, err := s.Orders.ListOrders(ctx, limit)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	out := s.build(ctx, raws)
	span.SetAttributes(attribute.Int("receipts.count", len(out)))
	return out, nil
}

// Receipt returns one order as a receipt, or ErrOrderNotFound.
func (s *DashboardService) Receipt(ctx context.Context, id string) (*receipt.Model, error) {
	ctx, span := otel.Tracer("services/DashboardService").Start(ctx, "Receipt")
	defer span.End()
	span.SetAttributes(attribute.String("order.id", id))

	raw, err := s.Orders.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, ErrOrderNotFound
	}
	m := receipt.Build(raw)
	s.observe(m.Shape)
	return &m, nil
}

// Search ranks recent receipts by token overlap with query and returns at
// most k of them, best first. A blank query returns no results.
func (s *DashboardService) Search(ctx context.Context, query string, k int) ([]receipt.Model, error) {
	ctx, span := otel.Tracer("services/DashboardService").Start(ctx, "Search")
	defer span.End()

	if strings.TrimSpace(query) == "" {
		return []receipt.Model{}, nil
	}
	all, err := s.Receipts(ctx, s.SearchWindow)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]receipt.Model, len(all))
	docs := make([]search.Document, 0, len(all))
	for _, m := range all {
		byID[m.OrderID] = m
		docs = append(docs, search.Document{ID: m.OrderID, Text: searchText(m)})
	}
	hits := search.New(docs, search.WithStopwords(search.PortugueseStopwords)).TopK(query, k)

	out := make([]receipt.Model, 0, len(hits))
	for _, h := range hits {
		out = append(out, byID[h.ID])
	}
	span.SetAttributes(attribute.Int("search.hits", len(out)))
	return out, nil
}

// ErrStatsUnavailable is returned by Stats when the order store cannot
// report aggregates cheaply.
var ErrStatsUnavailable = errors.New("order stats unavailable")

// OrderStatser is implemented by order stores that can report the order
// count and the newest update time in one cheap query.
type OrderStatser interface {
	OrderStats(ctx context.Context) (count int64, latest *time.Time, err error)
}

// Stats reports the order count and newest update for conditional
// responses, or ErrStatsUnavailable.
func (s *DashboardService) Stats(ctx context.Context) (int64, *time.Time, error) {
	st, ok := s.Orders.(OrderStatser)
	if !ok {
		return 0, nil, ErrStatsUnavailable
	}
	return st.OrderStats(ctx)
}

func (s *DashboardService) build(ctx context.Context, raws []receipt.Raw) []receipt.Model {
	out := make([]receipt.Model, 0, len(raws))
	for i, raw := range raws {
		// Build is total, so an empty record is the only one not worth rendering.
		if len(raw) == 0 {
			zerolog.Ctx(ctx).Warn().Int("index", i).Msg("skipping empty order record")
			continue
		}
		m := receipt.Build(raw)
		s.observe(m.Shape)
		out = append(out, m)
	}
	return out
}

func (s *DashboardService) observe(sh receipt.Shape) {
	if s.Observe != nil {
		s.Observe(sh)
	}
}

func searchText(m receipt.Model) string {
	parts := []string{
		m.OrderID,
		m.Customer.Name,
		m.Customer.Email,
		m.Service.Title,
		m.Service.Description,
		m.Service.Category,
		content.CategoryLabel(m.Service.Category),
		m.Service.Platform,
	}
	parts = append(parts, m.Requirements...)
	return strings.Join(parts, " ")
}
