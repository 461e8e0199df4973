// Package repo implements the SQLite persistence layer. This file provides
// repository functions for the Order model.
//
// Orders are stored as free-form JSON documents. The writer enforces no
// schema; status and source are copied into columns when they are strings.
// Timestamps are always assigned here, never taken from the document.
package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/cdforge/forge-site/internal/domain"
	"github.com/cdforge/forge-site/internal/receipt"
)

// Keys owned by the store. They are stripped from incoming documents and
// re-attached on read.
var storeKeys = []string{"id", "createdAt", "updatedAt"}

// CreateOrder inserts doc as a new order. The input map is not modified.
func CreateOrder(ctx context.Context, db *gorm.DB, doc map[string]any) (*domain.Order, error) {
	body := make(datatypes.JSONMap, len(doc))
	for k, v := range doc {
		body[k] = v
	}
	for _, k := range storeKeys {
		delete(body, k)
	}
	if _, err := json.Marshal(body); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	now := time.Now().UTC()
	o := &domain.Order{
		ID:        uuid.NewString(),
		Document:  body,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if s, ok := body["status"].(string); ok {
		o.Status = s
	}
	if s, ok := body["source"].(string); ok {
		o.Source = s
	}
	if err := db.WithContext(ctx).Create(o).Error; err != nil {
		return nil, err
	}
	return o, nil
}

// ListOrders returns at most limit orders, newest first. A limit <= 0
// returns every order.
func ListOrders(ctx context.Context, db *gorm.DB, limit int) ([]domain.Order, error) {
	q := db.WithContext(ctx).Order("created_at desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	out := []domain.Order{}
	err := q.Find(&out).Error
	return out, err
}

// GetOrder fetches one order by id, or ErrNotFound.
func GetOrder(ctx context.Context, db *gorm.DB, id string) (*domain.Order, error) {
	var o domain.Order
	if err := db.WithContext(ctx).Where("id = ?", id).First(&o).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

// OrderRecord flattens a stored order into the raw record the receipt
// builder consumes: the document plus id, createdAt and updatedAt.
func OrderRecord(o *domain.Order) receipt.Raw {
	raw := make(receipt.Raw, len(o.Document)+3)
	for k, v := range o.Document {
		raw[k] = v
	}
	raw["id"] = o.ID
	raw["createdAt"] = o.CreatedAt
	raw["updatedAt"] = o.UpdatedAt
	return raw
}
