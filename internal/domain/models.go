// Package domain defines the persistence models for reviews, orders and
// sign-in sessions. These types are mapped with GORM for the SQLite backend
// and mirrored field-for-field by the Firestore backend.
package domain

import (
	"time"

	"gorm.io/datatypes"
)

// ReviewUser is the signed-in author of a review, copied from the identity
// provider at submission time.
type ReviewUser struct {
	UID      string `json:"uid"                gorm:"column:user_uid;type:varchar(128);not null;index" firestore:"uid"`
	Name     string `json:"name"               gorm:"column:user_name;type:varchar(255);not null"      firestore:"name"`
	Email    string `json:"email"              gorm:"column:user_email;type:varchar(255)"              firestore:"email"`
	PhotoURL string `json:"photoURL,omitempty" gorm:"column:user_photo_url;type:text"                  firestore:"photoURL,omitempty"`
}

// Review is a public testimonial about one of the agency's services.
//
// Fields:
//   - ID: UUID primary key (char(36)) or Firestore document id.
//   - Service: free-text name of the service being reviewed.
//   - Rating: 1..5 stars (enforced by DB constraint).
//   - Message: the review body.
//   - User: embedded author snapshot.
//   - CreatedAt: assigned by the store at write time; reads order by it.
type Review struct {
	ID        string     `json:"id"        gorm:"type:char(36);primaryKey"                  firestore:"-"`
	Service   string     `json:"service"   gorm:"type:varchar(255);not null"                firestore:"service"`
	Rating    int        `json:"rating"    gorm:"not null;check:rating BETWEEN 1 AND 5"     firestore:"rating"`
	Message   string     `json:"message"   gorm:"type:text;not null"                        firestore:"message"`
	User      ReviewUser `json:"user"      gorm:"embedded"                                  firestore:"user"`
	CreatedAt *time.Time `json:"createdAt" gorm:"index:idx_reviews_created"                 firestore:"createdAt"`
}

// TableName returns the database table name for Review.
func (Review) TableName() string { return "reviews" }

// Order is a stored service request. The document itself is free-form JSON;
// Status and Source are lifted into columns only for filtering.
type Order struct {
	ID        string            `json:"id"        gorm:"type:char(36);primaryKey"`
	Status    string            `json:"status"    gorm:"type:varchar(32);index"`
	Source    string            `json:"source"    gorm:"type:varchar(64)"`
	Document  datatypes.JSONMap `json:"document"  gorm:"type:text;not null"`
	CreatedAt time.Time         `json:"createdAt" gorm:"index:idx_orders_created"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// TableName returns the database table name for Order.
func (Order) TableName() string { return "orders" }

// Session binds a browser cookie to a signed-in user.
type Session struct {
	ID        string    `gorm:"type:char(36);primaryKey"`
	UserUID   string    `gorm:"type:varchar(128);not null;index"`
	Name      string    `gorm:"type:varchar(255)"`
	Email     string    `gorm:"type:varchar(255)"`
	PhotoURL  string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	ExpiresAt time.Time `gorm:"not null;index"`
}

// TableName returns the database table name for Session.
func (Session) TableName() string { return "sessions" }
