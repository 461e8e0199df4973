package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cdforge/forge-site/internal/auth"
	"github.com/cdforge/forge-site/internal/domain"
	"github.com/cdforge/forge-site/internal/http/middleware"
	"github.com/cdforge/forge-site/internal/receipt"
	"github.com/cdforge/forge-site/internal/services"
	"github.com/cdforge/forge-site/internal/utils"
)

// ReviewService is what the review endpoints need from the service layer.
type ReviewService interface {
	Submit(ctx context.Context, user *auth.User, in services.ReviewInput) (*domain.Review, error)
	List(ctx context.Context, limit int) ([]domain.Review, error)
	Stats(ctx context.Context) (count int64, latest *time.Time, err error)
}

// OrderService is what the intake and import endpoints need.
type OrderService interface {
	Submit(ctx context.Context, subject, key string, in services.OrderInput) (services.Submission, error)
	Import(ctx context.Context, doc map[string]any) (string, error)
}

// DashboardService is what the dashboard endpoints need.
type DashboardService interface {
	Receipts(ctx context.Context, limit int) ([]receipt.Model, error)
	Receipt(ctx context.Context, id string) (*receipt.Model, error)
	Search(ctx context.Context, query string, k int) ([]receipt.Model, error)
	Stats(ctx context.Context) (int64, *time.Time, error)
}

// AuthManager drives the sign-in flow. *auth.Manager implements it.
type AuthManager interface {
	SignIn(ctx context.Context, sessionID string) (string, error)
	Complete(ctx context.Context, sessionID, state, code string) auth.Result
	Cancel(sessionID string)
	SignOut(ctx context.Context, sessionID string) auth.Result
}

// Options carries presentation settings.
type Options struct {
	// Cookie is rewritten on sign-in (rotation) and cleared on sign-out.
	Cookie middleware.SessionCookie
	// Location renders receipt dates; nil means UTC.
	Location *time.Location
	// ReviewsLimit is the default page of GET /reviews.
	ReviewsLimit int
	// AfterSignIn is where the callback redirects on success; "" means "/".
	AfterSignIn string
}

// Handlers groups every endpoint of the API.
type Handlers struct {
	reviews   ReviewService
	orders    OrderService
	dashboard DashboardService
	auth      AuthManager
	opts      Options
}

// New constructs Handlers bound to the given services.
func New(reviews ReviewService, orders OrderService, dashboard DashboardService, am AuthManager, opts Options) *Handlers {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.ReviewsLimit <= 0 {
		opts.ReviewsLimit = 20
	}
	if opts.AfterSignIn == "" {
		opts.AfterSignIn = "/"
	}
	return &Handlers{reviews: reviews, orders: orders, dashboard: dashboard, auth: am, opts: opts}
}

// queryLimit reads ?limit=, clamped to [1, max].
func queryLimit(c *gin.Context, def, max int) int {
	return utils.Clamp(utils.AtoiDefault(c.Query("limit"), def), 1, max)
}
