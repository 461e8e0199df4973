package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cdforge/forge-site/internal/auth"
	"github.com/cdforge/forge-site/internal/domain"
	"github.com/cdforge/forge-site/internal/http/middleware"
	"github.com/cdforge/forge-site/internal/receipt"
	"github.com/cdforge/forge-site/internal/services"
)

const testSessionID = "3d5c2b1a-9f8e-4d7c-a6b5-c4d3e2f1a0b9"

type fakeReviews struct {
	submitErr error
	gotUser   *auth.User
	gotInput  services.ReviewInput
	items     []domain.Review
	listErr   error
	gotLimit  int
	count     int64
	latest    *time.Time
	statsErr  error
}

func (f *fakeReviews) Submit(_ context.Context, u *auth.User, in services.ReviewInput) (*domain.Review, error) {
	f.gotUser, f.gotInput = u, in
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	return &domain.Review{ID: "r-1", Service: in.Service, Rating: in.Rating, Message: in.Message}, nil
}

func (f *fakeReviews) List(_ context.Context, limit int) ([]domain.Review, error) {
	f.gotLimit = limit
	return f.items, f.listErr
}

func (f *fakeReviews) Stats(context.Context) (int64, *time.Time, error) {
	return f.count, f.latest, f.statsErr
}

type fakeOrders struct {
	sub        services.Submission
	err        error
	gotSubject string
	gotKey     string
	gotInput   services.OrderInput
	imported   map[string]any
}

func (f *fakeOrders) Submit(_ context.Context, subject, key string, in services.OrderInput) (services.Submission, error) {
	f.gotSubject, f.gotKey, f.gotInput = subject, key, in
	return f.sub, f.err
}

func (f *fakeOrders) Import(_ context.Context, doc map[string]any) (string, error) {
	f.imported = doc
	if f.err != nil {
		return "", f.err
	}
	if len(doc) == 0 {
		return "", services.ErrEmptyDocument
	}
	return "imp-1", nil
}

type fakeDashboard struct {
	models   []receipt.Model
	err      error
	count    int64
	latest   *time.Time
	statsErr error
	gotQuery string
	gotLimit int
}

func (f *fakeDashboard) Receipts(_ context.Context, limit int) ([]receipt.Model, error) {
	f.gotLimit = limit
	return f.models, f.err
}

func (f *fakeDashboard) Receipt(_ context.Context, id string) (*receipt.Model, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.models {
		if f.models[i].OrderID == id {
			return &f.models[i], nil
		}
	}
	return nil, services.ErrOrderNotFound
}

func (f *fakeDashboard) Stats(context.Context) (int64, *time.Time, error) {
	if f.statsErr != nil {
		return 0, nil, f.statsErr
	}
	return f.count, f.latest, nil
}

func (f *fakeDashboard) Search(_ context.Context, q string, k int) ([]receipt.Model, error) {
	f.gotQuery, f.gotLimit = q, k
	return f.models, f.err
}

type fakeAuth struct {
	signInErr error
	result    auth.Result
	signOut   auth.Result
	cancelled []string
	completed []string
	signedOut []string
}

func (f *fakeAuth) SignIn(_ context.Context, sid string) (string, error) {
	if f.signInErr != nil {
		return "", f.signInErr
	}
	return "https://accounts.example/auth?state=s&sid=" + sid, nil
}

func (f *fakeAuth) Complete(_ context.Context, sid, state, code string) auth.Result {
	f.completed = append(f.completed, sid+"|"+state+"|"+code)
	return f.result
}

func (f *fakeAuth) Cancel(sid string) { f.cancelled = append(f.cancelled, sid) }

func (f *fakeAuth) SignOut(_ context.Context, sid string) auth.Result {
	f.signedOut = append(f.signedOut, sid)
	return f.signOut
}

type testDeps struct {
	reviews   *fakeReviews
	orders    *fakeOrders
	dashboard *fakeDashboard
	auth      *fakeAuth
	user      *auth.User
}

func newDeps() *testDeps {
	return &testDeps{
		reviews:   &fakeReviews{},
		orders:    &fakeOrders{},
		dashboard: &fakeDashboard{},
		auth:      &fakeAuth{signOut: auth.Result{Success: true}},
	}
}

var testCookie = middleware.SessionCookie{Name: "forge_session", TTL: time.Hour}

// router mounts every handler the way the production router does, minus
// the cross-cutting middleware.
func (d *testDeps) router(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	h := New(d.reviews, d.orders, d.dashboard, d.auth, Options{
		Cookie:   testCookie,
		Location: time.FixedZone("BRT", -3*3600),
	})

	r := gin.New()
	r.SetHTMLTemplate(Templates())
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("X-Request-ID", "rid-test")
		c.Next()
	})
	r.Use(middleware.Sessions(testCookie, func(_ context.Context, sid string) *auth.User {
		if sid == testSessionID {
			return d.user
		}
		return nil
	}))
	r.Use(middleware.IdempotencyValidator(middleware.IdempotencyOptions{}, nil))

	r.POST("/reviews", h.CreateReview)
	r.GET("/reviews", h.ListReviews)
	r.POST("/orders", h.CreateOrder)
	r.GET("/about", h.About)
	r.GET("/services", h.Services)
	r.GET("/auth/google/login", h.Login)
	r.GET("/auth/google/callback", h.Callback)
	r.POST("/auth/logout", h.Logout)
	r.GET("/auth/me", h.Me)
	r.POST("/auth/cancel", h.CancelSignIn)
	r.GET("/dashboard/orders", h.ListReceipts)
	r.GET("/dashboard/orders/:id", h.GetReceipt)
	r.POST("/dashboard/orders/import", h.ImportOrder)
	r.GET("/dashboard", h.DashboardPage)
	return r
}

type reqOpt func(*http.Request)

func withSession(r *http.Request) {
	r.AddCookie(&http.Cookie{Name: testCookie.Name, Value: testSessionID})
}

func withHeader(k, v string) reqOpt {
	return func(r *http.Request) { r.Header.Set(k, v) }
}

func do(r http.Handler, method, path, body string, opts ...reqOpt) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, o := range opts {
		o(req)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %T: %v (body=%s)", v, err, w.Body.String())
	}
	return v
}
