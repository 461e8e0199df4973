package handlers

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/cdforge/forge-site/internal/auth"
	"github.com/cdforge/forge-site/internal/domain"
	"github.com/cdforge/forge-site/internal/services"
)

func TestCreateReview_PassesSignedInUser(t *testing.T) {
	d := newDeps()
	d.user = &auth.User{UID: "g-1", Name: "Ana"}
	r := d.router(t)

	w := do(r, http.MethodPost, "/reviews", `{"service":"Sites","rating":5,"message":"Ótimo"}`, withSession)
	if w.Code != http.StatusCreated {
		t.Fatalf("code = %d body=%s", w.Code, w.Body.String())
	}
	if d.reviews.gotUser == nil || d.reviews.gotUser.UID != "g-1" {
		t.Fatalf("user not passed: %+v", d.reviews.gotUser)
	}
	got := decode[domain.Review](t, w)
	if got.ID != "r-1" || got.Rating != 5 {
		t.Fatalf("body = %+v", got)
	}
}

func TestCreateReview_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		err      error
		wantCode int
		wantErr  string
	}{
		{"bad json", `{"rating":"five"}`, nil, http.StatusBadRequest, ErrCodeBadRequest},
		{"validation", `{}`, services.ErrRatingRequired, http.StatusBadRequest, ErrCodeValidation},
		{"anonymous", `{"service":"x","rating":4,"message":"y"}`, services.ErrSignInRequired, http.StatusUnauthorized, ErrCodeUnauthorized},
		{"store", `{"service":"x","rating":4,"message":"y"}`, errors.New("disk full"), http.StatusInternalServerError, ErrCodeCreateFailed},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := newDeps()
			d.reviews.submitErr = tc.err
			w := do(d.router(t), http.MethodPost, "/reviews", tc.body)
			if w.Code != tc.wantCode {
				t.Fatalf("code = %d, want %d", w.Code, tc.wantCode)
			}
			resp := decode[ErrorResponse](t, w)
			if resp.Code != tc.wantErr || resp.RequestID != "rid-test" {
				t.Fatalf("resp = %+v", resp)
			}
			if tc.err != nil && services.IsValidation(tc.err) && resp.Message != tc.err.Error() {
				t.Fatalf("validation message = %q", resp.Message)
			}
		})
	}
}

func TestListReviews_ETagAndLimit(t *testing.T) {
	d := newDeps()
	at := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	d.reviews.count, d.reviews.latest = 2, &at
	d.reviews.items = []domain.Review{{ID: "a"}, {ID: "b"}}
	r := d.router(t)

	w := do(r, http.MethodGet, "/reviews", "")
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d", w.Code)
	}
	etag := w.Header().Get("ETag")
	if etag == "" || d.reviews.gotLimit != 20 {
		t.Fatalf("etag=%q limit=%d", etag, d.reviews.gotLimit)
	}
	if got := decode[ListReviewsResponse](t, w); len(got.Reviews) != 2 {
		t.Fatalf("reviews = %d", len(got.Reviews))
	}

	d.reviews.gotLimit = 0
	w = do(r, http.MethodGet, "/reviews", "", withHeader("If-None-Match", etag))
	if w.Code != http.StatusNotModified || d.reviews.gotLimit != 0 {
		t.Fatalf("conditional: code=%d listed=%v", w.Code, d.reviews.gotLimit != 0)
	}

	// A different page size is a different representation.
	w = do(r, http.MethodGet, "/reviews?limit=500", "", withHeader("If-None-Match", etag))
	if w.Code != http.StatusOK || d.reviews.gotLimit != 100 {
		t.Fatalf("limit: code=%d limit=%d", w.Code, d.reviews.gotLimit)
	}
}

func TestListReviews_EmptyAndErrors(t *testing.T) {
	d := newDeps()
	d.reviews.statsErr = errors.New("stats down")
	r := d.router(t)

	w := do(r, http.MethodGet, "/reviews", "")
	if w.Code != http.StatusOK || w.Header().Get("ETag") != "" {
		t.Fatalf("code=%d etag=%q", w.Code, w.Header().Get("ETag"))
	}
	if w.Body.String() != `{"reviews":[]}` {
		t.Fatalf("body = %s", w.Body.String())
	}

	d.reviews.listErr = errors.New("list down")
	if w := do(r, http.MethodGet, "/reviews", ""); w.Code != http.StatusInternalServerError {
		t.Fatalf("code = %d", w.Code)
	}
}
