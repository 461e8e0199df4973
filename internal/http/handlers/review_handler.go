package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cdforge/forge-site/internal/domain"
	"github.com/cdforge/forge-site/internal/http/middleware"
	"github.com/cdforge/forge-site/internal/services"
)

// CreateReviewRequest is the review form.
type CreateReviewRequest struct {
	Service string `json:"service" example:"Bots para Discord"`
	Rating  int    `json:"rating" example:"5"`
	Message string `json:"message" example:"Entrega rápida e suporte excelente."`
}

// ListReviewsResponse wraps the newest reviews.
type ListReviewsResponse struct {
	Reviews []domain.Review `json:"reviews"`
}

// CreateReview godoc
// @ID          createReview
// @Summary     Submit a review
// @Description Stores a review by the signed-in user. Field checks run before the sign-in check, so an anonymous visitor with a complete form gets 401.
// @Tags        Reviews
// @Accept      json
// @Produce     json
// @Param       body  body      handlers.CreateReviewRequest  true  "Review"
// @Success     201   {object}  domain.Review
// @Failure     400   {object}  handlers.ErrorResponse  "Validation failed"
// @Failure     401   {object}  handlers.ErrorResponse  "Sign-in required"
// @Failure     500   {object}  handlers.ErrorResponse  "Store error"
// @Router      /api/v1/reviews [post]
func (h *Handlers) CreateReview(c *gin.Context) {
	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.CountReview("invalid")
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	rv, err := h.reviews.Submit(c.Request.Context(), middleware.CurrentUser(c), services.ReviewInput{
		Service: req.Service,
		Rating:  req.Rating,
		Message: req.Message,
	})
	switch {
	case err == nil:
		middleware.CountReview("created")
		ok(c, http.StatusCreated, rv)
	case errors.Is(err, services.ErrSignInRequired):
		middleware.CountReview("anonymous")
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, err.Error())
	case services.IsValidation(err):
		middleware.CountReview("invalid")
		fail(c, http.StatusBadRequest, ErrCodeValidation, err.Error())
	default:
		middleware.CountReview("failed")
		fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, "could not save review")
	}
}

// ListReviews godoc
// @ID          listReviews
// @Summary     List reviews
// @Description Newest reviews first. Supports a weak ETag via If-None-Match.
// @Tags        Reviews
// @Produce     json
// @Param       limit          query   int     false  "Max reviews"  minimum(1) maximum(100) default(20)
// @Param       If-None-Match  header  string  false  "Return 304 if ETag matches"
// @Success     200  {object}  handlers.ListReviewsResponse
// @Header      200  {string}  ETag  "Weak ETag of the review feed"
// @Success     304  {string}  string  "Not Modified"
// @Failure     500  {object}  handlers.ErrorResponse  "Store error"
// @Router      /api/v1/reviews [get]
func (h *Handlers) ListReviews(c *gin.Context) {
	ctx := c.Request.Context()
	limit := queryLimit(c, h.opts.ReviewsLimit, 100)

	// Best effort: a stats failure just skips the conditional response.
	if count, latest, err := h.reviews.Stats(ctx); err == nil {
		if notModified(c, weakETag("reviews-"+strconv.Itoa(limit), count, latest)) {
			return
		}
	}

	items, err := h.reviews.List(ctx, limit)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, "could not load reviews")
		return
	}
	if items == nil {
		items = []domain.Review{}
	}
	ok(c, http.StatusOK, ListReviewsResponse{Reviews: items})
}
