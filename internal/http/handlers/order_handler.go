package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cdforge/forge-site/internal/http/middleware"
	"github.com/cdforge/forge-site/internal/services"
)

// CreateOrderResponse carries the id of the stored order.
type CreateOrderResponse struct {
	ID string `json:"id" example:"5f0c1c8e-3b7a-4f4e-9a7e-0a4ce4a4c9d1"`
}

// CreateOrder godoc
// @ID          createOrder
// @Summary     Submit a service request
// @Description Validates the intake form and stores a pending order. Resending with the same Idempotency-Key returns the first order id with 200 and Idempotency-Replayed: true.
// @Tags        Orders
// @Accept      json
// @Produce     json
// @Param       Idempotency-Key  header  string               false  "Client key for safe retries"
// @Param       body             body    services.OrderInput  true   "Service request"
// @Success     201  {object}  handlers.CreateOrderResponse
// @Success     200  {object}  handlers.CreateOrderResponse  "Replay of an earlier submission"
// @Header      200  {string}  Idempotency-Replayed  "true"
// @Failure     400  {object}  handlers.ErrorResponse  "Validation failed"
// @Failure     429  {object}  handlers.ErrorResponse  "Rate limited"
// @Failure     500  {object}  handlers.ErrorResponse  "Store error"
// @Router      /api/v1/orders [post]
func (h *Handlers) CreateOrder(c *gin.Context) {
	var in services.OrderInput
	if err := c.ShouldBindJSON(&in); err != nil {
		middleware.CountOrder("invalid")
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	key, _ := middleware.GetIdempotencyKey(c)
	sub, err := h.orders.Submit(c.Request.Context(), middleware.IdempotencySubject(c), key, in)
	switch {
	case err == nil && sub.Replayed:
		middleware.CountOrder("replayed")
		c.Header(middleware.HeaderIdempotencyReplayed, "true")
		ok(c, http.StatusOK, CreateOrderResponse{ID: sub.ID})
	case err == nil:
		middleware.CountOrder("created")
		middleware.LoggerFrom(c).Info().Str("order_id", sub.ID).Str("category", in.Category).Msg("order created")
		ok(c, http.StatusCreated, CreateOrderResponse{ID: sub.ID})
	case services.IsValidation(err):
		middleware.CountOrder("invalid")
		fail(c, http.StatusBadRequest, ErrCodeValidation, err.Error())
	default:
		middleware.CountOrder("failed")
		fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, "could not save order")
	}
}
