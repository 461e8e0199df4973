package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cdforge/forge-site/internal/http/middleware"
	"github.com/cdforge/forge-site/internal/receipt"
	"github.com/cdforge/forge-site/internal/services"
)

const (
	dashboardDefaultLimit = 100
	dashboardMaxLimit     = 500
)

// ListReceiptsResponse is the dashboard order list.
type ListReceiptsResponse struct {
	Receipts []ReceiptView `json:"receipts"`
	Count    int           `json:"count"`
	Query    string        `json:"query,omitempty"`
}

// loadReceipts answers both the JSON list and the HTML page: ranked search
// results when q is set, otherwise the newest orders.
func (h *Handlers) loadReceipts(c *gin.Context) (string, []receipt.Model, error) {
	q := strings.TrimSpace(c.Query("q"))
	limit := queryLimit(c, dashboardDefaultLimit, dashboardMaxLimit)
	if q != "" {
		ms, err := h.dashboard.Search(c.Request.Context(), q, limit)
		return q, ms, err
	}
	ms, err := h.dashboard.Receipts(c.Request.Context(), limit)
	return q, ms, err
}

// ListReceipts godoc
// @ID          listReceipts
// @Summary     List stored orders as receipts
// @Description Newest orders first, normalized whatever their stored shape. With q, returns the best matches of the recent window instead.
// @Tags        Dashboard
// @Produce     json
// @Security    DashboardToken
// @Param       q      query  string  false  "Search text"
// @Param       limit  query  int     false  "Max receipts"  minimum(1) maximum(500) default(100)
// @Success     200  {object}  handlers.ListReceiptsResponse
// @Success     304  "Not modified"
// @Failure     401  {object}  handlers.ErrorResponse  "Bad token"
// @Failure     404  {object}  handlers.ErrorResponse  "Dashboard disabled"
// @Failure     500  {object}  handlers.ErrorResponse  "Store error"
// @Router      /api/v1/dashboard/orders [get]
func (h *Handlers) ListReceipts(c *gin.Context) {
	// Plain listings are revalidated against the store aggregates when the
	// backend can report them.
	if strings.TrimSpace(c.Query("q")) == "" {
		limit := queryLimit(c, dashboardDefaultLimit, dashboardMaxLimit)
		if n, latest, err := h.dashboard.Stats(c.Request.Context()); err == nil {
			if notModified(c, weakETag("orders-"+strconv.Itoa(limit), n, latest)) {
				return
			}
		}
	}
	q, ms, err := h.loadReceipts(c)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, "could not load orders")
		return
	}
	views := receiptViews(ms, h.opts.Location)
	ok(c, http.StatusOK, ListReceiptsResponse{Receipts: views, Count: len(views), Query: q})
}

// GetReceipt godoc
// @ID          getReceipt
// @Summary     Get one order as a receipt
// @Tags        Dashboard
// @Produce     json
// @Security    DashboardToken
// @Param       id   path  string  true  "Order id"
// @Success     200  {object}  handlers.ReceiptView
// @Failure     404  {object}  handlers.ErrorResponse  "Order not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Store error"
// @Router      /api/v1/dashboard/orders/{id} [get]
func (h *Handlers) GetReceipt(c *gin.Context) {
	m, err := h.dashboard.Receipt(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, services.ErrOrderNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "order not found")
	case err != nil:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not load order")
	default:
		ok(c, http.StatusOK, newReceiptView(*m, h.opts.Location))
	}
}

// ImportOrder godoc
// @ID          importOrder
// @Summary     Import a legacy order document
// @Description Stores any JSON object as an order, as is, adding createdAt and updatedAt. Used to move orders written by older versions of the form.
// @Tags        Dashboard
// @Accept      json
// @Produce     json
// @Security    DashboardToken
// @Param       body  body  object  true  "Order document"
// @Success     201  {object}  handlers.CreateOrderResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Not a JSON object, or empty"
// @Failure     500  {object}  handlers.ErrorResponse  "Store error"
// @Router      /api/v1/dashboard/orders/import [post]
func (h *Handlers) ImportOrder(c *gin.Context) {
	var doc map[string]any
	if err := c.ShouldBindJSON(&doc); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "body must be a JSON object")
		return
	}
	id, err := h.orders.Import(c.Request.Context(), doc)
	switch {
	case errors.Is(err, services.ErrEmptyDocument), errors.Is(err, services.ErrInvalidDocument):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	case err != nil:
		fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, "could not import order")
	default:
		middleware.CountOrder("imported")
		middleware.LoggerFrom(c).Info().
			Str("order_id", id).
			Str("shape", string(receipt.DetectShape(doc))).
			Msg("order imported")
		ok(c, http.StatusCreated, CreateOrderResponse{ID: id})
	}
}

// DashboardPage renders the receipt list as HTML.
func (h *Handlers) DashboardPage(c *gin.Context) {
	q, ms, err := h.loadReceipts(c)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, "could not load orders")
		return
	}
	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"Query":    q,
		"Token":    c.Query("token"),
		"Receipts": receiptViews(ms, h.opts.Location),
	})
}
