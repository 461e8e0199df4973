package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cdforge/forge-site/internal/content"
)

// ServicesResponse lists the categories accepted by the intake form.
type ServicesResponse struct {
	Categories []content.Category `json:"categories"`
}

// static copy changes only on deploy
const contentCacheControl = "public, max-age=3600"

// About godoc
// @ID          getAbout
// @Summary     Company profile
// @Tags        Content
// @Produce     json
// @Success     200  {object}  content.About
// @Router      /api/v1/about [get]
func (h *Handlers) About(c *gin.Context) {
	c.Header("Cache-Control", contentCacheControl)
	ok(c, http.StatusOK, content.GetAbout())
}

// Services godoc
// @ID          listServices
// @Summary     Service categories
// @Tags        Content
// @Produce     json
// @Success     200  {object}  handlers.ServicesResponse
// @Router      /api/v1/services [get]
func (h *Handlers) Services(c *gin.Context) {
	c.Header("Cache-Control", contentCacheControl)
	ok(c, http.StatusOK, ServicesResponse{Categories: content.Categories()})
}
