package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cdforge/forge-site/internal/auth"
	"github.com/cdforge/forge-site/internal/http/middleware"
)

// SignInResponse is returned instead of a redirect when the client asks for
// JSON, so a single-page front end can open the provider URL itself.
type SignInResponse struct {
	URL string `json:"url"`
}

// Login godoc
// @ID          login
// @Summary     Start Google sign-in
// @Description Redirects to the identity provider. A session that already has a sign-in in flight gets 409 until it completes, is cancelled or times out.
// @Tags        Auth
// @Produce     json
// @Success     302  {string}  string  "Redirect to the provider"
// @Success     200  {object}  handlers.SignInResponse  "With Accept: application/json"
// @Failure     409  {object}  handlers.ErrorResponse  "Sign-in already in progress"
// @Router      /auth/google/login [get]
func (h *Handlers) Login(c *gin.Context) {
	sid := middleware.EnsureSession(c, h.opts.Cookie)
	url, err := h.auth.SignIn(c.Request.Context(), sid)
	if errors.Is(err, auth.ErrSignInInProgress) {
		middleware.CountSignIn("busy")
		fail(c, http.StatusConflict, ErrCodeSignInInProgress, err.Error())
		return
	}
	if err != nil {
		middleware.CountSignIn("failure")
		fail(c, http.StatusInternalServerError, ErrCodeSignInFailed, "could not start sign-in")
		return
	}
	middleware.CountSignIn("started")

	if c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON {
		ok(c, http.StatusOK, SignInResponse{URL: url})
		return
	}
	c.Redirect(http.StatusFound, url)
}

// Callback godoc
// @ID          authCallback
// @Summary     Finish Google sign-in
// @Description Provider redirect target. On success the session cookie is replaced and the browser is sent back to the site.
// @Tags        Auth
// @Produce     json
// @Param       state  query  string  true   "State from Login"
// @Param       code   query  string  false  "Authorization code"
// @Param       error  query  string  false  "Provider error, e.g. access_denied"
// @Success     302  {string}  string  "Signed in"
// @Failure     401  {object}  auth.Result  "Sign-in failed"
// @Router      /auth/google/callback [get]
func (h *Handlers) Callback(c *gin.Context) {
	sid := middleware.SessionID(c)
	if perr := c.Query("error"); perr != "" {
		h.auth.Cancel(sid)
		middleware.CountSignIn("cancelled")
		c.JSON(http.StatusUnauthorized, auth.Result{Error: perr})
		return
	}

	res := h.auth.Complete(c.Request.Context(), sid, c.Query("state"), c.Query("code"))
	if !res.Success {
		middleware.CountSignIn("failure")
		middleware.LoggerFrom(c).Warn().Str("reason", res.Error).Msg("sign-in failed")
		c.JSON(http.StatusUnauthorized, res)
		return
	}
	middleware.CountSignIn("success")
	h.opts.Cookie.Set(c, res.SessionID)
	c.Redirect(http.StatusFound, h.opts.AfterSignIn)
}

// Logout godoc
// @ID          logout
// @Summary     Sign out
// @Tags        Auth
// @Produce     json
// @Success     200  {object}  auth.Result
// @Failure     500  {object}  auth.Result
// @Router      /auth/logout [post]
func (h *Handlers) Logout(c *gin.Context) {
	res := h.auth.SignOut(c.Request.Context(), middleware.SessionID(c))
	if !res.Success {
		middleware.LoggerFrom(c).Error().Str("reason", res.Error).Msg("sign-out failed")
		c.JSON(http.StatusInternalServerError, res)
		return
	}
	h.opts.Cookie.Clear(c)
	c.JSON(http.StatusOK, res)
}

// Me godoc
// @ID          me
// @Summary     Current user
// @Tags        Auth
// @Produce     json
// @Success     200  {object}  auth.User
// @Failure     401  {object}  handlers.ErrorResponse  "Not signed in"
// @Router      /auth/me [get]
func (h *Handlers) Me(c *gin.Context) {
	u := middleware.CurrentUser(c)
	if u == nil {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "not signed in")
		return
	}
	ok(c, http.StatusOK, u)
}

// CancelSignIn godoc
// @ID          cancelSignIn
// @Summary     Abandon a pending sign-in
// @Description Lets the visitor retry right away after closing the provider window.
// @Tags        Auth
// @Success     204  {string}  string  "No Content"
// @Router      /auth/cancel [post]
func (h *Handlers) CancelSignIn(c *gin.Context) {
	if sid := middleware.SessionID(c); sid != "" {
		h.auth.Cancel(sid)
		middleware.CountSignIn("cancelled")
	}
	noContent(c)
}
