package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/cdforge/forge-site/internal/auth"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Gin context keys set by Sessions.
const (
	ctxKeySessionID = "sessionID"
	ctxKeyUser      = "user"
	ctxKeyUserID    = "userID"
)

// SessionCookie describes the browser cookie that carries the session id.
type SessionCookie struct {
	Name   string
	Path   string
	TTL    time.Duration
	Secure bool
}

func (sc SessionCookie) path() string {
	if sc.Path == "" {
		return "/"
	}
	return sc.Path
}

// Set writes id as an HttpOnly, SameSite=Lax cookie. Lax keeps the cookie on
// the top-level redirect back from the identity provider.
func (sc SessionCookie) Set(c *gin.Context, id string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sc.Name, id, int(sc.TTL.Seconds()), sc.path(), "", sc.Secure, true)
	c.Set(ctxKeySessionID, id)
}

// Clear expires the cookie and forgets the session on this request.
func (sc SessionCookie) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sc.Name, "", -1, sc.path(), "", sc.Secure, true)
	c.Set(ctxKeySessionID, "")
	c.Set(ctxKeyUser, (*auth.User)(nil))
	c.Set(ctxKeyUserID, "")
}

// UserLookup resolves the signed-in user of a session, or nil.
type UserLookup func(ctx context.Context, sessionID string) *auth.User

// Sessions reads the session cookie and, when lookup knows the session,
// exposes the user under "user" and its UID under "userID" (which the rate
// limiter keys on). Malformed cookie values are ignored. No cookie is minted
// here; see EnsureSession.
func Sessions(sc SessionCookie, lookup UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(sc.Name)
		if err == nil && isSessionID(raw) {
			c.Set(ctxKeySessionID, raw)
			if lookup != nil {
				if u := lookup(c.Request.Context(), raw); u != nil {
					c.Set(ctxKeyUser, u)
					c.Set(ctxKeyUserID, u.UID)
				}
			}
		}
		c.Next()
	}
}

// EnsureSession returns the current session id, minting and setting a fresh
// cookie when the request has none.
func EnsureSession(c *gin.Context, sc SessionCookie) string {
	if id := SessionID(c); id != "" {
		return id
	}
	id := uuid.NewString()
	sc.Set(c, id)
	return id
}

// SessionID returns the session id of the request, or "".
func SessionID(c *gin.Context) string {
	return c.GetString(ctxKeySessionID)
}

// CurrentUser returns the signed-in user, or nil for anonymous requests.
func CurrentUser(c *gin.Context) *auth.User {
	v, ok := c.Get(ctxKeyUser)
	if !ok {
		return nil
	}
	u, _ := v.(*auth.User)
	return u
}

func isSessionID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil && len(s) == 36
}
