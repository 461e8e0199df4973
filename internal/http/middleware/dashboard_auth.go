package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// DashboardAuth guards the internal dashboard with a shared bearer token.
//
// The token may arrive as "Authorization: Bearer <token>" or, for the HTML
// page opened from a browser bookmark, as ?token=. An empty configured token
// disables the dashboard entirely and every request gets 404 so the routes
// are not discoverable.
func DashboardAuth(token string) gin.HandlerFunc {
	want := []byte(token)
	return func(c *gin.Context) {
		if len(want) == 0 {
			abortJSON(c, http.StatusNotFound, "not_found", "resource not found")
			return
		}
		got := bearerToken(c.GetHeader("Authorization"))
		if got == "" {
			got = c.Query("token")
		}
		if subtle.ConstantTimeCompare([]byte(got), want) != 1 {
			c.Header("WWW-Authenticate", `Bearer realm="dashboard"`)
			abortJSON(c, http.StatusUnauthorized, "unauthorized", "invalid dashboard token")
			return
		}
		c.Next()
	}
}

func bearerToken(h string) string {
	const prefix = "bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(h[len(prefix):])
}

// abortJSON writes the same envelope the handlers package uses.
func abortJSON(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, gin.H{
		"request_id": c.Writer.Header().Get(requestIDHeader),
		"code":       code,
		"message":    msg,
	})
}
