package middleware

import (
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// RedactOptions tunes RedactingLogger.
//
// MaskHeaders and MaskParams extend the built-in lists. Header matching is
// case-insensitive; query parameter matching is exact.
type RedactOptions struct {
	MaskHeaders []string
	MaskParams  []string
}

var (
	uuidRE  = regexp.MustCompile(`(?i)\b[0-9a-f]{8}-[0-9a-f]{4}-[1-5][0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}\b`)
	emailRE = regexp.MustCompile(`(?i)\b[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}\b`)
	// Brazilian mobile numbers are the common case on the intake form:
	// "+55 11 91234-5678", "(11) 91234-5678", "11912345678".
	phoneRE = regexp.MustCompile(`(?:\+?\d{1,3}[ .-]?)?(?:\(?\d{2,4}\)?[ .-]?)?\d{4,5}[ .-]?\d{4}\b`)
)

// redactPII scrubs ids, emails and phone numbers. UUIDs go first because the
// phone pattern would otherwise eat their digit groups.
func redactPII(s string) string {
	if s == "" {
		return s
	}
	s = uuidRE.ReplaceAllString(s, "[REDACTED:id]")
	s = emailRE.ReplaceAllString(s, "[REDACTED:email]")
	return phoneRE.ReplaceAllString(s, "[REDACTED:phone]")
}

// redactQuery masks whole values of sensitive parameters (the OAuth code and
// state on the callback, dashboard tokens) and scrubs PII from the rest.
func redactQuery(raw string, masked map[string]struct{}) string {
	if raw == "" {
		return raw
	}
	vals, err := url.ParseQuery(raw)
	if err != nil {
		return redactPII(raw)
	}
	for k, vs := range vals {
		if _, ok := masked[k]; ok {
			vals[k] = []string{"[REDACTED]"}
			continue
		}
		for i := range vs {
			vs[i] = redactPII(vs[i])
		}
	}
	// Encode escapes the brackets; logs read better without that.
	out, _ := url.QueryUnescape(vals.Encode())
	return out
}

// RedactingLogger is the production access logger. It attaches the same
// request-scoped logger as Logger, never logs bodies, masks credential
// headers and scrubs PII from the query string and remaining headers.
func RedactingLogger(opts RedactOptions) gin.HandlerFunc {
	headers := map[string]struct{}{
		"authorization": {},
		"cookie":        {},
		"set-cookie":    {},
	}
	for _, h := range opts.MaskHeaders {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			headers[h] = struct{}{}
		}
	}
	params := map[string]struct{}{
		"code":  {},
		"state": {},
		"token": {},
	}
	for _, p := range opts.MaskParams {
		if p = strings.TrimSpace(p); p != "" {
			params[p] = struct{}{}
		}
	}

	return func(c *gin.Context) {
		start := time.Now()
		l := attachLogger(c)

		query := redactQuery(c.Request.URL.RawQuery, params)
		safeHeaders := make(map[string]string, len(c.Request.Header))
		for k, vv := range c.Request.Header {
			if _, ok := headers[strings.ToLower(k)]; ok {
				safeHeaders[k] = "[REDACTED]"
				continue
			}
			safeHeaders[k] = redactPII(strings.Join(vv, ", "))
		}

		c.Next()

		status := c.Writer.Status()
		levelFor(l, status, len(c.Errors) > 0).
			Str("query", truncate(query, maxQueryLogLength)).
			Int("status", status).
			Int("bytes", c.Writer.Size()).
			Dur("latency", time.Since(start)).
			Bool("signed_in", CurrentUser(c) != nil).
			Interface("headers", safeHeaders).
			Msg("http_request")
	}
}
