package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func TestFail_5xxLogsWithRequestScope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("X-Request-ID", "rid-500")
		c.Set("logger", &logger)
		c.Next()
	})
	r.GET("/boom", func(c *gin.Context) { fail(c, http.StatusInternalServerError, ErrCodeInternal, "kaboom") })
	r.GET("/bad", func(c *gin.Context) { Fail(c, http.StatusBadRequest, ErrCodeValidation, "Informe seu nome") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json: %v", err)
	}
	if w.Code != http.StatusInternalServerError || resp.RequestID != "rid-500" || resp.Code != ErrCodeInternal {
		t.Fatalf("got %d %+v", w.Code, resp)
	}
	if !strings.Contains(buf.String(), `"level":"error"`) {
		t.Fatalf("5xx not logged: %s", buf.String())
	}

	buf.Reset()
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bad", nil))
	if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "Informe seu nome") {
		t.Fatalf("got %d %s", w.Code, w.Body.String())
	}
	if buf.Len() != 0 {
		t.Fatalf("4xx should not be logged: %s", buf.String())
	}
}

func TestWeakETag(t *testing.T) {
	at := time.Unix(1700000000, 5)
	if got := weakETag("reviews", 3, &at); got != `W/"reviews:3:1700000000000000005"` {
		t.Fatalf("got %s", got)
	}
	if got := weakETag("reviews", 0, nil); got != `W/"reviews:0:0"` {
		t.Fatalf("got %s", got)
	}
}

func TestNotModified(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", func(c *gin.Context) {
		if notModified(c, `W/"x"`) {
			return
		}
		noContent(c)
	})

	for _, tc := range []struct {
		inm  string
		want int
	}{
		{"", http.StatusNoContent},
		{`W/"y"`, http.StatusNoContent},
		{`W/"x"`, http.StatusNotModified},
		{"*", http.StatusNotModified},
	} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tc.inm != "" {
			req.Header.Set("If-None-Match", tc.inm)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != tc.want || w.Header().Get("ETag") != `W/"x"` {
			t.Fatalf("If-None-Match %q: code=%d etag=%q", tc.inm, w.Code, w.Header().Get("ETag"))
		}
	}
}
