package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRedactPII(t *testing.T) {
	tests := map[string]string{
		"":                                       "",
		"ana@example.com":                        "[REDACTED:email]",
		"+55 11 91234-5678":                      "[REDACTED:phone]",
		"(11) 91234-5678":                        "[REDACTED:phone]",
		"id=550e8400-e29b-41d4-a716-446655440000": "id=[REDACTED:id]",
		"plain words":                            "plain words",
	}
	for in, want := range tests {
		if got := redactPII(in); got != want {
			t.Errorf("redactPII(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRedactQuery_MasksOAuthParams(t *testing.T) {
	masked := map[string]struct{}{"code": {}, "state": {}}
	got := redactQuery("code=4/0AbCd&state=xyz&q=ana@example.com", masked)
	if strings.Contains(got, "4/0AbCd") || strings.Contains(got, "xyz") || strings.Contains(got, "ana@") {
		t.Fatalf("leaked secret: %q", got)
	}
	if !strings.Contains(got, "q=[REDACTED:email]") {
		t.Fatalf("query not scrubbed: %q", got)
	}
	// Unparseable queries still get PII scrubbing.
	if got := redactQuery("%zz&mail=a@b.co", masked); strings.Contains(got, "a@b.co") {
		t.Fatalf("leaked on bad query: %q", got)
	}
}

func TestRedactingLogger_Line(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := captureLogger(t)

	r := gin.New()
	r.Use(RequestID(), RedactingLogger(RedactOptions{MaskHeaders: []string{"X-Api-Key"}, MaskParams: []string{"secret"}}))
	r.GET("/auth/google/callback", func(c *gin.Context) { c.Status(http.StatusFound) })
	r.GET("/fail", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?code=CODE-SECRET&state=STATE-SECRET&secret=MY-SECRET&who=ana@example.com", nil)
	req.Header.Set(requestIDHeader, "rid-log")
	req.Header.Set("Authorization", "Bearer tok")
	req.Header.Set("X-Api-Key", "k")
	req.Header.Set("Cookie", "forge_session=1")
	req.Header.Set("X-Note", "call 11 91234-5678")
	r.ServeHTTP(httptest.NewRecorder(), req)
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/fail", nil))

	lines := logLines(t, buf)
	if len(lines) != 2 {
		t.Fatalf("want 2 lines, got %d", len(lines))
	}
	out := buf.String()
	for _, leak := range []string{"CODE-SECRET", "STATE-SECRET", "MY-SECRET", "ana@example.com", "Bearer tok", "91234-5678", "forge_session=1"} {
		if strings.Contains(out, leak) {
			t.Fatalf("log leaked %q: %s", leak, out)
		}
	}
	first := lines[0]
	if first["level"] != "info" || first["path"] != "/auth/google/callback" || first["message"] != "http_request" {
		t.Fatalf("first line = %v", first)
	}
	if first["signed_in"] != false {
		t.Fatalf("signed_in = %v", first["signed_in"])
	}
	if lines[1]["level"] != "error" {
		t.Fatalf("5xx level = %v", lines[1]["level"])
	}
}
