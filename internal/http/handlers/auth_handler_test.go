package handlers

import (
	"net/http"
	"strings"
	"testing"

	"github.com/cdforge/forge-site/internal/auth"
)

func TestLogin_RedirectMintsSession(t *testing.T) {
	d := newDeps()
	w := do(d.router(t), http.MethodGet, "/auth/google/login", "")
	if w.Code != http.StatusFound {
		t.Fatalf("code = %d", w.Code)
	}
	loc := w.Header().Get("Location")
	ck := w.Header().Get("Set-Cookie")
	if !strings.HasPrefix(loc, "https://accounts.example/auth") || !strings.HasPrefix(ck, testCookie.Name+"=") {
		t.Fatalf("location=%q cookie=%q", loc, ck)
	}
	// The attempt is registered under the freshly minted session.
	sid := strings.TrimPrefix(strings.SplitN(ck, ";", 2)[0], testCookie.Name+"=")
	if !strings.HasSuffix(loc, "sid="+sid) {
		t.Fatalf("attempt not bound to cookie: %q vs %q", loc, sid)
	}
}

func TestLogin_JSONAndBusy(t *testing.T) {
	d := newDeps()
	r := d.router(t)

	w := do(r, http.MethodGet, "/auth/google/login", "", withSession, withHeader("Accept", "application/json"))
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d", w.Code)
	}
	if got := decode[SignInResponse](t, w); !strings.HasSuffix(got.URL, "sid="+testSessionID) {
		t.Fatalf("url = %q", got.URL)
	}
	if w.Header().Get("Set-Cookie") != "" {
		t.Fatal("existing session should be reused")
	}

	d.auth.signInErr = auth.ErrSignInInProgress
	w = do(r, http.MethodGet, "/auth/google/login", "", withSession)
	if w.Code != http.StatusConflict || decode[ErrorResponse](t, w).Code != ErrCodeSignInInProgress {
		t.Fatalf("busy: code=%d body=%s", w.Code, w.Body.String())
	}
}

func TestCallback_SuccessRotatesCookie(t *testing.T) {
	d := newDeps()
	const rotated = "aaaaaaaa-bbbb-4ccc-8ddd-eeeeeeeeeeee"
	d.auth.result = auth.Result{Success: true, User: &auth.User{UID: "g-1"}, SessionID: rotated}

	w := do(d.router(t), http.MethodGet, "/auth/google/callback?state=s1&code=c1", "", withSession)
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/" {
		t.Fatalf("code=%d location=%q", w.Code, w.Header().Get("Location"))
	}
	if ck := w.Header().Get("Set-Cookie"); !strings.HasPrefix(ck, testCookie.Name+"="+rotated) {
		t.Fatalf("cookie not rotated: %q", ck)
	}
	if len(d.auth.completed) != 1 || d.auth.completed[0] != testSessionID+"|s1|c1" {
		t.Fatalf("complete args = %v", d.auth.completed)
	}
}

func TestCallback_Failures(t *testing.T) {
	d := newDeps()
	d.auth.result = auth.Result{Error: auth.ErrStateMismatch.Error()}
	r := d.router(t)

	w := do(r, http.MethodGet, "/auth/google/callback?state=bad&code=c1", "", withSession)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("code = %d", w.Code)
	}
	res := decode[auth.Result](t, w)
	if res.Success || res.Error != auth.ErrStateMismatch.Error() {
		t.Fatalf("result = %+v", res)
	}
	if w.Header().Get("Set-Cookie") != "" {
		t.Fatal("failed sign-in must not set a cookie")
	}

	// Provider-side denial cancels the attempt without exchanging.
	w = do(r, http.MethodGet, "/auth/google/callback?error=access_denied&state=s", "", withSession)
	if w.Code != http.StatusUnauthorized || decode[auth.Result](t, w).Error != "access_denied" {
		t.Fatalf("denied: code=%d body=%s", w.Code, w.Body.String())
	}
	if len(d.auth.cancelled) != 1 || len(d.auth.completed) != 1 {
		t.Fatalf("cancelled=%v completed=%v", d.auth.cancelled, d.auth.completed)
	}
}

func TestMeLogoutCancel(t *testing.T) {
	d := newDeps()
	d.user = &auth.User{UID: "g-1", Name: "Ana", Email: "ana@x.com"}
	r := d.router(t)

	if w := do(r, http.MethodGet, "/auth/me", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous me = %d", w.Code)
	}
	w := do(r, http.MethodGet, "/auth/me", "", withSession)
	if w.Code != http.StatusOK || decode[auth.User](t, w).UID != "g-1" {
		t.Fatalf("me = %d %s", w.Code, w.Body.String())
	}

	if w := do(r, http.MethodPost, "/auth/cancel", "", withSession); w.Code != http.StatusNoContent {
		t.Fatalf("cancel = %d", w.Code)
	}
	if len(d.auth.cancelled) != 1 || d.auth.cancelled[0] != testSessionID {
		t.Fatalf("cancelled = %v", d.auth.cancelled)
	}

	w = do(r, http.MethodPost, "/auth/logout", "", withSession)
	if w.Code != http.StatusOK || !decode[auth.Result](t, w).Success {
		t.Fatalf("logout = %d %s", w.Code, w.Body.String())
	}
	if ck := w.Header().Get("Set-Cookie"); !strings.Contains(ck, "Max-Age=0") {
		t.Fatalf("cookie not cleared: %q", ck)
	}

	d.auth.signOut = auth.Result{Error: "db down"}
	w = do(r, http.MethodPost, "/auth/logout", "", withSession)
	if w.Code != http.StatusInternalServerError || w.Header().Get("Set-Cookie") != "" {
		t.Fatalf("failed logout = %d cookie=%q", w.Code, w.Header().Get("Set-Cookie"))
	}
}
