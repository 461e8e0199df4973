package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"golang.org/x/oauth2"
)

func TestStaticProvider(t *testing.T) {
	p := NewStaticProvider("http://localhost:8080/auth/google/callback")
	u, err := url.Parse(p.AuthCodeURL("abc"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if u.Path != "/auth/google/callback" || u.Query().Get("state") != "abc" || u.Query().Get("code") == "" {
		t.Fatalf("unexpected url: %s", u)
	}

	got, err := p.Exchange(context.Background(), "static")
	if err != nil || *got != DevUser {
		t.Fatalf("Exchange = %+v, %v", got, err)
	}
	got.Name = "changed"
	if p.User.Name != DevUser.Name {
		t.Fatalf("Exchange must return a copy")
	}
	if _, err := p.Exchange(context.Background(), ""); !errors.Is(err, ErrMissingCode) {
		t.Fatalf("expected ErrMissingCode, got %v", err)
	}
}

func TestGoogleProvider_AuthCodeURL(t *testing.T) {
	p := NewGoogleProvider("cid", "secret", "https://site/auth/google/callback")
	u, err := url.Parse(p.AuthCodeURL("st"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	q := u.Query()
	if q.Get("client_id") != "cid" || q.Get("state") != "st" || q.Get("prompt") != "select_account" {
		t.Fatalf("unexpected query: %v", q)
	}
	if !strings.Contains(q.Get("scope"), "userinfo.email") {
		t.Fatalf("missing email scope: %q", q.Get("scope"))
	}
	if p.Name() != "google" {
		t.Fatalf("Name = %q", p.Name())
	}
}

func TestGoogleProvider_Exchange(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		if r.Form.Get("code") != "good" {
			http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/oauth2/v2/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"g-1","email":"ana@x.com","name":"Ana","picture":"https://img/a.png"}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	p := NewGoogleProvider("cid", "secret", "http://cb")
	p.cfg.Endpoint = oauth2.Endpoint{AuthURL: srv.URL + "/auth", TokenURL: srv.URL + "/token"}
	p.userinfoEndpoint = srv.URL + "/"

	u, err := p.Exchange(context.Background(), "good")
	if err != nil {
		t.Fatalf("Exchange: %v", err)
	}
	want := User{UID: "g-1", Name: "Ana", Email: "ana@x.com", PhotoURL: "https://img/a.png"}
	if *u != want {
		t.Fatalf("got %+v, want %+v", *u, want)
	}

	if _, err := p.Exchange(context.Background(), "bad"); err == nil {
		t.Fatalf("expected error for rejected code")
	}
	if _, err := p.Exchange(context.Background(), ""); !errors.Is(err, ErrMissingCode) {
		t.Fatalf("expected ErrMissingCode, got %v", err)
	}
}
