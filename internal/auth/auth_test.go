package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestCredentialsPlainAndHashed(t *testing.T) {
	plain := Credentials{User: "admin", Pass: "admin"}
	if err := plain.Check("admin", "admin"); err != nil {
		t.Fatalf("expected plain match, got %v", err)
	}
	if err := plain.Check("admin", "nope"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}

	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	hashed := Credentials{User: "professor", Pass: "ignored", PassHash: hash}
	if err := hashed.Check("professor", "s3cret"); err != nil {
		t.Fatalf("expected hashed match, got %v", err)
	}
	if err := hashed.Check("professor", "ignored"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("plain pass must be ignored when a hash is set")
	}
	if err := hashed.Check("admin", "s3cret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected wrong user rejected")
	}
}

func TestIssueAndParse(t *testing.T) {
	issuer := NewIssuer("secret", time.Hour)
	token, expires, err := issuer.Issue("admin")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if time.Until(expires) <= 0 {
		t.Fatalf("expected future expiry")
	}
	claims, err := issuer.Parse(token)
	if err != nil || claims.Subject != "admin" {
		t.Fatalf("parse: %v %+v", err, claims)
	}

	if _, err := NewIssuer("other", time.Hour).Parse(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected signature mismatch, got %v", err)
	}

	issuer.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := issuer.Parse(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected expired token rejected, got %v", err)
	}
}

func TestMiddleware(t *testing.T) {
	issuer := NewIssuer("secret", time.Hour)
	h := issuer.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/report", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	token, _, _ := issuer.Issue("admin")
	req := httptest.NewRequest(http.MethodGet, "/admin/report", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected pass-through, got %d", rec.Code)
	}
}
