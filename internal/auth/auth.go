// Package auth checks the shared admin credential and issues the bearer tokens of the admin API.
package auth

import (
	"crypto/subtle"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const adminRole = "admin"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

// Credentials is the single admin account. When PassHash is set it is a bcrypt hash and Pass is ignored.
type Credentials struct {
	User     string
	Pass     string
	PassHash string
}

// Check compares user and password without leaking timing on the plain-text path.
func (c Credentials) Check(user, pass string) error {
	userOK := subtle.ConstantTimeCompare([]byte(user), []byte(c.User)) == 1
	var passOK bool
	if c.PassHash != "" {
		passOK = bcrypt.CompareHashAndPassword([]byte(c.PassHash), []byte(pass)) == nil
	} else {
		passOK = subtle.ConstantTimeCompare([]byte(pass), []byte(c.Pass)) == 1
	}
	if !userOK || !passOK {
		return ErrInvalidCredentials
	}
	return nil
}

// HashPassword is used by the CLI to produce admin.pass_hash values.
func HashPassword(pass string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pass), 12)
	return string(b), err
}

type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies HS256 admin tokens.
type Issuer struct {
	hmac []byte
	ttl  time.Duration
	now  func() time.Time
}

// NewIssuer uses secret, or a random per-process secret when it is empty.
func NewIssuer(secret string, ttl time.Duration) *Issuer {
	if secret == "" {
		log.Printf("admin.jwt_secret not set, tokens will not survive a restart")
		secret = uuid.NewString() + uuid.NewString()
	}
	if ttl <= 0 {
		ttl = 8 * time.Hour
	}
	return &Issuer{hmac: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue returns a signed token for sub and its expiry.
func (a *Issuer) Issue(sub string) (string, time.Time, error) {
	now := a.now()
	expires := now.Add(a.ttl)
	claims := &Claims{
		Role: adminRole,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			Issuer:    "logic-quiz-service",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(a.hmac)
	return signed, expires, err
}

func (a *Issuer) Parse(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return a.hmac, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(a.now))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	c, ok := token.Claims.(*Claims)
	if !ok || c.Role != adminRole {
		return nil, ErrInvalidToken
	}
	return c, nil
}

// Middleware rejects requests without a valid bearer token.
func (a *Issuer) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := r.Header.Get("Authorization")
		if !strings.HasPrefix(h, "Bearer ") {
			http.Error(w, "missing bearer", http.StatusUnauthorized)
			return
		}
		if _, err := a.Parse(strings.TrimPrefix(h, "Bearer ")); err != nil {
			http.Error(w, "bad token", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
