package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shaj13/go-guardian/auth"
	"github.com/shaj13/go-guardian/auth/strategies/bearer"
	"github.com/shaj13/go-guardian/store"
	"go.uber.org/zap"

	"github.com/crestmont/site-api/cms"
)

// AdminTokenCookie is the HttpOnly cookie carrying the admin's CMS token.
// The browser never sees the token from script; the cookie is set at login
// and cleared at logout.
const AdminTokenCookie = "admin_token"

// MiddlewareAuth validates admin requests against the CMS account behind the
// presented token
type MiddlewareAuth struct {
	Auth cms.AuthService

	// Secret, when set, lets the middleware reject expired or forged tokens
	// locally before spending a CMS round trip
	Secret string
}

var authenticator auth.Authenticator
var cache store.Cache

// Middleware guards the admin routes. The token may arrive as a bearer
// header (API clients) or as the admin cookie (the browser admin panel).
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Header.Get("Authorization") == "" {
			if c, err := r.Cookie(AdminTokenCookie); err == nil && c.Value != "" {
				r.Header.Set("Authorization", "Bearer "+c.Value)
			}
		}
		user, err := authenticator.Authenticate(r)
		if err != nil {
			zap.S().Errorw("unauthorized",
				"url", r.URL)
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error": "unauthorized"}`))
			return
		}
		zap.S().Debugf("User %s Authenticated\n", user.UserName())

		ctx := withAdminIdentity(r.Context(), user.UserName(), bearerToken(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SetupGoGuardian sets up the go-guardian middleware
func (m MiddlewareAuth) SetupGoGuardian() {
	authenticator = auth.New()
	cache = store.NewFIFO(context.Background(), 10*time.Minute)
	tokenStrategy := bearer.New(m.ValidateToken, cache)
	authenticator.EnableStrategy(bearer.CachedStrategyKey, tokenStrategy)
}

// ValidateToken resolves the CMS account behind a bearer token
func (m MiddlewareAuth) ValidateToken(ctx context.Context, r *http.Request, token string) (auth.Info, error) {
	if m.Secret != "" {
		if err := verifyJWT(token, m.Secret); err != nil {
			return nil, err
		}
	}

	user, err := m.Auth.Me(ctx, token)
	if err != nil {
		if cms.IsUnauthorized(err) {
			return nil, fmt.Errorf("token rejected by cms")
		}
		return nil, fmt.Errorf("failed to resolve account: %w", err)
	}
	return auth.NewDefaultUser(user.Username, user.ID.String(), nil, nil), nil
}

// verifyJWT checks signature and expiry without trusting any claims beyond
// that; the CMS remains the authority on the account itself
func verifyJWT(token, secret string) error {
	_, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return fmt.Errorf("invalid token: %w", err)
	}
	return nil
}

// RevokeToken drops a token from the auth cache so logout takes effect
// immediately instead of at cache expiry
func RevokeToken(token string, r *http.Request) {
	if authenticator == nil || token == "" {
		return
	}
	tokenStrategy := authenticator.Strategy(bearer.CachedStrategyKey)
	auth.Revoke(tokenStrategy, token, r)
}

func bearerToken(r *http.Request) string {
	const prefix = "Bearer "
	h := r.Header.Get("Authorization")
	if len(h) > len(prefix) && h[:len(prefix)] == prefix {
		return h[len(prefix):]
	}
	return ""
}

type adminIdentityKey struct{}

type adminIdentity struct {
	Username string
	Token    string
}

func withAdminIdentity(ctx context.Context, username, token string) context.Context {
	return context.WithValue(ctx, adminIdentityKey{}, adminIdentity{Username: username, Token: token})
}

// AdminToken returns the CMS token of the authenticated admin, for handlers
// that proxy writes upstream
func AdminToken(ctx context.Context) string {
	if id, ok := ctx.Value(adminIdentityKey{}).(adminIdentity); ok {
		return id.Token
	}
	return ""
}

// AdminUsername returns the username of the authenticated admin
func AdminUsername(ctx context.Context) string {
	if id, ok := ctx.Value(adminIdentityKey{}).(adminIdentity); ok {
		return id.Username
	}
	return ""
}
