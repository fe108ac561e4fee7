package handlers

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/gookit/validate"
	"go.uber.org/zap"

	"github.com/crestmont/site-api/api"
	"github.com/crestmont/site-api/cms"
	"github.com/crestmont/site-api/config"
	"github.com/crestmont/site-api/models"
)

// Auth exported for testing purposes
type Auth struct {
	Service cms.AuthService
	Config  config.Config
}

// LoginHandler exchanges admin credentials for a CMS token and stores it in
// an HttpOnly cookie, so the browser admin panel never handles the token in
// script
func (h Auth) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	v := validate.Struct(req)
	if !v.Validate() {
		config.ErrorStatus("invalid login request", http.StatusBadRequest, w, v.Errors)
		return
	}

	ctx, cancel := api.WithUpstreamTimeout(r.Context())
	defer cancel()

	result, err := h.Service.Login(ctx, req.Email, req.Password)
	if err != nil {
		if cms.IsUnauthorized(err) {
			config.ErrorStatus("invalid credentials", http.StatusUnauthorized, w, err)
			return
		}
		config.ErrorStatus("login failed", http.StatusBadGateway, w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     api.AdminTokenCookie,
		Value:    result.JWT,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int((24 * time.Hour).Seconds()),
	})

	zap.S().Infow("admin logged in", "username", result.User.Username)

	b, err := json.Marshal(models.AdminUser{
		ID:       result.User.ID.String(),
		Username: result.User.Username,
		Email:    result.User.Email,
	})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// LogoutHandler revokes the cached token and clears the cookie
func (h Auth) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	api.RevokeToken(api.AdminToken(r.Context()), r)

	http.SetCookie(w, &http.Cookie{
		Name:     api.AdminTokenCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   -1,
	})

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"loggedOut": true}`))
}

// SessionHandler returns the account behind the current admin session
func (h Auth) SessionHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithUpstreamTimeout(r.Context())
	defer cancel()

	user, err := h.Service.Me(ctx, api.AdminToken(r.Context()))
	if err != nil {
		config.ErrorStatus("failed to resolve session", http.StatusUnauthorized, w, err)
		return
	}

	b, err := json.Marshal(models.AdminUser{
		ID:       user.ID.String(),
		Username: user.Username,
		Email:    user.Email,
	})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
