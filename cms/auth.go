package cms

import (
	"context"

	"github.com/goccy/go-json"
)

// AuthService exchanges admin credentials for a CMS token and resolves the
// account behind one. Login responses are not envelope-wrapped.
type AuthService interface {
	Login(ctx context.Context, identifier, password string) (*LoginResult, error)
	Me(ctx context.Context, token string) (*AuthUser, error)
}

// LoginResult is the CMS local-auth response
type LoginResult struct {
	JWT  string   `json:"jwt"`
	User AuthUser `json:"user"`
}

// AuthUser is the CMS account record
type AuthUser struct {
	ID       flexID `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type authService struct {
	requester Requester
}

// NewAuthService initializes the auth client
func NewAuthService(r Requester) AuthService {
	return &authService{requester: r}
}

func (s *authService) Login(ctx context.Context, identifier, password string) (*LoginResult, error) {
	body, err := s.requester.Post(ctx, "/api/auth/local", "", map[string]string{
		"identifier": identifier,
		"password":   password,
	})
	if err != nil {
		return nil, err
	}
	var result LoginResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *authService) Me(ctx context.Context, token string) (*AuthUser, error) {
	body, err := s.requester.GetWithToken(ctx, "/api/users/me", token, nil)
	if err != nil {
		return nil, err
	}
	var user AuthUser
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
