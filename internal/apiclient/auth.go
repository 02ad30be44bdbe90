package apiclient

import (
	"context"
	"net/http"
	"time"

	"oncology-dashboard/internal/models"
)

// AuthClient calls the token endpoints without the session transport, so a
// failed login or refresh is never itself intercepted.
type AuthClient struct {
	requester
}

// NewAuthClient creates an AuthClient.
func NewAuthClient(baseURL string, timeout time.Duration) *AuthClient {
	return &AuthClient{requester{baseURL: baseURL, httpClient: &http.Client{Timeout: timeout}}}
}

// Login exchanges credentials for a token pair.
func (a *AuthClient) Login(ctx context.Context, creds models.Credentials) (*models.LoginResponse, error) {
	var res models.LoginResponse
	if err := a.do(ctx, http.MethodPost, LoginPath, nil, creds, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Refresh mints a new access token.
func (a *AuthClient) Refresh(ctx context.Context, refreshToken string) (*models.RefreshResponse, error) {
	var res models.RefreshResponse
	err := a.do(ctx, http.MethodPost, RefreshPath, nil, map[string]string{"refresh": refreshToken}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// RequestPasswordReset asks the backend to email a reset link.
func (a *AuthClient) RequestPasswordReset(ctx context.Context, email string) error {
	return a.do(ctx, http.MethodPost, PasswordResetPath, nil, map[string]string{"email": email}, nil)
}
