package handlers

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"

	"oncology-dashboard/internal/apiclient"
	"oncology-dashboard/internal/gate"
	"oncology-dashboard/internal/middleware"
	"oncology-dashboard/internal/models"
	"oncology-dashboard/internal/session"
	"oncology-dashboard/internal/utils"
)

// AuthHandler handles sign in, sign out and the session view.
type AuthHandler struct {
	Session *session.Manager
	Auth    *apiclient.AuthClient
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(sess *session.Manager, auth *apiclient.AuthClient) *AuthHandler {
	return &AuthHandler{Session: sess, Auth: auth}
}

// SessionResponse describes the session to the front-end.
type SessionResponse struct {
	Status   string           `json:"status"`
	Identity *models.Identity `json:"identity,omitempty"`
	Landing  string           `json:"landing,omitempty"`
	Menu     []gate.MenuItem  `json:"menu"`
}

func sessionView(snap session.Snapshot) SessionResponse {
	res := SessionResponse{Status: snap.Status.String(), Identity: snap.Identity, Menu: gate.Menu(snap)}
	switch {
	case snap.Identity != nil:
		res.Landing = gate.Landing(*snap.Identity)
	case snap.Status == session.StatusAnonymous:
		res.Landing = gate.LoginPath
	}
	return res
}

// Login handles signing in with email and password.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.Credentials
	if !utils.BindAndValidate(c, &req) {
		return
	}

	err := h.Session.Login(c.Request.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, session.ErrInvalidCredentials):
		utils.Unauthorized(c, "Invalid email or password")
		return
	case errors.Is(err, session.ErrMalformedResponse):
		slog.Error("login answer rejected", "error", err)
		utils.BadGateway(c, "Login failed. Please try again.")
		return
	case err != nil:
		respondBackendError(c, "sign in", err)
		return
	}

	utils.Success(c, "Login successful", sessionView(h.Session.Snapshot()))
}

// Logout handles signing out. It always succeeds.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.Session.Logout()
	utils.Success(c, "Logged out successfully", sessionView(h.Session.Snapshot()))
}

// GetSession returns the current session and its navigation menu.
func (h *AuthHandler) GetSession(c *gin.Context) {
	snap := h.Session.Snapshot()
	if snap.Status == session.StatusLoading {
		utils.Accepted(c, "Session is loading", sessionView(snap))
		return
	}
	utils.Success(c, "Session fetched successfully", sessionView(snap))
}

// Home sends the session to its landing screen.
func (h *AuthHandler) Home(c *gin.Context) {
	id, ok := middleware.GetIdentityFromContext(c)
	if !ok {
		utils.Found(c, gate.LoginPath)
		return
	}
	utils.Found(c, gate.Landing(id))
}

// PasswordResetRequest represents the request body for a reset link.
type PasswordResetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// RequestPasswordReset asks the backend to email a reset link.
func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var req PasswordResetRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	if err := h.Auth.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		respondBackendError(c, "request a password reset", err)
		return
	}
	utils.Success(c, "Password reset instructions have been sent to your email", nil)
}
