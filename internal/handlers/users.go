package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"oncology-dashboard/internal/apiclient"
	"oncology-dashboard/internal/models"
	"oncology-dashboard/internal/utils"
)

// UserHandler handles account management (admin operations).
type UserHandler struct {
	Client *apiclient.Client
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(client *apiclient.Client) *UserHandler {
	return &UserHandler{Client: client}
}

// GetUsers handles fetching all accounts.
func (h *UserHandler) GetUsers(c *gin.Context) {
	users, err := h.Client.ListUsers(c.Request.Context())
	if err != nil {
		respondBackendError(c, "fetch users", err)
		return
	}
	utils.Success(c, "Users fetched successfully", users)
}

// CreateUser handles creating an account from user management.
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req models.UserRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	user, err := h.Client.CreateUser(c.Request.Context(), req)
	if err != nil {
		respondBackendError(c, "create user", err)
		return
	}
	utils.Created(c, "User created successfully", user)
}

// UpdateUser handles updating an account. The password only changes when
// one is given.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	userID := strings.TrimSpace(c.Param("id"))
	if userID == "" {
		utils.BadRequest(c, "Invalid user ID")
		return
	}
	var req models.UserUpdate
	if !utils.BindAndValidate(c, &req) {
		return
	}
	user, err := h.Client.UpdateUser(c.Request.Context(), userID, req)
	if err != nil {
		respondBackendError(c, "update user", err)
		return
	}
	utils.Success(c, "User updated successfully", user)
}

// DeleteUser handles deleting an account.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	userID := strings.TrimSpace(c.Param("id"))
	if userID == "" {
		utils.BadRequest(c, "Invalid user ID")
		return
	}
	if err := h.Client.DeleteUser(c.Request.Context(), userID); err != nil {
		respondBackendError(c, "delete user", err)
		return
	}
	utils.Success(c, "User deleted successfully", nil)
}

// RegisterUser handles the admin registration screen.
func (h *UserHandler) RegisterUser(c *gin.Context) {
	var req models.UserRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	user, err := h.Client.RegisterUser(c.Request.Context(), req)
	if err != nil {
		respondBackendError(c, "register user", err)
		return
	}
	utils.Created(c, "User registered successfully", user)
}
