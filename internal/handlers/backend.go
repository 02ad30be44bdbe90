package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"oncology-dashboard/internal/apiclient"
	"oncology-dashboard/internal/gate"
	"oncology-dashboard/internal/utils"
)

// respondBackendError maps a failed backend call onto the envelope. Backend
// 4xx answers keep their status and message; anything else is a 502.
func respondBackendError(c *gin.Context, action string, err error) {
	_ = c.Error(err)

	if errors.Is(err, apiclient.ErrSessionExpired) {
		c.Header("Location", gate.LoginPath)
		utils.Unauthorized(c, "Your session has expired. Please sign in again.")
		return
	}

	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) {
		msg := apiErr.Detail()
		if msg == "" {
			msg = "Failed to " + action
		}
		switch apiErr.StatusCode {
		case http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity:
			utils.BadRequest(c, msg)
			return
		case http.StatusUnauthorized:
			utils.Unauthorized(c, msg)
			return
		case http.StatusForbidden:
			utils.Forbidden(c, msg)
			return
		case http.StatusNotFound:
			utils.NotFound(c, msg)
			return
		}
	}

	slog.Error("backend call failed", "action", action, "error", err)
	utils.BadGateway(c, "Failed to "+action+". Please try again.")
}

// idParam parses the :id path parameter. It answers 400 itself and returns
// false when the id is not a number.
func idParam(c *gin.Context, what string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		utils.BadRequest(c, "Invalid "+what+" ID")
		return 0, false
	}
	return id, true
}

// pageQuery reads ?page=, defaulting to the first page.
func pageQuery(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
