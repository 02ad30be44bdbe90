package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"oncology-dashboard/internal/apiclient"
	"oncology-dashboard/internal/utils"
)

func TestRespondBackendError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		err      error
		status   int
		message  string
		location string
	}{
		{"session expired", fmt.Errorf("%w: refresh rejected", apiclient.ErrSessionExpired), http.StatusUnauthorized, "Your session has expired. Please sign in again.", "/login"},
		{"validation", &apiclient.APIError{StatusCode: 400, Body: []byte(`{"email":["Enter a valid email address."]}`)}, http.StatusBadRequest, "email: Enter a valid email address.", ""},
		{"not found", &apiclient.APIError{StatusCode: 404, Body: []byte(`{"detail":"Not found."}`)}, http.StatusNotFound, "Not found.", ""},
		{"forbidden without detail", &apiclient.APIError{StatusCode: 403}, http.StatusForbidden, "Failed to fetch patients", ""},
		{"server error", &apiclient.APIError{StatusCode: 500, Body: []byte(`{"detail":"boom"}`)}, http.StatusBadGateway, "Failed to fetch patients. Please try again.", ""},
		{"network", errors.New("dial tcp: connection refused"), http.StatusBadGateway, "Failed to fetch patients. Please try again.", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/patient-management", nil)

			respondBackendError(c, "fetch patients", tt.err)

			if w.Code != tt.status {
				t.Errorf("status = %d, want %d", w.Code, tt.status)
			}
			var env utils.ResponseData
			if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
				t.Fatal(err)
			}
			if env.Error != tt.message {
				t.Errorf("error = %q, want %q", env.Error, tt.message)
			}
			if got := w.Header().Get("Location"); got != tt.location {
				t.Errorf("Location = %q, want %q", got, tt.location)
			}
		})
	}
}

func TestPageQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	for query, want := range map[string]int{"": 1, "?page=3": 3, "?page=0": 1, "?page=x": 1} {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/predictions-history"+query, nil)
		if got := pageQuery(c); got != want {
			t.Errorf("pageQuery(%q) = %d, want %d", query, got, want)
		}
	}
}
