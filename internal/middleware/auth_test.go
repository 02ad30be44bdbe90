package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"oncology-dashboard/internal/gate"
	"oncology-dashboard/internal/models"
	"oncology-dashboard/internal/session"
)

type fixedSession session.Snapshot

func (f fixedSession) Snapshot() session.Snapshot { return session.Snapshot(f) }

func serveGated(snap session.Snapshot, requirement gate.Requirement) (*httptest.ResponseRecorder, string) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	var seenID string
	router.GET("/screen", GateMiddleware(fixedSession(snap), requirement), func(c *gin.Context) {
		seenID, _ = GetUserIDFromContext(c)
		c.Status(http.StatusOK)
	})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/screen", nil))
	return w, seenID
}

func TestGateMiddleware(t *testing.T) {
	doctor := session.Snapshot{
		Status:   session.StatusAuthenticated,
		Identity: &models.Identity{ID: "3", Email: "doc@clinic.test", Role: models.RoleDoctor},
	}

	tests := []struct {
		name     string
		snap     session.Snapshot
		req      gate.Requirement
		status   int
		location string
		userID   string
	}{
		{"loading", session.Snapshot{Status: session.StatusLoading}, gate.DoctorOnly, http.StatusAccepted, "", ""},
		{"anonymous", session.Snapshot{Status: session.StatusAnonymous}, gate.Authenticated, http.StatusFound, "/login", ""},
		{"anonymous public", session.Snapshot{Status: session.StatusAnonymous}, gate.Public, http.StatusOK, "", ""},
		{"doctor on admin screen", doctor, gate.AdminOnly, http.StatusFound, "/dashboard", ""},
		{"doctor on doctor screen", doctor, gate.DoctorOnly, http.StatusOK, "", "3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, userID := serveGated(tt.snap, tt.req)
			if w.Code != tt.status {
				t.Errorf("status = %d, want %d", w.Code, tt.status)
			}
			if got := w.Header().Get("Location"); got != tt.location {
				t.Errorf("Location = %q, want %q", got, tt.location)
			}
			if userID != tt.userID {
				t.Errorf("user id in context = %q, want %q", userID, tt.userID)
			}
		})
	}
}
