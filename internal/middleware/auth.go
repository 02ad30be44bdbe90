package middleware

import (
	"github.com/gin-gonic/gin"

	"oncology-dashboard/internal/gate"
	"oncology-dashboard/internal/models"
	"oncology-dashboard/internal/session"
	"oncology-dashboard/internal/utils"
)

const identityKey = "identity"

// SessionSource exposes the current session state.
type SessionSource interface {
	Snapshot() session.Snapshot
}

// GateMiddleware lets a request through only when the gate renders the
// screen for the current session. While the session is restoring it answers
// 202 and never redirects.
func GateMiddleware(sess SessionSource, requirement gate.Requirement) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap := sess.Snapshot()
		decision := gate.Decide(snap, requirement)

		switch decision.Action {
		case gate.Wait:
			utils.Accepted(c, "Session is loading", gin.H{"retry": true})
			c.Abort()
			return
		case gate.Redirect:
			utils.Found(c, decision.Location)
			c.Abort()
			return
		}

		if snap.Identity != nil {
			c.Set(identityKey, *snap.Identity)
		}
		c.Next()
	}
}

// RequireScreen applies the policy table's requirement for screen.
func RequireScreen(sess SessionSource, screen string) gin.HandlerFunc {
	return GateMiddleware(sess, gate.Lookup(screen))
}

// GetIdentityFromContext returns the identity the gate attached.
func GetIdentityFromContext(c *gin.Context) (models.Identity, bool) {
	v, exists := c.Get(identityKey)
	if !exists {
		return models.Identity{}, false
	}
	id, ok := v.(models.Identity)
	return id, ok
}

// Helper function to get user ID from context
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	id, ok := GetIdentityFromContext(c)
	if !ok || id.ID == "" {
		return "", false
	}
	return id.ID, true
}
