// Package gate decides whether a dashboard screen may be shown to the
// current session. Every route's requirement lives in one policy table that
// the middleware and the navigation menu both read.
package gate

import (
	"oncology-dashboard/internal/models"
	"oncology-dashboard/internal/session"
)

// Requirement is the capability a route needs
type Requirement int

const (
	Public Requirement = iota
	Authenticated
	AdminOnly
	DoctorOnly
)

func (r Requirement) String() string {
	switch r {
	case Public:
		return "public"
	case Authenticated:
		return "authenticated"
	case AdminOnly:
		return "admin-only"
	case DoctorOnly:
		return "doctor-only"
	}
	return "unknown"
}

// Action is what the caller should do with a route.
type Action int

const (
	// Wait renders nothing while the session is still being restored.
	Wait Action = iota
	Render
	Redirect
)

// Decision is the gate's answer. Location is set only for Redirect.
type Decision struct {
	Action   Action
	Location string
}

const (
	LoginPath             = "/login"
	AdminLandingPath      = "/admin-dashboard"
	DoctorLandingPath     = "/dashboard"
	RestrictedLandingPath = "/patient-management"
)

// Decide evaluates requirement against the session snapshot. It is pure and
// must be re-run on every navigation and after every session change.
func Decide(snap session.Snapshot, requirement Requirement) Decision {
	if snap.Status == session.StatusLoading {
		return Decision{Action: Wait}
	}
	if requirement == Public {
		return Decision{Action: Render}
	}
	if snap.Status != session.StatusAuthenticated || snap.Identity == nil {
		return redirect(LoginPath)
	}

	id := *snap.Identity
	switch requirement {
	case AdminOnly:
		if !id.IsAdmin() {
			return redirect(Landing(id))
		}
	case DoctorOnly:
		if !id.IsDoctor() {
			if id.IsAdmin() {
				return redirect(AdminLandingPath)
			}
			return redirect(RestrictedLandingPath)
		}
	}
	return Decision{Action: Render}
}

// Landing is the home screen for a role.
func Landing(id models.Identity) string {
	switch {
	case id.IsAdmin():
		return AdminLandingPath
	case id.IsDoctor():
		return DoctorLandingPath
	default:
		return RestrictedLandingPath
	}
}

func redirect(location string) Decision {
	return Decision{Action: Redirect, Location: location}
}
