package gate

import "oncology-dashboard/internal/session"

// Policy maps each dashboard screen to the capability it needs.
var Policy = map[string]Requirement{
	"/login":          Public,
	"/password-reset": Public,

	"/": Authenticated,

	"/admin-dashboard": AdminOnly,
	"/user-management": AdminOnly,
	"/register-user":   AdminOnly,

	"/dashboard":             DoctorOnly,
	"/treatment-recommender": DoctorOnly,
	"/tumor-detection":       DoctorOnly,
	"/survival-prediction":   DoctorOnly,

	"/predictions":         Authenticated,
	"/predictions-history": Authenticated,
	"/patient-management":  Authenticated,
	"/doctor-management":   Authenticated,
}

// Lookup returns the requirement of a screen. Unknown screens need a session.
func Lookup(path string) Requirement {
	if r, ok := Policy[path]; ok {
		return r
	}
	return Authenticated
}

// MenuItem is one sidebar entry.
type MenuItem struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

var sidebar = []MenuItem{
	{Title: "Dashboard", URL: "/admin-dashboard"},
	{Title: "Dashboard", URL: "/dashboard"},
	{Title: "Treatment Recommender", URL: "/treatment-recommender"},
	{Title: "Tumor Detection", URL: "/tumor-detection"},
	{Title: "Survival Prediction", URL: "/survival-prediction"},
	{Title: "Predictions", URL: "/predictions"},
	{Title: "Predictions History", URL: "/predictions-history"},
	{Title: "Patient Management", URL: "/patient-management"},
	{Title: "Doctor Management", URL: "/doctor-management"},
	{Title: "User Management", URL: "/user-management"},
	{Title: "Register User", URL: "/register-user"},
}

// Menu lists the sidebar entries the session is allowed to open, in
// display order. A session that is not authenticated gets no menu.
func Menu(snap session.Snapshot) []MenuItem {
	items := []MenuItem{}
	if snap.Status != session.StatusAuthenticated {
		return items
	}
	for _, item := range sidebar {
		if Decide(snap, Lookup(item.URL)).Action == Render {
			items = append(items, item)
		}
	}
	return items
}
