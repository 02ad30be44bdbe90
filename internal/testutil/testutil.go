// Package testutil holds helpers shared by the package tests.
package testutil

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// signingKey is only known to the tests; the dashboard never verifies signatures.
var signingKey = []byte("test-signing-key")

// AccessToken mints an HS256 token carrying the given claims plus an expiry.
func AccessToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()

	all := jwt.MapClaims{"exp": time.Now().Add(15 * time.Minute).Unix()}
	for k, v := range claims {
		all[k] = v
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, all).SignedString(signingKey)
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}
	return token
}

// DoctorToken mints an access token for a doctor account.
func DoctorToken(t *testing.T, id int, email string) string {
	t.Helper()
	return AccessToken(t, jwt.MapClaims{"user_id": id, "email": email, "role": "doctor"})
}

// AdminToken mints an access token for an admin account.
func AdminToken(t *testing.T, id int, email string) string {
	t.Helper()
	return AccessToken(t, jwt.MapClaims{"user_id": id, "email": email, "role": "admin"})
}

// WriteJSON writes a JSON response from a fake backend handler.
func WriteJSON(t *testing.T, w http.ResponseWriter, status int, body any) {
	t.Helper()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		t.Errorf("failed to encode fake response: %v", err)
	}
}

// DecodeJSON decodes a request body received by a fake backend handler.
func DecodeJSON(t *testing.T, r *http.Request, v any) {
	t.Helper()

	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		t.Errorf("failed to decode request body: %v", err)
	}
}
