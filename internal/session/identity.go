package session

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"oncology-dashboard/internal/models"
)

// ErrMalformedToken is returned when an access token's claims cannot be read.
var ErrMalformedToken = errors.New("malformed access token")

// Claims represents the identity claims carried by an access token.
type Claims struct {
	UserID    any         `json:"user_id"`
	Email     string      `json:"email"`
	Role      models.Role `json:"role"`
	Name      string      `json:"name"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	jwt.RegisteredClaims
}

// DecodeIdentity reads the identity out of an access token without
// verifying its signature. The backend verifies every token it receives;
// the dashboard only ever decodes tokens it got from the login or refresh
// endpoint.
func DecodeIdentity(accessToken string) (models.Identity, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, claims); err != nil {
		return models.Identity{}, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	id := claimID(claims.UserID)
	if id == "" {
		id = claims.Subject
	}
	if id == "" || claims.Email == "" {
		return models.Identity{}, fmt.Errorf("%w: missing user id or email", ErrMalformedToken)
	}

	role := claims.Role
	if role == "" {
		role = models.RoleDoctor
	}

	name := claims.Name
	if name == "" {
		name = strings.TrimSpace(claims.FirstName + " " + claims.LastName)
	}

	return models.Identity{ID: id, Email: claims.Email, Role: role, Name: name}, nil
}

// claimID normalizes numeric and string user ids to a string.
func claimID(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	case nil:
		return ""
	}
	return fmt.Sprint(v)
}
