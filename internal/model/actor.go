package model

import "strings"

// Actor is the authenticated identity making requests. It is supplied by
// the fronting login collaborator; the service consumes it but never
// creates or stores actors.
type Actor struct {
	ID        string   `json:"id"`
	Roles     []string `json:"roles,omitempty"`
	Superuser bool     `json:"superuser,omitempty"`
}

// NormalizeRole lowercases and trims a role name so that role comparisons
// are case- and whitespace-insensitive.
func NormalizeRole(role string) string {
	return strings.ToLower(strings.TrimSpace(role))
}

// HasRole reports whether the actor holds the given role after
// normalization.
func (a *Actor) HasRole(role string) bool {
	want := NormalizeRole(role)
	for _, r := range a.Roles {
		if NormalizeRole(r) == want {
			return true
		}
	}
	return false
}
