package models

// Identity is the caller as asserted by a verified identity-provider token.
type Identity struct {
	Subject string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

type IdentityKind string

const (
	IdentityUser    IdentityKind = "user"
	IdentityStudent IdentityKind = "student"
)

// LoginResult describes which persistent record a login resolved to.
type LoginResult struct {
	User    interface{}  `json:"user"`
	Created bool         `json:"created"`
	Type    IdentityKind `json:"type"`
	Role    string       `json:"role"`
}
