package models

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleStudent       = "student"
	RoleAdministrator = "administrator"
	RoleAdmin         = "admin"
)

type User struct {
	ID      primitive.ObjectID   `json:"_id" bson:"_id,omitempty"`
	Carnet  string               `json:"carnet" bson:"carnet"`
	Name    string               `json:"name" bson:"name"`
	Email   string               `json:"email" bson:"email"`
	Role    string               `json:"role" bson:"role"`
	Picture string               `json:"picture" bson:"picture"`
	Careers []primitive.ObjectID `json:"careers" bson:"careers"`
}

// IsAdminRole reports whether a stored role string grants administrator
// access. Legacy records use variants such as "admin" or "Administrator".
func IsAdminRole(role string) bool {
	return strings.Contains(strings.ToLower(role), RoleAdmin)
}

// NormalizeRole maps any admin-like role to RoleAdministrator and an empty
// role to RoleStudent.
func NormalizeRole(role string) string {
	switch {
	case role == "":
		return RoleStudent
	case IsAdminRole(role):
		return RoleAdministrator
	default:
		return role
	}
}
