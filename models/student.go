package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type Student struct {
	ID      primitive.ObjectID   `json:"_id" bson:"_id,omitempty"`
	Carnet  string               `json:"carnet" bson:"carnet"`
	Name    string               `json:"name" bson:"name"`
	Hours   int                  `json:"hours" bson:"hours"`
	Picture string               `json:"picture" bson:"picture"`
	Email   string               `json:"email" bson:"email"`
	Role    string               `json:"role" bson:"role"`
	Careers []primitive.ObjectID `json:"careers" bson:"careers"`
}

// StudentView is a student with careers resolved.
type StudentView struct {
	ID      primitive.ObjectID `json:"_id"`
	Carnet  string             `json:"carnet"`
	Name    string             `json:"name"`
	Hours   int                `json:"hours"`
	Picture string             `json:"picture"`
	Email   string             `json:"email"`
	Role    string             `json:"role"`
	Careers []Career           `json:"careers"`
}
