package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type Administrator struct {
	ID     primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Carnet string             `json:"carnet" bson:"carnet"`
	Name   string             `json:"name" bson:"name"`
	Email  string             `json:"email" bson:"email"`
}
