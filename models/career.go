package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type Career struct {
	ID      primitive.ObjectID   `json:"_id" bson:"_id,omitempty"`
	Name    string               `json:"name" bson:"name"`
	Faculty []primitive.ObjectID `json:"faculty" bson:"faculty"`
}

type CareerView struct {
	ID      primitive.ObjectID `json:"_id"`
	Name    string             `json:"name"`
	Faculty []Faculty          `json:"faculty"`
}
