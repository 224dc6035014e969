package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Notification struct {
	ID         primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	StudentID  primitive.ObjectID `json:"studentId" bson:"studentId"`
	PetitionID primitive.ObjectID `json:"petitionId" bson:"petitionId"`
	ProjectID  primitive.ObjectID `json:"projectId" bson:"projectId"`
	Message    string             `json:"message" bson:"message"`
	CreatedAt  time.Time          `json:"createdAt" bson:"createdAt"`
	IsRead     bool               `json:"isRead" bson:"isRead"`
}
