package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Project struct {
	ID          primitive.ObjectID   `json:"_id" bson:"_id,omitempty"`
	Name        string               `json:"name" bson:"name"`
	Capacity    int                  `json:"capacity" bson:"capacity"`
	Students    []primitive.ObjectID `json:"students" bson:"students"`
	StartDate   time.Time            `json:"startDate" bson:"startDate"`
	FinalDate   time.Time            `json:"finalDate" bson:"finalDate"`
	Institution string               `json:"institution" bson:"institution"`
	Description string               `json:"description" bson:"description"`
}

func (p *Project) HasStudent(studentID primitive.ObjectID) bool {
	for _, id := range p.Students {
		if id == studentID {
			return true
		}
	}
	return false
}

// ProjectView is a project with enrolled students resolved.
type ProjectView struct {
	ID          primitive.ObjectID `json:"_id"`
	Name        string             `json:"name"`
	Capacity    int                `json:"capacity"`
	Students    []Student          `json:"students"`
	StartDate   time.Time          `json:"startDate"`
	FinalDate   time.Time          `json:"finalDate"`
	Institution string             `json:"institution"`
	Description string             `json:"description"`
}
