package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PetitionStatus string

const (
	StatusPending  PetitionStatus = "pending"
	StatusApproved PetitionStatus = "approved"
	StatusRejected PetitionStatus = "rejected"
)

func (s PetitionStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Petition is a student's request to join a project. Students and Projects
// hold exactly one reference each; they stay arrays to keep the stored
// documents compatible with existing data.
type Petition struct {
	ID              primitive.ObjectID   `json:"_id" bson:"_id,omitempty"`
	Date            time.Time            `json:"date" bson:"date"`
	Status          PetitionStatus       `json:"status" bson:"status"`
	Students        []primitive.ObjectID `json:"students" bson:"students"`
	Projects        []primitive.ObjectID `json:"projects" bson:"projects"`
	ApprovedAt      *time.Time           `json:"approvedAt,omitempty" bson:"approvedAt,omitempty"`
	RejectionReason *string              `json:"rejectionReason,omitempty" bson:"rejectionReason,omitempty"`
	// EnrollmentKey backs the unique index on the (student, project) pair.
	EnrollmentKey string `json:"-" bson:"enrollmentKey,omitempty"`
}

// StudentID returns the petition's student reference, or NilObjectID.
func (p *Petition) StudentID() primitive.ObjectID {
	if len(p.Students) == 0 {
		return primitive.NilObjectID
	}
	return p.Students[0]
}

// ProjectID returns the petition's project reference, or NilObjectID.
func (p *Petition) ProjectID() primitive.ObjectID {
	if len(p.Projects) == 0 {
		return primitive.NilObjectID
	}
	return p.Projects[0]
}

func EnrollmentKey(studentID, projectID primitive.ObjectID) string {
	return studentID.Hex() + ":" + projectID.Hex()
}

// PetitionView is a petition with its references resolved for display.
type PetitionView struct {
	ID              primitive.ObjectID `json:"_id"`
	Date            time.Time          `json:"date"`
	Status          PetitionStatus     `json:"status"`
	Students        []Student          `json:"students"`
	Projects        []Project          `json:"projects"`
	ApprovedAt      *time.Time         `json:"approvedAt,omitempty"`
	RejectionReason *string            `json:"rejectionReason,omitempty"`
}

// Decision is the result of approving a petition.
type Decision struct {
	Petition *Petition `json:"petition"`
	Project  *Project  `json:"project,omitempty"`
}
