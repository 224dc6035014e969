package models

import "time"

// Request payloads accepted by the HTTP layer. Reference fields arrive as hex
// strings and are checked with the "objectid" validation tag.

type EnrollRequest struct {
	StudentID string `json:"studentId" validate:"required,objectid"`
	ProjectID string `json:"projectId" validate:"required,objectid"`
}

type RejectRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

type NewPetition struct {
	StudentID string         `json:"studentId" validate:"required,objectid"`
	ProjectID string         `json:"projectId" validate:"required,objectid"`
	Status    PetitionStatus `json:"status" validate:"omitempty,oneof=pending approved rejected"`
}

type NewProject struct {
	Name        string    `json:"name" validate:"required,min=3,max=120"`
	Capacity    int       `json:"capacity" validate:"gte=1"`
	StartDate   time.Time `json:"startDate" validate:"required"`
	FinalDate   time.Time `json:"finalDate" validate:"required,gtfield=StartDate"`
	Institution string    `json:"institution" validate:"required"`
	Description string    `json:"description" validate:"max=2000"`
}

type NewFaculty struct {
	Name string `json:"name" validate:"required,min=2,max=120"`
}

type NewCareer struct {
	Name string `json:"name" validate:"required,min=2,max=120"`
}

type NewStudent struct {
	Carnet  string `json:"carnet" validate:"required"`
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Hours   int    `json:"hours" validate:"gte=0"`
	Picture string `json:"picture" validate:"omitempty,url"`
	Role    string `json:"role"`
}

type NewUser struct {
	Carnet  string `json:"carnet"`
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Picture string `json:"picture" validate:"omitempty,url"`
	Role    string `json:"role"`
}

type NewAdministrator struct {
	Carnet string `json:"carnet" validate:"required"`
	Name   string `json:"name" validate:"required"`
	Email  string `json:"email" validate:"required,email"`
}

// LoginRequest carries the identity-provider token when it is not sent as a
// header.
type LoginRequest struct {
	Token string `json:"token"`
}
