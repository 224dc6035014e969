package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestPetitionAccessors(t *testing.T) {
	s, p := primitive.NewObjectID(), primitive.NewObjectID()

	petition := &Petition{Students: []primitive.ObjectID{s}, Projects: []primitive.ObjectID{p}}
	assert.Equal(t, s, petition.StudentID())
	assert.Equal(t, p, petition.ProjectID())

	empty := &Petition{}
	assert.Equal(t, primitive.NilObjectID, empty.StudentID())
	assert.Equal(t, primitive.NilObjectID, empty.ProjectID())
}

func TestEnrollmentKey(t *testing.T) {
	s, p := primitive.NewObjectID(), primitive.NewObjectID()
	assert.Equal(t, s.Hex()+":"+p.Hex(), EnrollmentKey(s, p))
	assert.NotEqual(t, EnrollmentKey(s, p), EnrollmentKey(p, s))
}

func TestPetitionStatusValid(t *testing.T) {
	assert.True(t, StatusPending.Valid())
	assert.True(t, StatusApproved.Valid())
	assert.True(t, StatusRejected.Valid())
	assert.False(t, PetitionStatus("true").Valid())
}

func TestNormalizeRole(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", RoleStudent},
		{"student", RoleStudent},
		{"admin", RoleAdministrator},
		{"Administrator", RoleAdministrator},
		{"SUPERADMIN", RoleAdministrator},
		{"coordinator", "coordinator"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeRole(tt.in), tt.in)
	}
}
