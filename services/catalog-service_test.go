package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"social-service/portal-service/apperrors"
	"social-service/portal-service/models"
)

func TestProjectNamesAreUnique(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.project(t, "Huertos", 1)

	_, err := f.projects.Create(ctx, models.NewProject{Name: " Huertos ", Capacity: 3})
	assert.True(t, apperrors.Is(err, apperrors.KindDuplicate))
}

func TestProjectListAndStudentProjects(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.project(t, "Huertos", 2)
	f.project(t, "Biblioteca", 2)
	s := f.student(t, "00011119")
	petition, err := f.petitions.Enroll(ctx, s.ID.Hex(), p.ID.Hex())
	require.NoError(t, err)
	_, err = f.petitions.Approve(ctx, petition.ID.Hex())
	require.NoError(t, err)

	views, err := f.projects.List(ctx)
	require.NoError(t, err)
	require.Len(t, views, 2)
	for _, v := range views {
		if v.ID == p.ID {
			require.Len(t, v.Students, 1)
			assert.Equal(t, s.ID, v.Students[0].ID)
		} else {
			assert.Empty(t, v.Students)
		}
	}

	mine, err := f.projects.ListByStudent(ctx, s.ID.Hex())
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Huertos", mine[0].Name)

	_, err = f.projects.ListByStudent(ctx, primitive.NewObjectID().Hex())
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
}

func TestCareerFacultyAssignment(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	faculty, err := f.faculties.Create(ctx, models.NewFaculty{Name: "Ingeniería"})
	require.NoError(t, err)
	career, err := f.careers.Create(ctx, models.NewCareer{Name: "Informática"})
	require.NoError(t, err)

	updated, err := f.careers.AssignFaculty(ctx, career.ID.Hex(), faculty.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{faculty.ID}, updated.Faculty)

	_, err = f.careers.AssignFaculty(ctx, career.ID.Hex(), faculty.ID.Hex())
	assert.True(t, apperrors.Is(err, apperrors.KindDuplicate))
	_, err = f.careers.AssignFaculty(ctx, career.ID.Hex(), primitive.NewObjectID().Hex())
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))

	views, err := f.careers.List(ctx)
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.Len(t, views[0].Faculty, 1)
	assert.Equal(t, "Ingeniería", views[0].Faculty[0].Name)

	_, err = f.faculties.Create(ctx, models.NewFaculty{Name: "Ingeniería"})
	assert.True(t, apperrors.Is(err, apperrors.KindDuplicate))
}

func TestStudentAndUserCareerAssignment(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	career, err := f.careers.Create(ctx, models.NewCareer{Name: "Informática"})
	require.NoError(t, err)
	s := f.student(t, "00011119")
	u, err := f.users.Create(ctx, models.NewUser{Name: "Coord", Email: "coord@gmail.com"})
	require.NoError(t, err)

	updated, err := f.students.AssignCareer(ctx, s.ID.Hex(), career.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{career.ID}, updated.Careers)
	_, err = f.students.AssignCareer(ctx, s.ID.Hex(), career.ID.Hex())
	assert.True(t, apperrors.Is(err, apperrors.KindDuplicate))

	updatedUser, err := f.users.AssignCareer(ctx, u.ID.Hex(), career.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{career.ID}, updatedUser.Careers)

	views, err := f.students.List(ctx)
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.Len(t, views[0].Careers, 1)
	assert.Equal(t, "Informática", views[0].Careers[0].Name)
}

func TestDeletes(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := f.student(t, "00011119")

	require.NoError(t, f.students.Delete(ctx, s.ID.Hex()))
	err := f.students.Delete(ctx, s.ID.Hex())
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))

	_, err = f.students.FindByID(ctx, s.ID.Hex())
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))

	err = f.admins.Delete(ctx, "not-an-id")
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))
}
