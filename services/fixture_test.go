package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"social-service/portal-service/models"
	"social-service/portal-service/repositories/memory"
)

var fixedNow = time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)

type fixture struct {
	store         *memory.Store
	petitions     *PetitionService
	projects      *ProjectService
	students      *StudentService
	careers       *CareerService
	faculties     *FacultyService
	users         *UserService
	admins        *AdministratorService
	auth          *AuthService
	notifications *NotificationService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	notifications := NewNotificationService(store.Notifications(), store.Students())
	notifications.now = func() time.Time { return fixedNow }

	return &fixture{
		store: store,
		petitions: NewPetitionService(store.Petitions(), store.Projects(), store.Students(), notifications).
			WithClock(func() time.Time { return fixedNow }),
		projects:      NewProjectService(store.Projects(), store.Students()),
		students:      NewStudentService(store.Students(), store.Careers()),
		careers:       NewCareerService(store.Careers(), store.Faculties()),
		faculties:     NewFacultyService(store.Faculties()),
		users:         NewUserService(store.Users(), store.Careers()),
		admins:        NewAdministratorService(store.Administrators()),
		auth:          NewAuthService(store.Users(), store.Students(), store.Administrators(), "@uca.edu.sv"),
		notifications: notifications,
	}
}

func (f *fixture) project(t *testing.T, name string, capacity int) *models.Project {
	t.Helper()
	p, err := f.projects.Create(context.Background(), models.NewProject{
		Name:        name,
		Capacity:    capacity,
		StartDate:   fixedNow,
		FinalDate:   fixedNow.AddDate(0, 3, 0),
		Institution: "Alcaldía",
	})
	require.NoError(t, err)
	return p
}

func (f *fixture) student(t *testing.T, carnet string) *models.Student {
	t.Helper()
	s, err := f.students.Create(context.Background(), models.NewStudent{
		Carnet: carnet,
		Name:   "Student " + carnet,
		Email:  carnet + "@uca.edu.sv",
	})
	require.NoError(t, err)
	return s
}
