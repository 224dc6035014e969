package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"social-service/portal-service/models"
	"social-service/portal-service/repositories"
)

func TestReserveSeatUnderContention(t *testing.T) {
	ctx := context.Background()
	projects := NewStore().Projects()
	project := &models.Project{Name: "Biblioteca", Capacity: 3}
	require.NoError(t, projects.Insert(ctx, project))

	var granted int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := projects.ReserveSeat(ctx, project.ID, primitive.NewObjectID())
			assert.NoError(t, err)
			if p != nil {
				atomic.AddInt32(&granted, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(3), granted)
	got, err := projects.FindByID(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Capacity)
	assert.Len(t, got.Students, 3)
}

func TestReserveSeatRejectsEnrolledStudent(t *testing.T) {
	ctx := context.Background()
	projects := NewStore().Projects()
	project := &models.Project{Name: "Biblioteca", Capacity: 2}
	require.NoError(t, projects.Insert(ctx, project))
	student := primitive.NewObjectID()

	p, err := projects.ReserveSeat(ctx, project.ID, student)
	require.NoError(t, err)
	require.NotNil(t, p)

	p, err = projects.ReserveSeat(ctx, project.ID, student)
	require.NoError(t, err)
	assert.Nil(t, p)

	released, err := projects.ReleaseSeat(ctx, project.ID, student)
	require.NoError(t, err)
	require.NotNil(t, released)
	assert.Equal(t, 2, released.Capacity)
	assert.Empty(t, released.Students)

	released, err = projects.ReleaseSeat(ctx, project.ID, student)
	require.NoError(t, err)
	assert.Nil(t, released)
}

func TestPetitionEnrollmentKeyIsUnique(t *testing.T) {
	ctx := context.Background()
	petitions := NewStore().Petitions()
	s, p := primitive.NewObjectID(), primitive.NewObjectID()

	first := &models.Petition{Status: models.StatusPending, Students: []primitive.ObjectID{s}, Projects: []primitive.ObjectID{p}, EnrollmentKey: models.EnrollmentKey(s, p)}
	require.NoError(t, petitions.Insert(ctx, first))

	second := &models.Petition{Status: models.StatusPending, Students: []primitive.ObjectID{s}, Projects: []primitive.ObjectID{p}, EnrollmentKey: models.EnrollmentKey(s, p)}
	assert.ErrorIs(t, petitions.Insert(ctx, second), repositories.ErrDuplicateKey)

	_, err := petitions.RemoveEnrollment(ctx, first.ID, s, p)
	require.NoError(t, err)
	assert.NoError(t, petitions.Insert(ctx, second))
}

func TestDecideOnlyFromPending(t *testing.T) {
	ctx := context.Background()
	petitions := NewStore().Petitions()
	petition := &models.Petition{Status: models.StatusPending}
	require.NoError(t, petitions.Insert(ctx, petition))

	decided, err := petitions.Decide(ctx, petition.ID, models.StatusApproved, petition.Date, nil)
	require.NoError(t, err)
	require.NotNil(t, decided)
	assert.Equal(t, models.StatusApproved, decided.Status)

	again, err := petitions.Decide(ctx, petition.ID, models.StatusRejected, petition.Date, nil)
	require.NoError(t, err)
	assert.Nil(t, again)
}

func TestReturnedRecordsAreCopies(t *testing.T) {
	ctx := context.Background()
	students := NewStore().Students()
	st := &models.Student{Email: "a@uca.edu.sv"}
	require.NoError(t, students.Insert(ctx, st))

	got, err := students.FindByID(ctx, st.ID)
	require.NoError(t, err)
	got.Careers = append(got.Careers, primitive.NewObjectID())
	got.Email = "changed"

	again, err := students.FindByID(ctx, st.ID)
	require.NoError(t, err)
	assert.Empty(t, again.Careers)
	assert.Equal(t, "a@uca.edu.sv", again.Email)
}
