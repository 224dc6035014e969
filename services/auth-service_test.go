package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"social-service/portal-service/apperrors"
	"social-service/portal-service/models"
)

func TestLoginInstitutionalStudentIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	id := models.Identity{Subject: "g-1", Email: "00012321@UCA.edu.sv", Name: "Ana", Picture: "https://img/ana.png"}

	first, err := f.auth.Login(ctx, id)
	require.NoError(t, err)
	assert.True(t, first.Created)
	assert.Equal(t, models.IdentityStudent, first.Type)
	student := first.User.(*models.Student)
	assert.Equal(t, "00012321", student.Carnet)
	assert.Equal(t, 0, student.Hours)
	assert.Equal(t, models.RoleStudent, student.Role)
	assert.Empty(t, student.Careers)

	second, err := f.auth.Login(ctx, id)
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Equal(t, student.ID, second.User.(*models.Student).ID)

	all, err := f.students.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestLoginExternalCreatesUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	id := models.Identity{Subject: "g-42", Email: "visitor@gmail.com", Name: "Visitor"}

	res, err := f.auth.Login(ctx, id)
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.Equal(t, models.IdentityUser, res.Type)
	user := res.User.(*models.User)
	assert.Equal(t, "g-42", user.Carnet)
	assert.Equal(t, models.RoleStudent, user.Role)

	again, err := f.auth.Login(ctx, id)
	require.NoError(t, err)
	assert.False(t, again.Created)
	assert.Equal(t, user.ID, again.User.(*models.User).ID)
}

func TestLoginPrefersExistingUserAndNormalizesRole(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.users.Create(ctx, models.NewUser{Name: "Boss", Email: "boss@uca.edu.sv", Role: "student"})
	require.NoError(t, err)
	_, err = f.store.Users().SetRole(ctx, "boss@uca.edu.sv", "SuperAdmin")
	require.NoError(t, err)

	res, err := f.auth.Login(ctx, models.Identity{Email: "boss@uca.edu.sv"})
	require.NoError(t, err)
	assert.Equal(t, models.IdentityUser, res.Type)
	assert.Equal(t, models.RoleAdministrator, res.Role)

	students, err := f.students.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, students)
}

func TestLoginWithoutEmail(t *testing.T) {
	_, err := newFixture(t).auth.Login(context.Background(), models.Identity{Subject: "x"})
	assert.True(t, apperrors.Is(err, apperrors.KindUnauthorized))
}

func TestResolveAdmin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.admins.Create(ctx, models.NewAdministrator{Carnet: "A1", Name: "Admin", Email: "admin@uca.edu.sv"})
	require.NoError(t, err)
	_, err = f.users.Create(ctx, models.NewUser{Name: "Coord", Email: "coord@uca.edu.sv", Role: "Admin"})
	require.NoError(t, err)
	st := f.student(t, "00099999")
	require.NoError(t, f.students.SetRole(ctx, st.Email, "administrator"))
	plain := f.student(t, "00088888")

	tests := []struct {
		email  string
		source string
		kind   apperrors.Kind
	}{
		{"admin@uca.edu.sv", "administrator", 0},
		{"coord@uca.edu.sv", "user", 0},
		{st.Email, "student", 0},
		{plain.Email, "", apperrors.KindForbidden},
		{"stranger@example.com", "", apperrors.KindForbidden},
		{"", "", apperrors.KindUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			principal, err := f.auth.ResolveAdmin(ctx, tt.email)
			if tt.source == "" {
				require.Error(t, err)
				assert.Equal(t, tt.kind, apperrors.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.source, principal.Source)
		})
	}
}
