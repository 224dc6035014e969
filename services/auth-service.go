package services

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"social-service/portal-service/apperrors"
	"social-service/portal-service/logging"
	"social-service/portal-service/models"
)

// AuthService maps verified identity-provider identities onto portal records
// and decides who may act as an administrator.
type AuthService struct {
	users          UserRepository
	students       StudentRepository
	administrators AdministratorRepository
	domain         string
}

// NewAuthService returns an AuthService. Emails ending in domain (for example
// "@uca.edu.sv") are provisioned as students.
func NewAuthService(users UserRepository, students StudentRepository, administrators AdministratorRepository, domain string) *AuthService {
	return &AuthService{
		users:          users,
		students:       students,
		administrators: administrators,
		domain:         strings.ToLower(domain),
	}
}

// Login resolves the identity to an existing user, an institutional student
// (created on first login) or a generic user (created on first login). At
// most one record is created per call and concurrent first logins converge on
// the same record.
func (s *AuthService) Login(ctx context.Context, id models.Identity) (*models.LoginResult, error) {
	email := normalizeEmail(id.Email)
	if email == "" {
		return nil, apperrors.Unauthorized("token carries no email")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, storeError(err, "failed to load user")
	}
	if user != nil {
		user.Role = models.NormalizeRole(user.Role)
		return &models.LoginResult{User: user, Type: models.IdentityUser, Role: user.Role}, nil
	}

	if s.domain != "" && strings.HasSuffix(email, s.domain) {
		return s.loginStudent(ctx, email, id)
	}
	return s.loginUser(ctx, email, id)
}

func (s *AuthService) loginStudent(ctx context.Context, email string, id models.Identity) (*models.LoginResult, error) {
	student, err := s.students.FindByEmail(ctx, email)
	if err != nil {
		return nil, storeError(err, "failed to load student")
	}
	created := false
	if student == nil {
		student = &models.Student{
			Carnet:  strings.TrimSuffix(email, s.domain),
			Name:    displayName(id, email),
			Hours:   0,
			Picture: id.Picture,
			Email:   email,
			Role:    models.RoleStudent,
			Careers: []primitive.ObjectID{},
		}
		if err := s.students.Insert(ctx, student); err != nil {
			if !isDuplicate(err) {
				return nil, storeError(err, "failed to create student")
			}
			// A concurrent login created it first.
			if student, err = s.students.FindByEmail(ctx, email); err != nil || student == nil {
				return nil, storeError(orMissing(err), "failed to load student")
			}
		} else {
			created = true
			logging.Logger.WithFields(logrus.Fields{"email": email, "student": student.ID.Hex()}).
				Info("Event ID: STUDENT_PROVISIONED, Description: Student created on first login")
		}
	}
	student.Role = models.NormalizeRole(student.Role)
	return &models.LoginResult{User: student, Created: created, Type: models.IdentityStudent, Role: student.Role}, nil
}

func (s *AuthService) loginUser(ctx context.Context, email string, id models.Identity) (*models.LoginResult, error) {
	user := &models.User{
		Carnet:  id.Subject,
		Name:    displayName(id, email),
		Email:   email,
		Role:    models.RoleStudent,
		Picture: id.Picture,
		Careers: []primitive.ObjectID{},
	}
	created := true
	if err := s.users.Insert(ctx, user); err != nil {
		if !isDuplicate(err) {
			return nil, storeError(err, "failed to create user")
		}
		created = false
		var ferr error
		if user, ferr = s.users.FindByEmail(ctx, email); ferr != nil || user == nil {
			return nil, storeError(orMissing(ferr), "failed to load user")
		}
		user.Role = models.NormalizeRole(user.Role)
	} else {
		logging.Logger.WithFields(logrus.Fields{"email": email, "user": user.ID.Hex()}).
			Info("Event ID: USER_PROVISIONED, Description: User created on first login")
	}
	return &models.LoginResult{User: user, Created: created, Type: models.IdentityUser, Role: user.Role}, nil
}

func displayName(id models.Identity, email string) string {
	if id.Name != "" {
		return id.Name
	}
	return email
}

// orMissing turns the "inserted but cannot be read back" case into an error.
func orMissing(err error) error {
	if err != nil {
		return err
	}
	return apperrors.Internal(errMissingAfterDuplicate, "record vanished after duplicate insert")
}

// AdminPrincipal identifies the record that granted administrator access.
type AdminPrincipal struct {
	ID     primitive.ObjectID
	Email  string
	Source string
}

// ResolveAdmin checks the administrators collection, then users and students
// carrying an admin-like role. Anyone else is forbidden.
func (s *AuthService) ResolveAdmin(ctx context.Context, email string) (*AdminPrincipal, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, apperrors.Unauthorized("authentication required")
	}

	admin, err := s.administrators.FindByEmail(ctx, email)
	if err != nil {
		return nil, storeError(err, "failed to load administrator")
	}
	if admin != nil {
		return &AdminPrincipal{ID: admin.ID, Email: email, Source: "administrator"}, nil
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, storeError(err, "failed to load user")
	}
	if user != nil && models.IsAdminRole(user.Role) {
		return &AdminPrincipal{ID: user.ID, Email: email, Source: "user"}, nil
	}

	student, err := s.students.FindByEmail(ctx, email)
	if err != nil {
		return nil, storeError(err, "failed to load student")
	}
	if student != nil && models.IsAdminRole(student.Role) {
		return &AdminPrincipal{ID: student.ID, Email: email, Source: "student"}, nil
	}

	logging.Logger.WithField("email", email).Warn("Event ID: ADMIN_DENIED, Description: Administrator access denied")
	return nil, apperrors.Forbidden("administrator access required")
}
