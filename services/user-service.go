package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"social-service/portal-service/apperrors"
	"social-service/portal-service/models"
)

type UserService struct {
	users   UserRepository
	careers CareerRepository
}

func NewUserService(users UserRepository, careers CareerRepository) *UserService {
	return &UserService{users: users, careers: careers}
}

func (s *UserService) Create(ctx context.Context, nu models.NewUser) (*models.User, error) {
	email := normalizeEmail(nu.Email)
	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, storeError(err, "failed to check user email")
	}
	if existing != nil {
		return nil, apperrors.Duplicate("a user with this email already exists")
	}

	user := &models.User{
		Carnet:  nu.Carnet,
		Name:    nu.Name,
		Email:   email,
		Role:    models.NormalizeRole(nu.Role),
		Picture: nu.Picture,
		Careers: []primitive.ObjectID{},
	}
	if err := s.users.Insert(ctx, user); err != nil {
		if isDuplicate(err) {
			return nil, apperrors.Duplicate("a user with this email already exists")
		}
		return nil, storeError(err, "failed to create user")
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.users.FindAll(ctx)
	return users, storeError(err, "failed to list users")
}

func (s *UserService) FindByID(ctx context.Context, idHex string) (*models.User, error) {
	id, err := ParseID("id", idHex)
	if err != nil {
		return nil, err
	}
	return s.load(ctx, id)
}

func (s *UserService) load(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "failed to load user")
	}
	if user == nil {
		return nil, apperrors.NotFound("user not found")
	}
	return user, nil
}

func (s *UserService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, storeError(err, "failed to load user")
	}
	if user == nil {
		return nil, apperrors.NotFound("user not found")
	}
	return user, nil
}

func (s *UserService) AssignCareer(ctx context.Context, userHex, careerHex string) (*models.User, error) {
	userID, err := ParseID("userId", userHex)
	if err != nil {
		return nil, err
	}
	careerID, err := ParseID("careerId", careerHex)
	if err != nil {
		return nil, err
	}
	if _, err := s.load(ctx, userID); err != nil {
		return nil, err
	}
	if err := ensureCareer(ctx, s.careers, careerID); err != nil {
		return nil, err
	}

	added, err := s.users.AddCareer(ctx, userID, careerID)
	if err != nil {
		return nil, storeError(err, "failed to assign career")
	}
	if !added {
		return nil, apperrors.Duplicate("user already has this career")
	}
	return s.load(ctx, userID)
}

func (s *UserService) SetRole(ctx context.Context, email, role string) error {
	matched, err := s.users.SetRole(ctx, normalizeEmail(email), models.NormalizeRole(role))
	if err != nil {
		return storeError(err, "failed to set user role")
	}
	if !matched {
		return apperrors.NotFound("user not found")
	}
	return nil
}

func (s *UserService) Delete(ctx context.Context, idHex string) error {
	id, err := ParseID("id", idHex)
	if err != nil {
		return err
	}
	deleted, err := s.users.Delete(ctx, id)
	if err != nil {
		return storeError(err, "failed to delete user")
	}
	if !deleted {
		return apperrors.NotFound("user not found")
	}
	return nil
}
