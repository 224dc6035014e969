package services

import (
	"context"

	"social-service/portal-service/apperrors"
	"social-service/portal-service/models"
)

type AdministratorService struct {
	administrators AdministratorRepository
}

func NewAdministratorService(administrators AdministratorRepository) *AdministratorService {
	return &AdministratorService{administrators: administrators}
}

func (s *AdministratorService) Create(ctx context.Context, na models.NewAdministrator) (*models.Administrator, error) {
	email := normalizeEmail(na.Email)
	existing, err := s.administrators.FindByEmail(ctx, email)
	if err != nil {
		return nil, storeError(err, "failed to check administrator email")
	}
	if existing != nil {
		return nil, apperrors.Duplicate("an administrator with this email already exists")
	}
	admin := &models.Administrator{Carnet: na.Carnet, Name: na.Name, Email: email}
	if err := s.administrators.Insert(ctx, admin); err != nil {
		if isDuplicate(err) {
			return nil, apperrors.Duplicate("an administrator with this email already exists")
		}
		return nil, storeError(err, "failed to create administrator")
	}
	return admin, nil
}

func (s *AdministratorService) List(ctx context.Context) ([]models.Administrator, error) {
	admins, err := s.administrators.FindAll(ctx)
	return admins, storeError(err, "failed to list administrators")
}

func (s *AdministratorService) FindByID(ctx context.Context, idHex string) (*models.Administrator, error) {
	id, err := ParseID("id", idHex)
	if err != nil {
		return nil, err
	}
	admin, err := s.administrators.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "failed to load administrator")
	}
	if admin == nil {
		return nil, apperrors.NotFound("administrator not found")
	}
	return admin, nil
}

func (s *AdministratorService) FindByEmail(ctx context.Context, email string) (*models.Administrator, error) {
	admin, err := s.administrators.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, storeError(err, "failed to load administrator")
	}
	if admin == nil {
		return nil, apperrors.NotFound("administrator not found")
	}
	return admin, nil
}

func (s *AdministratorService) Delete(ctx context.Context, idHex string) error {
	id, err := ParseID("id", idHex)
	if err != nil {
		return err
	}
	deleted, err := s.administrators.Delete(ctx, id)
	if err != nil {
		return storeError(err, "failed to delete administrator")
	}
	if !deleted {
		return apperrors.NotFound("administrator not found")
	}
	return nil
}
