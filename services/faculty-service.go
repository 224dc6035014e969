package services

import (
	"context"
	"strings"

	"social-service/portal-service/apperrors"
	"social-service/portal-service/models"
)

type FacultyService struct {
	faculties FacultyRepository
}

func NewFacultyService(faculties FacultyRepository) *FacultyService {
	return &FacultyService{faculties: faculties}
}

func (s *FacultyService) Create(ctx context.Context, nf models.NewFaculty) (*models.Faculty, error) {
	name := strings.TrimSpace(nf.Name)
	existing, err := s.faculties.FindByName(ctx, name)
	if err != nil {
		return nil, storeError(err, "failed to check faculty name")
	}
	if existing != nil {
		return nil, apperrors.Duplicate("a faculty with this name already exists")
	}
	faculty := &models.Faculty{Name: name}
	if err := s.faculties.Insert(ctx, faculty); err != nil {
		if isDuplicate(err) {
			return nil, apperrors.Duplicate("a faculty with this name already exists")
		}
		return nil, storeError(err, "failed to create faculty")
	}
	return faculty, nil
}

func (s *FacultyService) List(ctx context.Context) ([]models.Faculty, error) {
	faculties, err := s.faculties.FindAll(ctx)
	return faculties, storeError(err, "failed to list faculties")
}

func (s *FacultyService) FindByID(ctx context.Context, idHex string) (*models.Faculty, error) {
	id, err := ParseID("id", idHex)
	if err != nil {
		return nil, err
	}
	faculty, err := s.faculties.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "failed to load faculty")
	}
	if faculty == nil {
		return nil, apperrors.NotFound("faculty not found")
	}
	return faculty, nil
}

func (s *FacultyService) Delete(ctx context.Context, idHex string) error {
	id, err := ParseID("id", idHex)
	if err != nil {
		return err
	}
	deleted, err := s.faculties.Delete(ctx, id)
	if err != nil {
		return storeError(err, "failed to delete faculty")
	}
	if !deleted {
		return apperrors.NotFound("faculty not found")
	}
	return nil
}
