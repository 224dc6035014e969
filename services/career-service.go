package services

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"social-service/portal-service/apperrors"
	"social-service/portal-service/models"
)

type CareerService struct {
	careers   CareerRepository
	faculties FacultyRepository
}

func NewCareerService(careers CareerRepository, faculties FacultyRepository) *CareerService {
	return &CareerService{careers: careers, faculties: faculties}
}

func (s *CareerService) Create(ctx context.Context, nc models.NewCareer) (*models.Career, error) {
	name := strings.TrimSpace(nc.Name)
	existing, err := s.careers.FindByName(ctx, name)
	if err != nil {
		return nil, storeError(err, "failed to check career name")
	}
	if existing != nil {
		return nil, apperrors.Duplicate("a career with this name already exists")
	}
	career := &models.Career{Name: name, Faculty: []primitive.ObjectID{}}
	if err := s.careers.Insert(ctx, career); err != nil {
		if isDuplicate(err) {
			return nil, apperrors.Duplicate("a career with this name already exists")
		}
		return nil, storeError(err, "failed to create career")
	}
	return career, nil
}

// List returns all careers with their faculties resolved.
func (s *CareerService) List(ctx context.Context) ([]models.CareerView, error) {
	careers, err := s.careers.FindAll(ctx)
	if err != nil {
		return nil, storeError(err, "failed to list careers")
	}
	var ids []primitive.ObjectID
	for _, c := range careers {
		ids = append(ids, c.Faculty...)
	}
	faculties, err := s.faculties.FindByIDs(ctx, ids)
	if err != nil {
		return nil, storeError(err, "failed to resolve faculties")
	}
	byID := make(map[primitive.ObjectID]models.Faculty, len(faculties))
	for _, f := range faculties {
		byID[f.ID] = f
	}

	views := make([]models.CareerView, 0, len(careers))
	for _, c := range careers {
		view := models.CareerView{ID: c.ID, Name: c.Name, Faculty: []models.Faculty{}}
		for _, id := range c.Faculty {
			if f, ok := byID[id]; ok {
				view.Faculty = append(view.Faculty, f)
			}
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *CareerService) FindByID(ctx context.Context, idHex string) (*models.Career, error) {
	id, err := ParseID("id", idHex)
	if err != nil {
		return nil, err
	}
	return s.load(ctx, id)
}

func (s *CareerService) load(ctx context.Context, id primitive.ObjectID) (*models.Career, error) {
	career, err := s.careers.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "failed to load career")
	}
	if career == nil {
		return nil, apperrors.NotFound("career not found")
	}
	return career, nil
}

// AssignFaculty links the career to a faculty. Both must exist.
func (s *CareerService) AssignFaculty(ctx context.Context, careerHex, facultyHex string) (*models.Career, error) {
	careerID, err := ParseID("careerId", careerHex)
	if err != nil {
		return nil, err
	}
	facultyID, err := ParseID("facultyId", facultyHex)
	if err != nil {
		return nil, err
	}
	if _, err := s.load(ctx, careerID); err != nil {
		return nil, err
	}
	faculty, err := s.faculties.FindByID(ctx, facultyID)
	if err != nil {
		return nil, storeError(err, "failed to load faculty")
	}
	if faculty == nil {
		return nil, apperrors.NotFound("faculty not found")
	}

	added, err := s.careers.AddFaculty(ctx, careerID, facultyID)
	if err != nil {
		return nil, storeError(err, "failed to assign faculty")
	}
	if !added {
		return nil, apperrors.Duplicate("career already belongs to this faculty")
	}
	return s.load(ctx, careerID)
}

func (s *CareerService) Delete(ctx context.Context, idHex string) error {
	id, err := ParseID("id", idHex)
	if err != nil {
		return err
	}
	deleted, err := s.careers.Delete(ctx, id)
	if err != nil {
		return storeError(err, "failed to delete career")
	}
	if !deleted {
		return apperrors.NotFound("career not found")
	}
	return nil
}
