package services

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"social-service/portal-service/apperrors"
	"social-service/portal-service/logging"
	"social-service/portal-service/models"
)

type StudentService struct {
	students StudentRepository
	careers  CareerRepository
}

func NewStudentService(students StudentRepository, careers CareerRepository) *StudentService {
	return &StudentService{students: students, careers: careers}
}

func (s *StudentService) Create(ctx context.Context, ns models.NewStudent) (*models.Student, error) {
	email := normalizeEmail(ns.Email)
	existing, err := s.students.FindByEmail(ctx, email)
	if err != nil {
		return nil, storeError(err, "failed to check student email")
	}
	if existing != nil {
		return nil, apperrors.Duplicate("a student with this email already exists")
	}

	student := &models.Student{
		Carnet:  ns.Carnet,
		Name:    ns.Name,
		Hours:   ns.Hours,
		Picture: ns.Picture,
		Email:   email,
		Role:    models.NormalizeRole(ns.Role),
		Careers: []primitive.ObjectID{},
	}
	if err := s.students.Insert(ctx, student); err != nil {
		if isDuplicate(err) {
			return nil, apperrors.Duplicate("a student with this email already exists")
		}
		return nil, storeError(err, "failed to create student")
	}
	return student, nil
}

// List returns all students with their careers resolved.
func (s *StudentService) List(ctx context.Context) ([]models.StudentView, error) {
	students, err := s.students.FindAll(ctx)
	if err != nil {
		return nil, storeError(err, "failed to list students")
	}
	var ids []primitive.ObjectID
	for _, st := range students {
		ids = append(ids, st.Careers...)
	}
	careers, err := s.careers.FindByIDs(ctx, ids)
	if err != nil {
		return nil, storeError(err, "failed to resolve careers")
	}
	byID := make(map[primitive.ObjectID]models.Career, len(careers))
	for _, c := range careers {
		byID[c.ID] = c
	}

	views := make([]models.StudentView, 0, len(students))
	for _, st := range students {
		view := models.StudentView{
			ID:      st.ID,
			Carnet:  st.Carnet,
			Name:    st.Name,
			Hours:   st.Hours,
			Picture: st.Picture,
			Email:   st.Email,
			Role:    st.Role,
			Careers: []models.Career{},
		}
		for _, id := range st.Careers {
			if c, ok := byID[id]; ok {
				view.Careers = append(view.Careers, c)
			}
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *StudentService) FindByID(ctx context.Context, idHex string) (*models.Student, error) {
	id, err := ParseID("id", idHex)
	if err != nil {
		return nil, err
	}
	return s.load(ctx, id)
}

func (s *StudentService) load(ctx context.Context, id primitive.ObjectID) (*models.Student, error) {
	student, err := s.students.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "failed to load student")
	}
	if student == nil {
		return nil, apperrors.NotFound("student not found")
	}
	return student, nil
}

func (s *StudentService) FindByEmail(ctx context.Context, email string) (*models.Student, error) {
	student, err := s.students.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, storeError(err, "failed to load student")
	}
	if student == nil {
		return nil, apperrors.NotFound("student not found")
	}
	return student, nil
}

// AssignCareer adds a career to the student. Both must exist.
func (s *StudentService) AssignCareer(ctx context.Context, studentHex, careerHex string) (*models.Student, error) {
	studentID, err := ParseID("studentId", studentHex)
	if err != nil {
		return nil, err
	}
	careerID, err := ParseID("careerId", careerHex)
	if err != nil {
		return nil, err
	}
	if _, err := s.load(ctx, studentID); err != nil {
		return nil, err
	}
	if err := ensureCareer(ctx, s.careers, careerID); err != nil {
		return nil, err
	}

	added, err := s.students.AddCareer(ctx, studentID, careerID)
	if err != nil {
		return nil, storeError(err, "failed to assign career")
	}
	if !added {
		return nil, apperrors.Duplicate("student already has this career")
	}
	return s.load(ctx, studentID)
}

// SetRole changes the role of the student owning email.
func (s *StudentService) SetRole(ctx context.Context, email, role string) error {
	matched, err := s.students.SetRole(ctx, normalizeEmail(email), models.NormalizeRole(role))
	if err != nil {
		return storeError(err, "failed to set student role")
	}
	if !matched {
		return apperrors.NotFound("student not found")
	}
	logging.Logger.WithField("email", email).Infof("Event ID: STUDENT_ROLE_SET, Description: Role set to %s", role)
	return nil
}

func (s *StudentService) Delete(ctx context.Context, idHex string) error {
	id, err := ParseID("id", idHex)
	if err != nil {
		return err
	}
	deleted, err := s.students.Delete(ctx, id)
	if err != nil {
		return storeError(err, "failed to delete student")
	}
	if !deleted {
		return apperrors.NotFound("student not found")
	}
	return nil
}

func ensureCareer(ctx context.Context, careers CareerRepository, id primitive.ObjectID) error {
	career, err := careers.FindByID(ctx, id)
	if err != nil {
		return storeError(err, "failed to load career")
	}
	if career == nil {
		return apperrors.NotFound("career not found")
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
