package services

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"social-service/portal-service/apperrors"
	"social-service/portal-service/logging"
	"social-service/portal-service/models"
)

type ProjectService struct {
	projects ProjectRepository
	students StudentRepository
}

func NewProjectService(projects ProjectRepository, students StudentRepository) *ProjectService {
	return &ProjectService{projects: projects, students: students}
}

// Create stores a new project with no enrolled students. Names are unique.
func (s *ProjectService) Create(ctx context.Context, np models.NewProject) (*models.Project, error) {
	name := strings.TrimSpace(np.Name)
	existing, err := s.projects.FindByName(ctx, name)
	if err != nil {
		return nil, storeError(err, "failed to check project name")
	}
	if existing != nil {
		return nil, apperrors.Duplicate("a project with this name already exists")
	}

	project := &models.Project{
		Name:        name,
		Capacity:    np.Capacity,
		Students:    []primitive.ObjectID{},
		StartDate:   np.StartDate,
		FinalDate:   np.FinalDate,
		Institution: np.Institution,
		Description: np.Description,
	}
	if err := s.projects.Insert(ctx, project); err != nil {
		if isDuplicate(err) {
			return nil, apperrors.Duplicate("a project with this name already exists")
		}
		return nil, storeError(err, "failed to create project")
	}
	logging.Logger.WithField("project", project.ID.Hex()).Info("Event ID: PROJECT_CREATED, Description: Project created")
	return project, nil
}

// List returns all projects with their enrolled students resolved.
func (s *ProjectService) List(ctx context.Context) ([]models.ProjectView, error) {
	projects, err := s.projects.FindAll(ctx)
	if err != nil {
		return nil, storeError(err, "failed to list projects")
	}

	var ids []primitive.ObjectID
	for _, p := range projects {
		ids = append(ids, p.Students...)
	}
	students, err := s.students.FindByIDs(ctx, ids)
	if err != nil {
		return nil, storeError(err, "failed to resolve students")
	}
	byID := make(map[primitive.ObjectID]models.Student, len(students))
	for _, st := range students {
		byID[st.ID] = st
	}

	views := make([]models.ProjectView, 0, len(projects))
	for _, p := range projects {
		view := models.ProjectView{
			ID:          p.ID,
			Name:        p.Name,
			Capacity:    p.Capacity,
			Students:    []models.Student{},
			StartDate:   p.StartDate,
			FinalDate:   p.FinalDate,
			Institution: p.Institution,
			Description: p.Description,
		}
		for _, id := range p.Students {
			if st, ok := byID[id]; ok {
				view.Students = append(view.Students, st)
			}
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *ProjectService) FindByID(ctx context.Context, idHex string) (*models.Project, error) {
	id, err := ParseID("id", idHex)
	if err != nil {
		return nil, err
	}
	project, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "failed to load project")
	}
	if project == nil {
		return nil, apperrors.NotFound("project not found")
	}
	return project, nil
}

// ListByStudent returns the projects the student holds a seat on.
func (s *ProjectService) ListByStudent(ctx context.Context, studentHex string) ([]models.Project, error) {
	studentID, err := ParseID("studentId", studentHex)
	if err != nil {
		return nil, err
	}
	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		return nil, storeError(err, "failed to load student")
	}
	if student == nil {
		return nil, apperrors.NotFound("student not found")
	}
	projects, err := s.projects.FindByStudent(ctx, studentID)
	if err != nil {
		return nil, storeError(err, "failed to list projects")
	}
	return projects, nil
}

func (s *ProjectService) Delete(ctx context.Context, idHex string) error {
	id, err := ParseID("id", idHex)
	if err != nil {
		return err
	}
	deleted, err := s.projects.Delete(ctx, id)
	if err != nil {
		return storeError(err, "failed to delete project")
	}
	if !deleted {
		return apperrors.NotFound("project not found")
	}
	logging.Logger.WithField("project", idHex).Info("Event ID: PROJECT_DELETED, Description: Project deleted")
	return nil
}
