package memory

import (
	"context"
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"social-service/portal-service/models"
)

type ProjectRepository struct {
	s *Store
}

func cloneProject(p models.Project) *models.Project {
	p.Students = cloneIDs(p.Students)
	return &p
}

func projectList(rows []models.Project) []models.Project {
	out := make([]models.Project, 0, len(rows))
	for _, p := range rows {
		out = append(out, *cloneProject(p))
	}
	return out
}

func (r *ProjectRepository) Insert(_ context.Context, project *models.Project) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.projects.first(func(p models.Project) bool { return p.Name == project.Name }); ok {
		return duplicate("insert project")
	}
	if project.ID.IsZero() {
		project.ID = primitive.NewObjectID()
	}
	project.Students = cloneIDs(project.Students)
	r.s.projects.put(project.ID, *cloneProject(*project))
	return nil
}

func (r *ProjectRepository) FindByID(_ context.Context, id primitive.ObjectID) (*models.Project, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.projects.get(id)
	if !ok {
		return nil, nil
	}
	return cloneProject(p), nil
}

func (r *ProjectRepository) FindByName(_ context.Context, name string) (*models.Project, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.projects.first(func(p models.Project) bool { return p.Name == name })
	if !ok {
		return nil, nil
	}
	return cloneProject(p), nil
}

func (r *ProjectRepository) FindAll(_ context.Context) ([]models.Project, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := projectList(r.s.projects.list())
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartDate.After(out[j].StartDate) })
	return out, nil
}

func (r *ProjectRepository) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Project, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return projectList(r.s.projects.filter(func(p models.Project) bool { return containsID(ids, p.ID) })), nil
}

func (r *ProjectRepository) FindByStudent(_ context.Context, studentID primitive.ObjectID) ([]models.Project, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return projectList(r.s.projects.filter(func(p models.Project) bool { return containsID(p.Students, studentID) })), nil
}

// ReserveSeat applies the same guard as the Mongo filter: capacity left and
// the student not already enrolled.
func (r *ProjectRepository) ReserveSeat(_ context.Context, projectID, studentID primitive.ObjectID) (*models.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.projects.get(projectID)
	if !ok || p.Capacity <= 0 || containsID(p.Students, studentID) {
		return nil, nil
	}
	p.Capacity--
	p.Students = append(cloneIDs(p.Students), studentID)
	r.s.projects.put(projectID, p)
	return cloneProject(p), nil
}

func (r *ProjectRepository) ReleaseSeat(_ context.Context, projectID, studentID primitive.ObjectID) (*models.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.projects.get(projectID)
	if !ok || !containsID(p.Students, studentID) {
		return nil, nil
	}
	p.Capacity++
	p.Students = removeID(p.Students, studentID)
	r.s.projects.put(projectID, p)
	return cloneProject(p), nil
}

func (r *ProjectRepository) Delete(_ context.Context, id primitive.ObjectID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.projects.remove(id), nil
}
