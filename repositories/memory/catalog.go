package memory

import (
	"context"
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"social-service/portal-service/models"
)

type FacultyRepository struct {
	s *Store
}

func (r *FacultyRepository) Insert(_ context.Context, faculty *models.Faculty) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.faculties.first(func(f models.Faculty) bool { return f.Name == faculty.Name }); ok {
		return duplicate("insert faculty")
	}
	if faculty.ID.IsZero() {
		faculty.ID = primitive.NewObjectID()
	}
	r.s.faculties.put(faculty.ID, *faculty)
	return nil
}

func (r *FacultyRepository) FindByID(_ context.Context, id primitive.ObjectID) (*models.Faculty, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	f, ok := r.s.faculties.get(id)
	if !ok {
		return nil, nil
	}
	return &f, nil
}

func (r *FacultyRepository) FindByName(_ context.Context, name string) (*models.Faculty, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	f, ok := r.s.faculties.first(func(f models.Faculty) bool { return f.Name == name })
	if !ok {
		return nil, nil
	}
	return &f, nil
}

func (r *FacultyRepository) FindAll(_ context.Context) ([]models.Faculty, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.faculties.list(), nil
}

func (r *FacultyRepository) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Faculty, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.faculties.filter(func(f models.Faculty) bool { return containsID(ids, f.ID) }), nil
}

func (r *FacultyRepository) Delete(_ context.Context, id primitive.ObjectID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.faculties.remove(id), nil
}

type CareerRepository struct {
	s *Store
}

func cloneCareer(c models.Career) *models.Career {
	c.Faculty = cloneIDs(c.Faculty)
	return &c
}

func careerList(rows []models.Career) []models.Career {
	out := make([]models.Career, 0, len(rows))
	for _, c := range rows {
		out = append(out, *cloneCareer(c))
	}
	return out
}

func (r *CareerRepository) Insert(_ context.Context, career *models.Career) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.careers.first(func(c models.Career) bool { return c.Name == career.Name }); ok {
		return duplicate("insert career")
	}
	if career.ID.IsZero() {
		career.ID = primitive.NewObjectID()
	}
	career.Faculty = cloneIDs(career.Faculty)
	r.s.careers.put(career.ID, *cloneCareer(*career))
	return nil
}

func (r *CareerRepository) FindByID(_ context.Context, id primitive.ObjectID) (*models.Career, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.careers.get(id)
	if !ok {
		return nil, nil
	}
	return cloneCareer(c), nil
}

func (r *CareerRepository) FindByName(_ context.Context, name string) (*models.Career, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.careers.first(func(c models.Career) bool { return c.Name == name })
	if !ok {
		return nil, nil
	}
	return cloneCareer(c), nil
}

func (r *CareerRepository) FindAll(_ context.Context) ([]models.Career, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return careerList(r.s.careers.list()), nil
}

func (r *CareerRepository) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Career, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return careerList(r.s.careers.filter(func(c models.Career) bool { return containsID(ids, c.ID) })), nil
}

func (r *CareerRepository) AddFaculty(_ context.Context, careerID, facultyID primitive.ObjectID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.careers.get(careerID)
	if !ok || containsID(c.Faculty, facultyID) {
		return false, nil
	}
	c.Faculty = append(cloneIDs(c.Faculty), facultyID)
	r.s.careers.put(careerID, c)
	return true, nil
}

func (r *CareerRepository) Delete(_ context.Context, id primitive.ObjectID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.careers.remove(id), nil
}

type NotificationRepository struct {
	s *Store
}

func (r *NotificationRepository) Insert(_ context.Context, n *models.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if n.ID.IsZero() {
		n.ID = primitive.NewObjectID()
	}
	r.s.notifications.put(n.ID, *n)
	return nil
}

func (r *NotificationRepository) FindByStudent(_ context.Context, studentID primitive.ObjectID) ([]models.Notification, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := r.s.notifications.filter(func(n models.Notification) bool { return n.StudentID == studentID })
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *NotificationRepository) MarkRead(_ context.Context, id, studentID primitive.ObjectID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	n, ok := r.s.notifications.get(id)
	if !ok || n.StudentID != studentID {
		return false, nil
	}
	n.IsRead = true
	r.s.notifications.put(id, n)
	return true, nil
}
