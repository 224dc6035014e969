package memory

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"social-service/portal-service/models"
)

type StudentRepository struct {
	s *Store
}

func cloneStudent(st models.Student) *models.Student {
	st.Careers = cloneIDs(st.Careers)
	return &st
}

func (r *StudentRepository) Insert(_ context.Context, student *models.Student) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.students.first(func(st models.Student) bool { return st.Email == student.Email }); ok {
		return duplicate("insert student")
	}
	if student.ID.IsZero() {
		student.ID = primitive.NewObjectID()
	}
	student.Careers = cloneIDs(student.Careers)
	r.s.students.put(student.ID, *cloneStudent(*student))
	return nil
}

func (r *StudentRepository) FindByID(_ context.Context, id primitive.ObjectID) (*models.Student, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	st, ok := r.s.students.get(id)
	if !ok {
		return nil, nil
	}
	return cloneStudent(st), nil
}

func (r *StudentRepository) FindByEmail(_ context.Context, email string) (*models.Student, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	st, ok := r.s.students.first(func(st models.Student) bool { return st.Email == email })
	if !ok {
		return nil, nil
	}
	return cloneStudent(st), nil
}

func (r *StudentRepository) FindAll(_ context.Context) ([]models.Student, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return studentList(r.s.students.list()), nil
}

func (r *StudentRepository) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Student, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return studentList(r.s.students.filter(func(st models.Student) bool { return containsID(ids, st.ID) })), nil
}

func studentList(rows []models.Student) []models.Student {
	out := make([]models.Student, 0, len(rows))
	for _, st := range rows {
		out = append(out, *cloneStudent(st))
	}
	return out
}

func (r *StudentRepository) AddCareer(_ context.Context, studentID, careerID primitive.ObjectID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	st, ok := r.s.students.get(studentID)
	if !ok || containsID(st.Careers, careerID) {
		return false, nil
	}
	st.Careers = append(cloneIDs(st.Careers), careerID)
	r.s.students.put(studentID, st)
	return true, nil
}

func (r *StudentRepository) SetRole(_ context.Context, email, role string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	st, ok := r.s.students.first(func(st models.Student) bool { return st.Email == email })
	if !ok {
		return false, nil
	}
	st.Role = role
	r.s.students.put(st.ID, st)
	return true, nil
}

func (r *StudentRepository) MigrateMissingRoles(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for _, st := range r.s.students.filter(func(st models.Student) bool { return st.Role == "" }) {
		st.Role = models.RoleStudent
		r.s.students.put(st.ID, st)
		n++
	}
	return n, nil
}

func (r *StudentRepository) Delete(_ context.Context, id primitive.ObjectID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.students.remove(id), nil
}

type UserRepository struct {
	s *Store
}

func cloneUser(u models.User) *models.User {
	u.Careers = cloneIDs(u.Careers)
	return &u
}

func (r *UserRepository) Insert(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users.first(func(u models.User) bool { return u.Email == user.Email }); ok {
		return duplicate("insert user")
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	user.Careers = cloneIDs(user.Careers)
	r.s.users.put(user.ID, *cloneUser(*user))
	return nil
}

func (r *UserRepository) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users.get(id)
	if !ok {
		return nil, nil
	}
	return cloneUser(u), nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users.first(func(u models.User) bool { return u.Email == email })
	if !ok {
		return nil, nil
	}
	return cloneUser(u), nil
}

func (r *UserRepository) FindAll(_ context.Context) ([]models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rows := r.s.users.list()
	out := make([]models.User, 0, len(rows))
	for _, u := range rows {
		out = append(out, *cloneUser(u))
	}
	return out, nil
}

func (r *UserRepository) AddCareer(_ context.Context, userID, careerID primitive.ObjectID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users.get(userID)
	if !ok || containsID(u.Careers, careerID) {
		return false, nil
	}
	u.Careers = append(cloneIDs(u.Careers), careerID)
	r.s.users.put(userID, u)
	return true, nil
}

func (r *UserRepository) SetRole(_ context.Context, email, role string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users.first(func(u models.User) bool { return u.Email == email })
	if !ok {
		return false, nil
	}
	u.Role = role
	r.s.users.put(u.ID, u)
	return true, nil
}

func (r *UserRepository) Delete(_ context.Context, id primitive.ObjectID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.users.remove(id), nil
}

type AdministratorRepository struct {
	s *Store
}

func (r *AdministratorRepository) Insert(_ context.Context, admin *models.Administrator) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.administrators.first(func(a models.Administrator) bool { return a.Email == admin.Email }); ok {
		return duplicate("insert administrator")
	}
	if admin.ID.IsZero() {
		admin.ID = primitive.NewObjectID()
	}
	r.s.administrators.put(admin.ID, *admin)
	return nil
}

func (r *AdministratorRepository) FindByID(_ context.Context, id primitive.ObjectID) (*models.Administrator, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.administrators.get(id)
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r *AdministratorRepository) FindByEmail(_ context.Context, email string) (*models.Administrator, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.administrators.first(func(a models.Administrator) bool { return a.Email == email })
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r *AdministratorRepository) FindAll(_ context.Context) ([]models.Administrator, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.administrators.list(), nil
}

func (r *AdministratorRepository) Delete(_ context.Context, id primitive.ObjectID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.administrators.remove(id), nil
}
