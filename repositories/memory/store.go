// Package memory is an in-process implementation of the repositories used
// for tests and for running the portal without MongoDB. It enforces the same
// unique keys and conditional updates as the Mongo store.
package memory

import (
	"sync"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"social-service/portal-service/models"
	"social-service/portal-service/repositories"
)

type table[T any] struct {
	order []primitive.ObjectID
	rows  map[primitive.ObjectID]T
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[primitive.ObjectID]T)}
}

func (t *table[T]) put(id primitive.ObjectID, v T) {
	if _, ok := t.rows[id]; !ok {
		t.order = append(t.order, id)
	}
	t.rows[id] = v
}

func (t *table[T]) get(id primitive.ObjectID) (T, bool) {
	v, ok := t.rows[id]
	return v, ok
}

func (t *table[T]) remove(id primitive.ObjectID) bool {
	if _, ok := t.rows[id]; !ok {
		return false
	}
	delete(t.rows, id)
	for i, oid := range t.order {
		if oid == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return true
}

func (t *table[T]) filter(match func(T) bool) []T {
	out := []T{}
	for _, id := range t.order {
		if v := t.rows[id]; match(v) {
			out = append(out, v)
		}
	}
	return out
}

func (t *table[T]) list() []T {
	out := make([]T, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.rows[id])
	}
	return out
}

func (t *table[T]) first(match func(T) bool) (T, bool) {
	for _, id := range t.order {
		if v := t.rows[id]; match(v) {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// Store holds every collection behind a single lock.
type Store struct {
	mu             sync.RWMutex
	petitions      *table[models.Petition]
	projects       *table[models.Project]
	students       *table[models.Student]
	users          *table[models.User]
	administrators *table[models.Administrator]
	faculties      *table[models.Faculty]
	careers        *table[models.Career]
	notifications  *table[models.Notification]
}

func NewStore() *Store {
	return &Store{
		petitions:      newTable[models.Petition](),
		projects:       newTable[models.Project](),
		students:       newTable[models.Student](),
		users:          newTable[models.User](),
		administrators: newTable[models.Administrator](),
		faculties:      newTable[models.Faculty](),
		careers:        newTable[models.Career](),
		notifications:  newTable[models.Notification](),
	}
}

func (s *Store) Petitions() *PetitionRepository           { return &PetitionRepository{s} }
func (s *Store) Projects() *ProjectRepository             { return &ProjectRepository{s} }
func (s *Store) Students() *StudentRepository             { return &StudentRepository{s} }
func (s *Store) Users() *UserRepository                   { return &UserRepository{s} }
func (s *Store) Administrators() *AdministratorRepository { return &AdministratorRepository{s} }
func (s *Store) Faculties() *FacultyRepository            { return &FacultyRepository{s} }
func (s *Store) Careers() *CareerRepository               { return &CareerRepository{s} }
func (s *Store) Notifications() *NotificationRepository   { return &NotificationRepository{s} }

func duplicate(msg string) error {
	return errors.Wrap(repositories.ErrDuplicateKey, msg)
}

func cloneIDs(ids []primitive.ObjectID) []primitive.ObjectID {
	out := make([]primitive.ObjectID, len(ids))
	copy(out, ids)
	return out
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func removeID(ids []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
