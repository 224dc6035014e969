package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"social-service/portal-service/models"
)

type FacultyRepository struct {
	collection *mongo.Collection
}

func NewFacultyRepository(db *mongo.Database) *FacultyRepository {
	return &FacultyRepository{collection: db.Collection(FacultiesCollection)}
}

func (r *FacultyRepository) Insert(ctx context.Context, faculty *models.Faculty) error {
	if faculty.ID.IsZero() {
		faculty.ID = primitive.NewObjectID()
	}
	_, err := r.collection.InsertOne(ctx, faculty)
	return translate(err, "insert faculty")
}

func (r *FacultyRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Faculty, error) {
	return findOne[models.Faculty](ctx, r.collection, bson.M{"_id": id}, "find faculty")
}

func (r *FacultyRepository) FindByName(ctx context.Context, name string) (*models.Faculty, error) {
	return findOne[models.Faculty](ctx, r.collection, bson.M{"name": name}, "find faculty by name")
}

func (r *FacultyRepository) FindAll(ctx context.Context) ([]models.Faculty, error) {
	return findMany[models.Faculty](ctx, r.collection, bson.M{}, "list faculties")
}

func (r *FacultyRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Faculty, error) {
	if len(ids) == 0 {
		return []models.Faculty{}, nil
	}
	return findMany[models.Faculty](ctx, r.collection, byIDs(ids), "list faculties by id")
}

func (r *FacultyRepository) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	return deleteByID(ctx, r.collection, id, "delete faculty")
}
