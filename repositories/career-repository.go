package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"social-service/portal-service/models"
)

type CareerRepository struct {
	collection *mongo.Collection
}

func NewCareerRepository(db *mongo.Database) *CareerRepository {
	return &CareerRepository{collection: db.Collection(CareersCollection)}
}

func (r *CareerRepository) Insert(ctx context.Context, career *models.Career) error {
	if career.ID.IsZero() {
		career.ID = primitive.NewObjectID()
	}
	career.Faculty = emptyIfNil(career.Faculty)

	_, err := r.collection.InsertOne(ctx, career)
	return translate(err, "insert career")
}

func (r *CareerRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Career, error) {
	return findOne[models.Career](ctx, r.collection, bson.M{"_id": id}, "find career")
}

func (r *CareerRepository) FindByName(ctx context.Context, name string) (*models.Career, error) {
	return findOne[models.Career](ctx, r.collection, bson.M{"name": name}, "find career by name")
}

func (r *CareerRepository) FindAll(ctx context.Context) ([]models.Career, error) {
	return findMany[models.Career](ctx, r.collection, bson.M{}, "list careers")
}

func (r *CareerRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Career, error) {
	if len(ids) == 0 {
		return []models.Career{}, nil
	}
	return findMany[models.Career](ctx, r.collection, byIDs(ids), "list careers by id")
}

// AddFaculty reports false when the career is missing or already belongs to
// the faculty.
func (r *CareerRepository) AddFaculty(ctx context.Context, careerID, facultyID primitive.ObjectID) (bool, error) {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": careerID, "faculty": bson.M{"$ne": facultyID}},
		bson.M{"$addToSet": bson.M{"faculty": facultyID}},
	)
	if err != nil {
		return false, translate(err, "add career faculty")
	}
	return res.ModifiedCount > 0, nil
}

func (r *CareerRepository) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	return deleteByID(ctx, r.collection, id, "delete career")
}
